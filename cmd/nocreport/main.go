package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tinytelemetry/nocreport/internal/report"

	"github.com/spf13/viper"
)

// Build variables - set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// cliOptions holds the flag values registered on a FlagSet. Only flags the
// user actually set are overlaid onto the config (see applyFlags).
type cliOptions struct {
	configPath  string
	showVersion bool
	input       string
	output      string
	limit       int
	encoding    string
	frontMatter bool
	historyDB   string
	s3Upload    string
}

func registerFlags(fs *flag.FlagSet) *cliOptions {
	opts := &cliOptions{}
	fs.StringVar(&opts.configPath, "config", "", "config file (default is $HOME/.config/nocreport/config.yml)")
	fs.BoolVar(&opts.showVersion, "version", false, "print version information")
	fs.StringVar(&opts.input, "input", "", "incident CSV to read (required)")
	fs.StringVar(&opts.input, "i", "", "shorthand for -input")
	fs.StringVar(&opts.output, "output", "", "Markdown file to write (default: report_<timestamp>.md)")
	fs.StringVar(&opts.output, "o", "", "shorthand for -output")
	fs.IntVar(&opts.limit, "limit", defaultLimit, "maximum recent incidents to list")
	fs.IntVar(&opts.limit, "l", defaultLimit, "shorthand for -limit")
	fs.StringVar(&opts.encoding, "encoding", defaultEncoding, "input charset (IANA name)")
	fs.StringVar(&opts.encoding, "e", defaultEncoding, "shorthand for -encoding")
	fs.BoolVar(&opts.frontMatter, "front-matter", false, "prepend a YAML metadata block to the report")
	fs.StringVar(&opts.historyDB, "history-db", "", "DuckDB file to append run history to")
	fs.StringVar(&opts.s3Upload, "s3-upload", "", "s3://bucket/prefix destination to publish the report to")
	return opts
}

// applyFlags overlays explicitly set flags onto cfg, so flags win over the
// config file and environment.
func applyFlags(cfg *appConfig, fs *flag.FlagSet, opts *cliOptions) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input", "i":
			cfg.Input = opts.input
		case "output", "o":
			cfg.Output = opts.output
		case "limit", "l":
			cfg.Limit = opts.limit
		case "encoding", "e":
			cfg.Encoding = opts.encoding
		case "front-matter":
			cfg.FrontMatter = opts.frontMatter
		case "history-db":
			cfg.HistoryDB = opts.historyDB
		case "s3-upload":
			cfg.S3UploadURL = opts.s3Upload
		}
	})
}

func main() {
	opts := registerFlags(flag.CommandLine)
	flag.Parse()

	if opts.showVersion {
		fmt.Printf("nocreport - NOC Daily Report Generator\n")
		fmt.Printf("  Version: %s\n", version)
		fmt.Printf("  Commit:  %s\n", commit)
		fmt.Printf("  Built:   %s\n", buildTime)
		return
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	applyFlags(&cfg, flag.CommandLine, opts)

	if err := cfg.validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := runReport(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps the failure to the process status: 2 for output errors,
// 1 for everything else (input and config).
func exitCode(err error) int {
	var outputErr *report.OutputError
	if errors.As(err, &outputErr) {
		return 2
	}
	return 1
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("NOCREPORT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Every consumed key needs a default: AutomaticEnv only surfaces keys
	// viper already knows about when Unmarshal runs.
	v.SetDefault("input", "")
	v.SetDefault("output", "")
	v.SetDefault("limit", defaultLimit)
	v.SetDefault("encoding", defaultEncoding)
	v.SetDefault("sentinel", defaultSentinel)
	v.SetDefault("front-matter", false)
	v.SetDefault("history-db", "")
	v.SetDefault("s3-upload", "")
	v.SetDefault("s3-endpoint", "")
	v.SetDefault("s3-region", "")
	v.SetDefault("s3-access-key", "")
	v.SetDefault("s3-secret-key", "")
	v.SetDefault("s3-session-token", "")
	v.SetDefault("s3-use-ssl", true)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "nocreport", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	cfg.ConfigPath = v.ConfigFileUsed()

	// Expand ~ in history-db
	if strings.HasPrefix(cfg.HistoryDB, "~/") {
		cfg.HistoryDB = filepath.Join(home, cfg.HistoryDB[2:])
	}

	return cfg, nil
}
