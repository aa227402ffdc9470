package main

import (
	"fmt"
	"strings"

	"github.com/tinytelemetry/nocreport/internal/model"
)

const (
	defaultLimit    = model.DefaultLimit
	defaultEncoding = model.DefaultEncoding
	defaultSentinel = model.DefaultSentinel
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	Input          string              `mapstructure:"input"`
	Output         string              `mapstructure:"output"`
	Limit          int                 `mapstructure:"limit"`
	Encoding       string              `mapstructure:"encoding"`
	Sentinel       string              `mapstructure:"sentinel"`
	FrontMatter    bool                `mapstructure:"front-matter"`
	Columns        map[string][]string `mapstructure:"columns"`
	HistoryDB      string              `mapstructure:"history-db"`
	S3UploadURL    string              `mapstructure:"s3-upload"`
	S3Endpoint     string              `mapstructure:"s3-endpoint"`
	S3Region       string              `mapstructure:"s3-region"`
	S3AccessKey    string              `mapstructure:"s3-access-key"`
	S3SecretKey    string              `mapstructure:"s3-secret-key"`
	S3SessionToken string              `mapstructure:"s3-session-token"`
	S3UseSSL       bool                `mapstructure:"s3-use-ssl"`
	ConfigPath     string              `mapstructure:"-"` // not from config file
}

func (c appConfig) validate() error {
	if strings.TrimSpace(c.Input) == "" {
		return fmt.Errorf("missing required -input")
	}
	if c.Limit < 0 {
		return fmt.Errorf("invalid limit: %d", c.Limit)
	}
	if strings.TrimSpace(c.Sentinel) == "" {
		return fmt.Errorf("sentinel must not be empty")
	}
	return nil
}

// fieldMap overlays configured column aliases onto the defaults.
func (c appConfig) fieldMap() model.FieldMap {
	return model.DefaultFieldMap().Merge(model.FieldMap(c.Columns))
}
