package main

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/tinytelemetry/nocreport/internal/csvread"
	"github.com/tinytelemetry/nocreport/internal/history"
	"github.com/tinytelemetry/nocreport/internal/report"
	"github.com/tinytelemetry/nocreport/internal/summary"
	"github.com/tinytelemetry/nocreport/internal/upload"

	"github.com/charmbracelet/lipgloss"
)

// runReport executes one full pipeline pass: read, summarize, render,
// write, then the optional history append and S3 publish. History and
// upload failures are warnings - the report already exists locally.
func runReport(cfg appConfig) error {
	start := time.Now()

	incidents, err := csvread.Read(cfg.Input, cfg.Encoding, cfg.fieldMap())
	if err != nil {
		return err
	}

	severities, categories := summary.Summarize(incidents, cfg.Sentinel)

	outPath := cfg.Output
	if outPath == "" {
		outPath = fmt.Sprintf("report_%s.md", start.Format("20060102_150405"))
	}

	renderer := report.Renderer{
		Limit:       cfg.Limit,
		Sentinel:    cfg.Sentinel,
		FrontMatter: cfg.FrontMatter,
		Source:      cfg.Input,
	}
	text, err := renderer.Render(incidents, severities, categories)
	if err != nil {
		return err
	}

	if err := report.WriteFile(text, outPath); err != nil {
		return err
	}

	recordHistory(cfg, start, outPath, len(incidents), severities, categories)
	uploadReport(cfg, outPath, start)

	printRunSummary(severities, len(incidents))
	fmt.Printf("Relatório gerado: %s\n", outPath)
	return nil
}

func recordHistory(cfg appConfig, generatedAt time.Time, outPath string, total int, severities, categories *summary.Counts) {
	if cfg.HistoryDB == "" {
		return
	}
	store, err := history.NewStore(cfg.HistoryDB)
	if err != nil {
		log.Printf("Warning: history disabled: %v", err)
		return
	}
	defer store.Close()

	run := history.Run{
		GeneratedAt: generatedAt,
		Source:      cfg.Input,
		Output:      outPath,
		Total:       total,
	}
	if err := store.RecordRun(context.Background(), run, severities, categories); err != nil {
		log.Printf("Warning: recording run history: %v", err)
	}
}

func uploadReport(cfg appConfig, outPath string, generatedAt time.Time) {
	if cfg.S3UploadURL == "" {
		return
	}
	uploader, err := upload.NewS3Uploader(upload.S3Config{
		BucketURL:    cfg.S3UploadURL,
		Endpoint:     cfg.S3Endpoint,
		Region:       cfg.S3Region,
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
		SessionToken: cfg.S3SessionToken,
		UseSSL:       cfg.S3UseSSL,
	})
	if err != nil {
		log.Printf("Warning: s3 upload disabled: %v", err)
		return
	}
	if err := uploader.UploadReport(context.Background(), outPath, generatedAt); err != nil {
		log.Printf("Warning: uploading report: %v", err)
		return
	}
	fmt.Printf("Relatório enviado para %s\n", cfg.S3UploadURL)
}

func printRunSummary(severities *summary.Counts, total int) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	fmt.Println()
	fmt.Println(bold.Render("Incidentes por severidade"))
	fmt.Println(dim.Render("─────────────────────────"))
	for _, e := range severities.Entries() {
		fmt.Printf("  %s %s\n", cyan.Render(e.Value), yellow.Render(strconv.Itoa(e.Count)))
	}
	fmt.Printf("  %s %s\n", dim.Render("total"), bold.Render(strconv.Itoa(total)))
	fmt.Println()
}
