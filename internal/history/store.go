// Package history persists report runs to a local DuckDB database so
// operators can query how incident volume evolves across daily reports.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tinytelemetry/nocreport/internal/summary"

	_ "github.com/duckdb/duckdb-go/v2"
)

// Store manages the DuckDB database holding past report runs.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Dimension labels used in the report_counts table.
const (
	DimensionSeverity = "severidade"
	DimensionCategory = "categoria"
)

var migrations = []string{
	`CREATE SEQUENCE IF NOT EXISTS report_runs_seq`,
	`CREATE TABLE IF NOT EXISTS report_runs (
		id BIGINT PRIMARY KEY DEFAULT nextval('report_runs_seq'),
		generated_at TIMESTAMP NOT NULL,
		source VARCHAR NOT NULL,
		output VARCHAR NOT NULL,
		total_incidents INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS report_counts (
		run_id BIGINT NOT NULL,
		dimension VARCHAR NOT NULL,
		value VARCHAR NOT NULL,
		count INTEGER NOT NULL
	)`,
}

// NewStore opens or creates the history database. An empty dbPath opens an
// in-memory database, used by tests.
func NewStore(dbPath string) (*Store, error) {
	dsn := ""
	if dbPath != "" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("history: mkdir: %w", err)
		}
		dsn = dbPath
	}

	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("history: open: %w", err)
	}
	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("history: migrate: %w", err)
		}
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Run describes one completed report generation.
type Run struct {
	GeneratedAt time.Time
	Source      string
	Output      string
	Total       int
}

// RecordRun appends one run and its frequency tables atomically.
func (s *Store) RecordRun(ctx context.Context, run Run, severities, categories *summary.Counts) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("history: begin: %w", err)
	}
	defer tx.Rollback()

	var runID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO report_runs (generated_at, source, output, total_incidents)
		 VALUES (?, ?, ?, ?) RETURNING id`,
		run.GeneratedAt, run.Source, run.Output, run.Total,
	).Scan(&runID)
	if err != nil {
		return fmt.Errorf("history: insert run: %w", err)
	}

	if err := insertCounts(ctx, tx, runID, DimensionSeverity, severities); err != nil {
		return err
	}
	if err := insertCounts(ctx, tx, runID, DimensionCategory, categories); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("history: commit: %w", err)
	}
	return nil
}

func insertCounts(ctx context.Context, tx *sql.Tx, runID int64, dimension string, counts *summary.Counts) error {
	for _, e := range counts.Entries() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO report_counts (run_id, dimension, value, count) VALUES (?, ?, ?, ?)`,
			runID, dimension, e.Value, e.Count,
		); err != nil {
			return fmt.Errorf("history: insert %s count: %w", dimension, err)
		}
	}
	return nil
}

// RunCount returns the number of recorded runs.
func (s *Store) RunCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM report_runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("history: count runs: %w", err)
	}
	return n, nil
}

// CountsForLatestRun returns the stored table for one dimension of the most
// recent run, ordered by descending count.
func (s *Store) CountsForLatestRun(ctx context.Context, dimension string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT value, count FROM report_counts
		 WHERE dimension = ? AND run_id = (SELECT max(id) FROM report_runs)
		 ORDER BY count DESC`, dimension)
	if err != nil {
		return nil, fmt.Errorf("history: query counts: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var value string
		var count int
		if err := rows.Scan(&value, &count); err != nil {
			return nil, fmt.Errorf("history: scan counts: %w", err)
		}
		out[value] = count
	}
	return out, rows.Err()
}
