// Package timestamp parses the date-time strings incident exports carry.
package timestamp

import (
	"strings"
	"time"
)

// Parser recognizes a fixed set of ISO-8601-style layouts.
type Parser struct {
	layouts []string
}

// NewParser creates a parser for the layouts incident tables use in the wild.
func NewParser() *Parser {
	return &Parser{
		layouts: []string{
			"2006-01-02 15:04:05",
			time.RFC3339,
			"2006-01-02T15:04:05",
			"2006-01-02 15:04:05.000",
			"2006-01-02 15:04",
			"2006-01-02",
		},
	}
}

// Result holds the outcome of a parse attempt.
type Result struct {
	Timestamp time.Time
	Found     bool
}

// Parse attempts each known layout against the trimmed value.
func (p *Parser) Parse(value string) Result {
	value = strings.TrimSpace(value)
	if value == "" {
		return Result{}
	}
	for _, layout := range p.layouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return Result{Timestamp: ts, Found: true}
		}
	}
	return Result{}
}
