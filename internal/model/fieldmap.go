package model

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Logical field names resolved against the input header.
const (
	FieldTimestamp   = "timestamp"
	FieldHost        = "host"
	FieldCategory    = "category"
	FieldSeverity    = "severity"
	FieldDescription = "description"
)

// FieldMap maps each logical incident field to the header names that may
// carry it. Incident exports name their columns in the operator's language,
// so the defaults accept both Portuguese and English headers and a config
// file can override any alias list.
type FieldMap map[string][]string

// DefaultFieldMap returns the alias lists recognized out of the box.
func DefaultFieldMap() FieldMap {
	return FieldMap{
		FieldTimestamp:   {"timestamp"},
		FieldHost:        {"host"},
		FieldCategory:    {"categoria", "category"},
		FieldSeverity:    {"severidade", "severity"},
		FieldDescription: {"descricao", "descrição", "description"},
	}
}

// Merge overlays non-empty alias lists from other onto a copy of fm.
func (fm FieldMap) Merge(other FieldMap) FieldMap {
	merged := make(FieldMap, len(fm))
	for field, aliases := range fm {
		merged[field] = aliases
	}
	for field, aliases := range other {
		if len(aliases) > 0 {
			merged[field] = aliases
		}
	}
	return merged
}

// Columns holds the resolved column index for each logical field.
// An index of -1 means the header does not carry that field.
type Columns struct {
	Timestamp   int
	Host        int
	Category    int
	Severity    int
	Description int
}

// Resolve matches a header row against the alias lists. Matching is
// case-insensitive and accent-insensitive, so "Descrição" and "descricao"
// resolve to the same column. The first matching column wins; unrecognized
// columns are ignored.
func (fm FieldMap) Resolve(header []string) Columns {
	cols := Columns{Timestamp: -1, Host: -1, Category: -1, Severity: -1, Description: -1}

	index := make(map[string]int, len(header))
	for i, name := range header {
		key := foldHeader(name)
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	lookup := func(field string) int {
		for _, alias := range fm[field] {
			if i, ok := index[foldHeader(alias)]; ok {
				return i
			}
		}
		return -1
	}

	cols.Timestamp = lookup(FieldTimestamp)
	cols.Host = lookup(FieldHost)
	cols.Category = lookup(FieldCategory)
	cols.Severity = lookup(FieldSeverity)
	cols.Description = lookup(FieldDescription)
	return cols
}

// foldHeader lowercases and strips combining marks. A leading BOM is
// dropped first: Excel-exported CSVs prefix the file, and thus the first
// header cell, with U+FEFF. Transformers are not safe for concurrent
// reuse, so the chain is built per call.
func foldHeader(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, strings.TrimSpace(name))
	if err != nil {
		folded = strings.TrimSpace(name)
	}
	return strings.ToLower(folded)
}
