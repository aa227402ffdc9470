package csvread

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tinytelemetry/nocreport/internal/model"

	"golang.org/x/text/encoding/htmlindex"
)

// InputError reports a source that could not be opened, decoded, or parsed.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// Read parses a delimited incident table into records, preserving row order.
//
// The first row is the header; each data row is zipped against it. Rows with
// fewer fields than the header are padded with empty values; extra fields
// beyond the header are ignored. encodingName is an IANA charset name used to
// decode the file ("" or "utf-8" reads the bytes as-is). Field values stay
// text; no validation happens here.
func Read(path, encodingName string, fields model.FieldMap) ([]model.Incident, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}
	defer f.Close()

	reader, err := decodingReader(f, encodingName)
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}

	cr := csv.NewReader(reader)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, &InputError{Path: path, Err: fmt.Errorf("reading header: %w", err)}
	}
	cols := fields.Resolve(header)

	var incidents []model.Incident
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &InputError{Path: path, Err: fmt.Errorf("reading row: %w", err)}
		}
		incidents = append(incidents, model.Incident{
			Timestamp:   pick(row, cols.Timestamp),
			Host:        pick(row, cols.Host),
			Category:    pick(row, cols.Category),
			Severity:    pick(row, cols.Severity),
			Description: pick(row, cols.Description),
		})
	}
	return incidents, nil
}

func decodingReader(f *os.File, encodingName string) (io.Reader, error) {
	name := strings.ToLower(strings.TrimSpace(encodingName))
	if name == "" || name == "utf-8" || name == "utf8" {
		return f, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", encodingName, err)
	}
	return enc.NewDecoder().Reader(f), nil
}

func pick(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
