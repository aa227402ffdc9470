// Package report renders and persists the Markdown incident report.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tinytelemetry/nocreport/internal/model"
	"github.com/tinytelemetry/nocreport/internal/summary"
	"github.com/tinytelemetry/nocreport/internal/timestamp"
)

const generatedLayout = "2006-01-02 15:04:05"

// Renderer builds the report document from the record set and its
// frequency tables. The zero value is not usable; set Limit and Sentinel.
type Renderer struct {
	// Limit caps the recent-incidents listing, applied after sorting.
	Limit int
	// Sentinel substitutes missing display values.
	Sentinel string
	// FrontMatter prepends a YAML metadata block when set.
	FrontMatter bool
	// Source names the input in the front matter block.
	Source string
	// Now supplies the generation time; nil means time.Now.
	Now func() time.Time
}

// Render produces the full Markdown document. Sections appear in fixed
// order: title, generation stamp, severity and category breakdowns, then
// the recent-incidents listing.
func (r *Renderer) Render(incidents []model.Incident, severities, categories *summary.Counts) (string, error) {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	generatedAt := now()

	var b strings.Builder

	if r.FrontMatter {
		fm, err := renderFrontMatter(generatedAt, r.Source, severities, categories)
		if err != nil {
			return "", err
		}
		b.WriteString(fm)
	}

	b.WriteString("# Relatório Diário do NOC\n\n")
	fmt.Fprintf(&b, "Data de geração: %s\n\n", generatedAt.Format(generatedLayout))

	b.WriteString("## Estatísticas de Incidentes\n\n")
	b.WriteString("### Por Severidade\n\n")
	writeCountList(&b, severities)
	b.WriteString("\n### Por Categoria\n\n")
	writeCountList(&b, categories)

	if window, ok := coveredWindow(incidents); ok {
		b.WriteString("\n" + window + "\n")
	}

	b.WriteString("\n## Top Incidentes Recentes\n\n")
	for _, inc := range r.recentIncidents(incidents) {
		fmt.Fprintf(&b, "- `%s` **%s** %s - %s: %s\n",
			model.OrSentinel(inc.Timestamp, r.Sentinel),
			model.OrSentinel(inc.Severity, r.Sentinel),
			model.OrSentinel(inc.Category, r.Sentinel),
			model.OrSentinel(inc.Host, r.Sentinel),
			model.OrSentinel(inc.Description, r.Sentinel))
	}

	return b.String(), nil
}

func writeCountList(b *strings.Builder, counts *summary.Counts) {
	for _, e := range counts.Entries() {
		fmt.Fprintf(b, "- **%s**: %d\n", e.Value, e.Count)
	}
}

// recentIncidents returns a copy of the records sorted by raw timestamp
// string, descending lexicographic, truncated to Limit. The sort is stable
// so equal timestamps keep their input order; a missing timestamp sorts as
// the empty string and lands last. Lexicographic order on ISO-8601-style
// strings matches chronological order, so no date parsing happens here.
func (r *Renderer) recentIncidents(incidents []model.Incident) []model.Incident {
	sorted := make([]model.Incident, len(incidents))
	copy(sorted, incidents)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp > sorted[j].Timestamp
	})

	limit := r.Limit
	if limit < 0 {
		limit = 0
	}
	if limit > len(sorted) {
		limit = len(sorted)
	}
	return sorted[:limit]
}

// coveredWindow reports the earliest and latest parseable incident
// timestamps. Records without a recognizable timestamp are skipped; when
// none parse the line is omitted entirely.
func coveredWindow(incidents []model.Incident) (string, bool) {
	parser := timestamp.NewParser()
	var earliest, latest time.Time
	found := false

	for _, inc := range incidents {
		result := parser.Parse(inc.Timestamp)
		if !result.Found {
			continue
		}
		if !found || result.Timestamp.Before(earliest) {
			earliest = result.Timestamp
		}
		if !found || result.Timestamp.After(latest) {
			latest = result.Timestamp
		}
		found = true
	}
	if !found {
		return "", false
	}
	return fmt.Sprintf("Período coberto: %s a %s",
		earliest.Format(generatedLayout), latest.Format(generatedLayout)), true
}
