package report

import (
	"fmt"
	"time"

	"github.com/tinytelemetry/nocreport/internal/summary"

	"gopkg.in/yaml.v3"
)

// frontMatter is the optional YAML metadata block prepended to the report
// for pipelines that index generated files. Map keys serialize in sorted
// order, keeping the block deterministic across runs.
type frontMatter struct {
	GeneratedAt    string         `yaml:"generated_at"`
	Source         string         `yaml:"source,omitempty"`
	TotalIncidents int            `yaml:"total_incidents"`
	Severities     map[string]int `yaml:"severities"`
	Categories     map[string]int `yaml:"categories"`
}

func renderFrontMatter(generatedAt time.Time, source string, severities, categories *summary.Counts) (string, error) {
	fm := frontMatter{
		GeneratedAt:    generatedAt.Format(generatedLayout),
		Source:         source,
		TotalIncidents: severities.Total(),
		Severities:     countsMap(severities),
		Categories:     countsMap(categories),
	}
	body, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("marshaling front matter: %w", err)
	}
	return "---\n" + string(body) + "---\n\n", nil
}

func countsMap(counts *summary.Counts) map[string]int {
	m := make(map[string]int, counts.Len())
	for _, e := range counts.Entries() {
		m[e.Value] = e.Count
	}
	return m
}
