package report

import (
	"strings"
	"testing"
	"time"

	"github.com/tinytelemetry/nocreport/internal/model"
	"github.com/tinytelemetry/nocreport/internal/summary"
)

var fixedNow = func() time.Time {
	return time.Date(2026, 1, 18, 12, 0, 0, 0, time.UTC)
}

func sampleIncidents() []model.Incident {
	return []model.Incident{
		{Timestamp: "2026-01-18 09:00:00", Severity: "Alta", Category: "Rede", Host: "h1", Description: "Link down"},
		{Timestamp: "2026-01-18 10:00:00", Severity: "Baixa", Category: "Disco", Host: "h2", Description: "Low space"},
	}
}

func render(t *testing.T, r Renderer, incidents []model.Incident) string {
	t.Helper()
	sev, cat := summary.Summarize(incidents, model.DefaultSentinel)
	out, err := r.Render(incidents, sev, cat)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return out
}

func TestRender_SectionOrder(t *testing.T) {
	t.Parallel()
	out := render(t, Renderer{Limit: 10, Sentinel: model.DefaultSentinel, Now: fixedNow}, sampleIncidents())

	sections := []string{
		"# Relatório Diário do NOC",
		"Data de geração: 2026-01-18 12:00:00",
		"## Estatísticas de Incidentes",
		"### Por Severidade",
		"### Por Categoria",
		"## Top Incidentes Recentes",
	}
	last := -1
	for _, s := range sections {
		idx := strings.Index(out, s)
		if idx < 0 {
			t.Fatalf("section %q missing from output:\n%s", s, out)
		}
		if idx < last {
			t.Errorf("section %q out of order", s)
		}
		last = idx
	}
}

func TestRender_LimitOneListsOnlyLatest(t *testing.T) {
	t.Parallel()
	out := render(t, Renderer{Limit: 1, Sentinel: model.DefaultSentinel, Now: fixedNow}, sampleIncidents())

	if !strings.Contains(out, "- `2026-01-18 10:00:00` **Baixa** Disco - h2: Low space") {
		t.Errorf("latest incident missing from listing:\n%s", out)
	}
	if strings.Contains(out, "`2026-01-18 09:00:00`") {
		t.Errorf("limit=1 should exclude the 09:00:00 row:\n%s", out)
	}
	// Statistics still cover both records.
	if !strings.Contains(out, "- **Alta**: 1") || !strings.Contains(out, "- **Baixa**: 1") {
		t.Errorf("severity breakdown incomplete:\n%s", out)
	}
	if !strings.Contains(out, "- **Rede**: 1") || !strings.Contains(out, "- **Disco**: 1") {
		t.Errorf("category breakdown incomplete:\n%s", out)
	}
}

func TestRender_LimitZeroKeepsStatistics(t *testing.T) {
	t.Parallel()
	out := render(t, Renderer{Limit: 0, Sentinel: model.DefaultSentinel, Now: fixedNow}, sampleIncidents())

	listing := out[strings.Index(out, "## Top Incidentes Recentes"):]
	if strings.Contains(listing, "- `") {
		t.Errorf("limit=0 should list no incidents:\n%s", listing)
	}
	if !strings.Contains(out, "- **Alta**: 1") {
		t.Errorf("statistics section changed by limit:\n%s", out)
	}
}

func TestRender_LimitBeyondCount(t *testing.T) {
	t.Parallel()
	out := render(t, Renderer{Limit: 100, Sentinel: model.DefaultSentinel, Now: fixedNow}, sampleIncidents())

	if !strings.Contains(out, "`2026-01-18 10:00:00`") || !strings.Contains(out, "`2026-01-18 09:00:00`") {
		t.Errorf("limit beyond record count should list all records:\n%s", out)
	}
}

func TestRecentIncidents_SortStableAndIdempotent(t *testing.T) {
	t.Parallel()
	incidents := []model.Incident{
		{Timestamp: "2026-01-18 09:00:00", Host: "first"},
		{Timestamp: "2026-01-18 10:00:00", Host: "a"},
		{Timestamp: "2026-01-18 09:00:00", Host: "second"},
		{Host: "no-ts"},
	}
	r := Renderer{Limit: 10, Sentinel: model.DefaultSentinel}

	sorted := r.recentIncidents(incidents)

	if sorted[0].Host != "a" {
		t.Errorf("latest timestamp should come first, got %q", sorted[0].Host)
	}
	if sorted[1].Host != "first" || sorted[2].Host != "second" {
		t.Errorf("equal timestamps must keep input order: %q, %q", sorted[1].Host, sorted[2].Host)
	}
	if sorted[3].Host != "no-ts" {
		t.Errorf("missing timestamp should sort last, got %q", sorted[3].Host)
	}

	// Re-sorting the sorted output changes nothing.
	resorted := r.recentIncidents(sorted)
	for i := range sorted {
		if resorted[i] != sorted[i] {
			t.Errorf("re-sort changed index %d: %+v vs %+v", i, resorted[i], sorted[i])
		}
	}
}

func TestRender_MissingFieldsUseSentinel(t *testing.T) {
	t.Parallel()
	incidents := []model.Incident{{Timestamp: "2026-01-18 09:00:00"}}
	out := render(t, Renderer{Limit: 10, Sentinel: model.DefaultSentinel, Now: fixedNow}, incidents)

	want := "- `2026-01-18 09:00:00` **Desconhecido** Desconhecido - Desconhecido: Desconhecido"
	if !strings.Contains(out, want) {
		t.Errorf("sentinel substitution missing:\n%s", out)
	}
}

func TestRender_Deterministic(t *testing.T) {
	t.Parallel()
	r := Renderer{Limit: 10, Sentinel: model.DefaultSentinel, Now: fixedNow}

	first := render(t, r, sampleIncidents())
	second := render(t, r, sampleIncidents())
	if first != second {
		t.Error("two renders over identical input differ")
	}
}

func TestRender_CoveredWindow(t *testing.T) {
	t.Parallel()
	out := render(t, Renderer{Limit: 10, Sentinel: model.DefaultSentinel, Now: fixedNow}, sampleIncidents())

	if !strings.Contains(out, "Período coberto: 2026-01-18 09:00:00 a 2026-01-18 10:00:00") {
		t.Errorf("covered window line missing:\n%s", out)
	}
}

func TestRender_CoveredWindowOmittedWhenUnparseable(t *testing.T) {
	t.Parallel()
	incidents := []model.Incident{{Timestamp: "not a date", Severity: "Alta"}}
	out := render(t, Renderer{Limit: 10, Sentinel: model.DefaultSentinel, Now: fixedNow}, incidents)

	if strings.Contains(out, "Período coberto") {
		t.Errorf("covered window should be omitted:\n%s", out)
	}
}

func TestRender_FrontMatter(t *testing.T) {
	t.Parallel()
	r := Renderer{Limit: 10, Sentinel: model.DefaultSentinel, Now: fixedNow, FrontMatter: true, Source: "incidents.csv"}
	out := render(t, r, sampleIncidents())

	if !strings.HasPrefix(out, "---\n") {
		t.Fatalf("front matter block missing:\n%s", out)
	}
	for _, want := range []string{
		"generated_at:",
		"2026-01-18 12:00:00",
		"source: incidents.csv",
		"total_incidents: 2",
		"Alta: 1",
		"Rede: 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("front matter missing %q:\n%s", want, out)
		}
	}

	// The document body still starts with the title after the block.
	rest := out[strings.Index(out, "---\n\n")+5:]
	if !strings.HasPrefix(rest, "# Relatório Diário do NOC") {
		t.Errorf("title does not follow front matter:\n%s", rest)
	}
}

func TestRender_NoFrontMatterByDefault(t *testing.T) {
	t.Parallel()
	out := render(t, Renderer{Limit: 10, Sentinel: model.DefaultSentinel, Now: fixedNow}, sampleIncidents())

	if strings.HasPrefix(out, "---") {
		t.Errorf("front matter rendered without being requested:\n%s", out)
	}
}
