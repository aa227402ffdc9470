package model

// Shared defaults used by the CLI and the pipeline packages.
const (
	// DefaultSentinel is the label counted and rendered for missing
	// grouping values, matching the report's output language.
	DefaultSentinel = "Desconhecido"

	DefaultLimit    = 10
	DefaultEncoding = "utf-8"
)
