package model

// Incident represents a single NOC incident row used across the pipeline.
// It is the canonical type for aggregation, rendering, and run history.
// All fields are raw text from the input; a column absent from the source
// leaves its field empty, and downstream consumers substitute the sentinel.
type Incident struct {
	Timestamp   string
	Host        string
	Category    string
	Severity    string
	Description string
}

// OrSentinel returns value unless it is empty, in which case the sentinel
// label is returned.
func OrSentinel(value, sentinel string) string {
	if value == "" {
		return sentinel
	}
	return value
}
