// Package summary computes frequency tables over incident grouping fields.
package summary

import (
	"sort"

	"github.com/tinytelemetry/nocreport/internal/model"
)

// Counts is an insertion-ordered frequency table. Display order is by
// descending count with ties broken by first-seen order, so repeated runs
// over the same input produce identical listings.
type Counts struct {
	counts map[string]int
	order  []string
	total  int
}

// NewCounts returns an empty table.
func NewCounts() *Counts {
	return &Counts{counts: make(map[string]int)}
}

// Add counts one occurrence of value.
func (c *Counts) Add(value string) {
	if _, seen := c.counts[value]; !seen {
		c.order = append(c.order, value)
	}
	c.counts[value]++
	c.total++
}

// Get returns the occurrence count for value, zero when absent.
func (c *Counts) Get(value string) int { return c.counts[value] }

// Len returns the number of distinct values.
func (c *Counts) Len() int { return len(c.order) }

// Total returns the sum of all counts, which equals the number of records
// the table was built from.
func (c *Counts) Total() int { return c.total }

// Entry pairs a value with its occurrence count.
type Entry struct {
	Value string
	Count int
}

// Entries returns the table ordered by descending count, ties in
// first-seen order.
func (c *Counts) Entries() []Entry {
	entries := make([]Entry, 0, len(c.order))
	for _, value := range c.order {
		entries = append(entries, Entry{Value: value, Count: c.counts[value]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}

// Summarize tallies incidents by severity and by category in one linear pass
// per table. A missing or empty grouping value is counted under the sentinel
// rather than dropped, so each table partitions the full record set.
func Summarize(incidents []model.Incident, sentinel string) (severities, categories *Counts) {
	severities = NewCounts()
	categories = NewCounts()
	for _, inc := range incidents {
		severities.Add(model.OrSentinel(inc.Severity, sentinel))
		categories.Add(model.OrSentinel(inc.Category, sentinel))
	}
	return severities, categories
}
