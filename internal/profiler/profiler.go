// Package profiler derives per-column summaries from a loaded table.
package profiler

import (
	"fmt"
	"strings"

	"github.com/peekknuf/dataoverview/internal/table"
)

// DefaultTop is how many example values each column profile keeps.
const DefaultTop = 3

// ColumnProfile summarizes one column.
type ColumnProfile struct {
	Name        string
	Type        table.ValueType
	UniqueCount int
	NullCount   int
	TopExamples []ValueCount
}

// Examples renders the top values as "- <value> (count: <n>)" lines.
func (c ColumnProfile) Examples() string {
	lines := make([]string, len(c.TopExamples))
	for i, vc := range c.TopExamples {
		lines[i] = fmt.Sprintf("- %s (count: %d)", vc.Value, vc.Count)
	}
	return strings.Join(lines, "\n")
}

// Report holds one profile per input column, in table order.
type Report struct {
	Source  string
	Rows    int
	Columns []ColumnProfile
}

type Options struct {
	// Top is the number of example values kept per column.
	Top int
}

func DefaultOptions() Options {
	return Options{Top: DefaultTop}
}

// Profile builds a report for t. Null values are counted in NullCount but
// never ranked among the example values.
func Profile(source string, t *table.Table, opts Options) *Report {
	if opts.Top <= 0 {
		opts.Top = DefaultTop
	}

	r := &Report{
		Source:  source,
		Rows:    t.Rows,
		Columns: make([]ColumnProfile, 0, len(t.Columns)),
	}

	for _, col := range t.Columns {
		stats := NewColumnStats(col.Name, col.Type)
		for _, v := range col.Values {
			stats.Update(v)
		}

		r.Columns = append(r.Columns, ColumnProfile{
			Name:        stats.Name,
			Type:        stats.Type,
			UniqueCount: stats.Unique(),
			NullCount:   stats.NullCount,
			TopExamples: stats.Top(opts.Top),
		})
	}

	return r
}
