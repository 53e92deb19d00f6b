package profiler

import (
	"sort"

	"github.com/peekknuf/dataoverview/internal/table"
)

// ValueCount is one entry of a column's frequency table.
type ValueCount struct {
	Value string
	Count int
}

// ColumnStats accumulates frequencies for a single column.
type ColumnStats struct {
	Name      string
	Type      table.ValueType
	Count     int
	NullCount int

	valueCounts map[string]int
	order       []string // distinct keys in first-occurrence order
}

func NewColumnStats(name string, typ table.ValueType) *ColumnStats {
	return &ColumnStats{
		Name:        name,
		Type:        typ,
		valueCounts: make(map[string]int),
	}
}

func (s *ColumnStats) Update(v table.Value) {
	s.Count++

	if v.Null {
		s.NullCount++
		return
	}

	if _, ok := s.valueCounts[v.Key]; !ok {
		s.order = append(s.order, v.Key)
	}
	s.valueCounts[v.Key]++
}

// Unique is the number of distinct non-null values.
func (s *ColumnStats) Unique() int {
	return len(s.order)
}

// Top returns up to n values by descending count. Ties keep the order in
// which the values first appeared.
func (s *ColumnStats) Top(n int) []ValueCount {
	counts := make([]ValueCount, len(s.order))
	for i, k := range s.order {
		counts[i] = ValueCount{Value: k, Count: s.valueCounts[k]}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	if n >= 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}
