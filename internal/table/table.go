package table

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is a single cell. Key is the canonical rendering of the cell in
// its column's type; equal keys mean equal values.
type Value struct {
	Null bool
	Raw  string
	Key  string
}

type Column struct {
	Name   string
	Type   ValueType
	Values []Value

	leadingZeros bool
}

// Table is an in-memory, column-oriented copy of a tabular file.
type Table struct {
	Columns []*Column
	Rows    int
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Builder collects raw string records and resolves column types once all
// rows have been seen.
type Builder struct {
	columns []*Column
	types   []ValueType
	rows    int
}

// NewBuilder starts a table with the given header row. Header names are
// made unique: blanks become "Unnamed: <index>" and repeats get a ".N"
// suffix.
func NewBuilder(header []string) *Builder {
	names := UniqueNames(header)

	b := &Builder{
		columns: make([]*Column, len(names)),
		types:   make([]ValueType, len(names)),
	}
	for i, n := range names {
		b.columns[i] = &Column{Name: n}
	}
	return b
}

// Width is the number of columns in the header.
func (b *Builder) Width() int {
	return len(b.columns)
}

// Append adds one record. Missing trailing cells are treated as nulls.
// Records wider than the header are rejected.
func (b *Builder) Append(record []string) error {
	if len(record) > len(b.columns) {
		return fmt.Errorf("expected %d fields, saw %d", len(b.columns), len(record))
	}

	for i, c := range b.columns {
		var raw string
		if i < len(record) {
			raw = record[i]
		}

		t := Detect(raw)
		if t == NullType {
			c.Values = append(c.Values, Value{Null: true, Raw: raw})
			continue
		}

		if t == IntType && !c.leadingZeros && hasLeadingZeros(raw) {
			c.leadingZeros = true
		}

		// Short circuit. Already most general type.
		if b.types[i] != TextType {
			b.types[i] = GeneralizeType(b.types[i], t)
		}

		c.Values = append(c.Values, Value{Raw: raw})
	}

	b.rows++
	return nil
}

// Build resolves each column's type and fills in the value keys.
func (b *Builder) Build() *Table {
	for i, c := range b.columns {
		c.Type = resolveType(b.types[i], c.leadingZeros)

		for j := range c.Values {
			if c.Values[j].Null {
				continue
			}
			c.Values[j].Key = canonical(c.Values[j].Raw, c.Type)
		}
	}

	return &Table{
		Columns: b.columns,
		Rows:    b.rows,
	}
}

func resolveType(t ValueType, leadingZeros bool) ValueType {
	switch {
	case t == NullType:
		// An all-missing column has no values to type; it reads as a
		// floating-point column of NaNs.
		return FloatType
	case leadingZeros && t == IntType:
		return TextType
	}
	return t
}

// UniqueNames returns header names with blanks and duplicates renamed.
func UniqueNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))

	for i, h := range header {
		n := h
		if strings.TrimSpace(n) == "" {
			n = "Unnamed: " + strconv.Itoa(i)
		}

		base := n
		for k := seen[base]; ; k++ {
			if k > 0 {
				n = base + "." + strconv.Itoa(k)
			}
			if _, taken := seen[n]; !taken {
				seen[base] = k + 1
				break
			}
		}

		seen[n] = max(seen[n], 1)
		names[i] = n
	}

	return names
}
