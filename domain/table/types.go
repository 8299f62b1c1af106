package table

import (
	"math"

	"autolyze/domain/core"
)

// ColumnKind classifies a column for the profiling engine
type ColumnKind string

const (
	KindNumeric     ColumnKind = "numeric"
	KindCategorical ColumnKind = "categorical"
)

// Column is a single named column of a table. Numeric columns store their
// cells in Numbers with NaN as the missing marker; categorical columns store
// theirs in Labels with the empty string as the missing marker.
type Column struct {
	Name    string     `json:"name"`
	Kind    ColumnKind `json:"kind"`
	Numbers []float64  `json:"numbers,omitempty"`
	Labels  []string   `json:"labels,omitempty"`
}

// Table is an immutable snapshot of tabular data. Row order is the identity
// axis that cluster assignments refer back to.
type Table struct {
	Source  string   `json:"source"`
	Columns []Column `json:"columns"`
}

// IsMissing reports whether a numeric cell is the missing marker
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Len returns the number of cells in the column
func (c Column) Len() int {
	if c.Kind == KindNumeric {
		return len(c.Numbers)
	}
	return len(c.Labels)
}

// MissingCount counts missing cells in the column
func (c Column) MissingCount() int {
	missing := 0
	switch c.Kind {
	case KindNumeric:
		for _, v := range c.Numbers {
			if IsMissing(v) {
				missing++
			}
		}
	case KindCategorical:
		for _, v := range c.Labels {
			if v == "" {
				missing++
			}
		}
	}
	return missing
}

// NonMissing returns the column's numeric values with missing cells dropped,
// preserving row order. Only meaningful for numeric columns.
func (c Column) NonMissing() []float64 {
	values := make([]float64, 0, len(c.Numbers))
	for _, v := range c.Numbers {
		if !IsMissing(v) {
			values = append(values, v)
		}
	}
	return values
}

// RowCount returns the number of rows in the table
func (t *Table) RowCount() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// ColumnCount returns the number of columns in the table
func (t *Table) ColumnCount() int {
	return len(t.Columns)
}

// Column looks up a column by name
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// NumericColumns returns the numeric subspace in declaration order
func (t *Table) NumericColumns() []Column {
	numeric := make([]Column, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c.Kind == KindNumeric {
			numeric = append(numeric, c)
		}
	}
	return numeric
}

// Validate checks the structural invariants: at least one column, at least
// one row, and equal lengths across all columns
func (t *Table) Validate() error {
	if len(t.Columns) == 0 {
		return core.ErrEmptyInput
	}
	rows := t.Columns[0].Len()
	if rows == 0 {
		return core.ErrEmptyInput
	}
	for _, c := range t.Columns[1:] {
		if c.Len() != rows {
			return core.ErrColumnMismatch
		}
	}
	return nil
}
