// Package frame provides a small in-memory table used by the processdata pipeline.
//
// A Table is a list of typed columns and a list of rows. Cells hold int64, float64,
// string or nil (missing value). Column kinds are inferred when a table is decoded
// from CSV and map onto SQL column types when the table is persisted.
package frame

import (
	"fmt"
	"slices"
)

// Kind is the inferred type of a column.
type Kind int

// Column kinds. KindText is the zero value so columns without evidence stay text.
const (
	KindText Kind = iota
	KindInt
	KindFloat
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "text"
	}
}

// Numeric reports whether the kind holds numbers.
func (k Kind) Numeric() bool {
	return k == KindInt || k == KindFloat
}

// Column describes one table column.
type Column struct {
	Name string
	Kind Kind
}

// Table is an ordered set of columns and rows.
type Table struct {
	Columns []Column
	Rows    [][]any
}

// New creates an empty table with the given columns.
func New(columns ...Column) *Table {
	return &Table{Columns: slices.Clone(columns)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return len(t.Columns)
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Append adds a row. The row must have one cell per column.
func (t *Table) Append(row ...any) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(row), len(t.Columns))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// Drop returns a copy of the table without the named column.
func (t *Table) Drop(name string) (*Table, error) {
	idx := t.Index(name)
	if idx < 0 {
		return nil, &MissingColumnError{Column: name, Available: t.Names()}
	}

	out := &Table{
		Columns: slices.Delete(slices.Clone(t.Columns), idx, idx+1),
		Rows:    make([][]any, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = slices.Delete(slices.Clone(row), idx, idx+1)
	}
	return out, nil
}

// Concat joins other's columns to the right of t, pairing rows by position.
// Both tables must have the same number of rows.
func (t *Table) Concat(other *Table) (*Table, error) {
	if t.Len() != other.Len() {
		return nil, fmt.Errorf("cannot concat tables with %d and %d rows", t.Len(), other.Len())
	}

	out := &Table{
		Columns: slices.Concat(t.Columns, other.Columns),
		Rows:    make([][]any, len(t.Rows)),
	}
	for i := range t.Rows {
		out.Rows[i] = slices.Concat(t.Rows[i], other.Rows[i])
	}
	return out, nil
}

// MissingColumnError is returned when a named column does not exist.
type MissingColumnError struct {
	Column    string
	Available []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column %q not found (available: %v)", e.Column, e.Available)
}
