// Package table provides the column-major table produced by decoding a
// data object payload.
//
// A Table is rectangular: every column holds the same number of rows.
// Columns keep their decoded Go types ([]int32, []int64, []float32,
// []float64, []string for flag columns, []time.Time for converted
// timestamp/date/time columns) and are addressed by name,
// case-insensitively.
package table

import (
	"fmt"
	"strings"
	"time"
)

// Column is one named, typed column of a table.
type Column struct {
	name string
	data any
}

// NewInt32Column creates a column of 32-bit integers.
func NewInt32Column(name string, values []int32) Column {
	return Column{name: name, data: values}
}

// NewInt64Column creates a column of 64-bit integers.
func NewInt64Column(name string, values []int64) Column {
	return Column{name: name, data: values}
}

// NewFloat32Column creates a column of 32-bit floats.
func NewFloat32Column(name string, values []float32) Column {
	return Column{name: name, data: values}
}

// NewFloat64Column creates a column of 64-bit floats.
func NewFloat64Column(name string, values []float64) Column {
	return Column{name: name, data: values}
}

// NewStringColumn creates a column of strings, used for decoded flag
// characters.
func NewStringColumn(name string, values []string) Column {
	return Column{name: name, data: values}
}

// NewTimeColumn creates a column of absolute or calendar time values.
func NewTimeColumn(name string, values []time.Time) Column {
	return Column{name: name, data: values}
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	switch v := c.data.(type) {
	case []int32:
		return len(v)
	case []int64:
		return len(v)
	case []float32:
		return len(v)
	case []float64:
		return len(v)
	case []string:
		return len(v)
	case []time.Time:
		return len(v)
	default:
		return 0
	}
}

// Int32s returns the column data as []int32, if that is its type.
func (c *Column) Int32s() ([]int32, bool) {
	v, ok := c.data.([]int32)
	return v, ok
}

// Int64s returns the column data as []int64, if that is its type.
func (c *Column) Int64s() ([]int64, bool) {
	v, ok := c.data.([]int64)
	return v, ok
}

// Float32s returns the column data as []float32, if that is its type.
func (c *Column) Float32s() ([]float32, bool) {
	v, ok := c.data.([]float32)
	return v, ok
}

// Float64s returns the column data as []float64, if that is its type.
func (c *Column) Float64s() ([]float64, bool) {
	v, ok := c.data.([]float64)
	return v, ok
}

// Strings returns the column data as []string, if that is its type.
func (c *Column) Strings() ([]string, bool) {
	v, ok := c.data.([]string)
	return v, ok
}

// Times returns the column data as []time.Time, if that is its type.
func (c *Column) Times() ([]time.Time, bool) {
	v, ok := c.data.([]time.Time)
	return v, ok
}

// Value returns the cell at the given row as an untyped value.
func (c *Column) Value(row int) any {
	switch v := c.data.(type) {
	case []int32:
		return v[row]
	case []int64:
		return v[row]
	case []float32:
		return v[row]
	case []float64:
		return v[row]
	case []string:
		return v[row]
	case []time.Time:
		return v[row]
	default:
		return nil
	}
}

// Table is an ordered set of equally sized columns.
type Table struct {
	columns []Column
	byName  map[string]int
	rows    int
}

// New creates an empty table.
func New() *Table {
	return &Table{byName: make(map[string]int)}
}

// AddColumn appends a column. All columns of a table must have the same
// length, and names must be unique (case-insensitively).
func (t *Table) AddColumn(col Column) error {
	key := strings.ToLower(col.name)
	if _, exists := t.byName[key]; exists {
		return fmt.Errorf("duplicate column %q", col.name)
	}
	if len(t.columns) > 0 && col.Len() != t.rows {
		return fmt.Errorf("column %q has %d rows, table has %d", col.name, col.Len(), t.rows)
	}

	t.rows = col.Len()
	t.byName[key] = len(t.columns)
	t.columns = append(t.columns, col)

	return nil
}

// Rows returns the number of rows.
func (t *Table) Rows() int { return t.rows }

// Len returns the number of columns.
func (t *Table) Len() int { return len(t.columns) }

// Names returns the column names in table order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i := range t.columns {
		names[i] = t.columns[i].name
	}

	return names
}

// Column returns the named column, matching case-insensitively.
func (t *Table) Column(name string) (*Column, bool) {
	idx, ok := t.byName[strings.ToLower(name)]
	if !ok {
		return nil, false
	}

	return &t.columns[idx], true
}

// Columns returns all columns in table order.
func (t *Table) Columns() []Column {
	return t.columns
}

// Reorder rearranges the table's columns to the given name order. Names
// missing from the order list are dropped; a name in the list that the
// table does not carry is skipped. This restores the declared column order
// after the wire-order decode.
func (t *Table) Reorder(order []string) {
	reordered := make([]Column, 0, len(t.columns))
	byName := make(map[string]int, len(t.columns))
	for _, name := range order {
		idx, ok := t.byName[strings.ToLower(name)]
		if !ok {
			continue
		}
		byName[strings.ToLower(name)] = len(reordered)
		reordered = append(reordered, t.columns[idx])
	}

	t.columns = reordered
	t.byName = byName
}
