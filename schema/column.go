package schema

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/icos-cp/cpb/errs"
)

// ColumnSpec is one column declaration obtained from metadata.
//
// A spec is either literal (Name is the exact realized column name) or a
// pattern (Name holds a regular expression matched against realized names).
// Pattern specs expand into zero or more concrete columns at resolution time
// and are then discarded.
type ColumnSpec struct {
	Name      string
	Format    string
	IsPattern bool

	pattern *regexp.Regexp
}

// NewColumnSpec creates a literal column declaration.
func NewColumnSpec(name, format string) ColumnSpec {
	return ColumnSpec{Name: name, Format: format}
}

// NewPatternSpec creates a pattern column declaration. The expression is
// compiled eagerly so a malformed pattern surfaces at declaration time, not
// in the middle of resolution.
func NewPatternSpec(expr, format string) (ColumnSpec, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return ColumnSpec{}, fmt.Errorf("%w: bad column pattern %q: %v", errs.ErrInvalidSchema, expr, err)
	}

	return ColumnSpec{Name: expr, Format: format, IsPattern: true, pattern: re}, nil
}

// matches reports whether the pattern spec matches the realized name at the
// start of the string, mirroring how the upstream metadata applies patterns.
func (c ColumnSpec) matches(name string) bool {
	if !c.IsPattern || c.pattern == nil {
		return false
	}
	loc := c.pattern.FindStringIndex(name)

	return loc != nil && loc[0] == 0
}

// Column is one resolved, concrete column: a literal name paired with its
// declared value format.
type Column struct {
	Name   string
	Format string
}

// Schema is the resolved column layout of one data object.
//
// Columns holds the concrete columns in wire order: sorted by name, the
// order the upstream producer used when writing the binary block.
// DeclaredOrder holds the realized column names in their original,
// semantically meaningful declaration order; the decoder restores it after
// decoding.
type Schema struct {
	Columns       []Column
	DeclaredOrder []string
}

// Len returns the number of concrete columns.
func (s *Schema) Len() int {
	return len(s.Columns)
}

// Names returns the column names in wire order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		names[i] = col.Name
	}

	return names
}

// IndexOf returns the wire-order position of the named column, matching
// case-insensitively. It returns -1 if the name is absent.
func (s *Schema) IndexOf(name string) int {
	for i, col := range s.Columns {
		if strings.EqualFold(col.Name, name) {
			return i
		}
	}

	return -1
}

// sortColumns orders concrete columns by name, the wire layout order.
func sortColumns(cols []Column) {
	sort.Slice(cols, func(i, j int) bool { return cols[i].Name < cols[j].Name })
}
