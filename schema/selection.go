package schema

import (
	"fmt"
	"strings"

	"github.com/icos-cp/cpb/errs"
)

// Selector identifies one column of a schema, either by name or by
// wire-order index.
type Selector interface {
	resolve(s *Schema) (int, error)
}

type nameSelector string

func (n nameSelector) resolve(s *Schema) (int, error) {
	if idx := s.IndexOf(string(n)); idx >= 0 {
		return idx, nil
	}

	return -1, fmt.Errorf("%w: no column named %q", errs.ErrInvalidSelection, string(n))
}

type indexSelector int

func (i indexSelector) resolve(s *Schema) (int, error) {
	if int(i) >= 0 && int(i) < s.Len() {
		return int(i), nil
	}

	return -1, fmt.Errorf("%w: column index %d out of range [0,%d)", errs.ErrInvalidSelection, int(i), s.Len())
}

// ByName selects a column by its resolved name, case-insensitively.
func ByName(name string) Selector { return nameSelector(name) }

// ByIndex selects a column by its wire-order position.
func ByIndex(index int) Selector { return indexSelector(index) }

// Selection is a resolved subset of a schema's columns, kept as wire-order
// indices. A nil *Selection means "all columns".
type Selection struct {
	indices []int
}

// Select resolves the given selectors against the schema.
//
// Duplicate selectors collapse to one entry, keeping first occurrence
// order. Any selector that resolves to no column fails the whole
// selection with errs.ErrInvalidSelection: selection is all-or-nothing,
// and the caller keeps its previous selection on failure. No selectors
// at all is likewise rejected; callers meaning "all columns" pass a nil
// *Selection instead.
func (s *Schema) Select(selectors ...Selector) (*Selection, error) {
	if len(selectors) == 0 {
		return nil, fmt.Errorf("%w: empty selector list", errs.ErrInvalidSelection)
	}

	seen := make(map[int]bool, len(selectors))
	indices := make([]int, 0, len(selectors))
	for _, sel := range selectors {
		idx, err := sel.resolve(s)
		if err != nil {
			return nil, err
		}
		if seen[idx] {
			continue
		}
		seen[idx] = true
		indices = append(indices, idx)
	}

	return &Selection{indices: indices}, nil
}

// All reports whether the selection covers every column.
func (sel *Selection) All() bool {
	return sel == nil
}

// Indices returns the selected wire-order indices. For the all-columns
// selection it enumerates 0..n-1 over the given schema.
func (sel *Selection) Indices(s *Schema) []int {
	if sel == nil {
		all := make([]int, s.Len())
		for i := range all {
			all[i] = i
		}

		return all
	}

	out := make([]int, len(sel.indices))
	copy(out, sel.indices)

	return out
}

// Names returns the names of the selected columns in selection order.
func (sel *Selection) Names(s *Schema) []string {
	indices := sel.Indices(s)
	names := make([]string, len(indices))
	for i, idx := range indices {
		names[i] = s.Columns[idx].Name
	}

	return names
}

// Key returns a stable textual form of the selection, used for cache
// fingerprinting.
func (sel *Selection) Key(s *Schema) string {
	if sel == nil {
		return "*"
	}

	return strings.Join(sel.Names(s), ",")
}
