// Package schema resolves declared column metadata against the realized
// column names of one data object.
//
// Metadata declares columns either literally or as patterns that may match
// any number of realized names. Resolve expands patterns, drops declared
// columns the object does not carry, orders the result the way the binary
// payload was produced (sorted by name), and validates that the realized
// names are covered exactly once.
package schema

import (
	"fmt"

	"github.com/icos-cp/cpb/errs"
)

// Resolve produces the concrete schema for one data object.
//
// declared is the column declaration list from metadata; realized is the
// object's actual column-name list in declared order. The realized list
// becomes the schema's DeclaredOrder.
//
// Rules, in order:
//   - a pattern spec yields one concrete column per realized name it
//     matches; a pattern matching nothing contributes nothing
//   - when several specs cover the same realized name, the first one in
//     declaration order wins
//   - a literal spec whose name is absent from realized is dropped (it
//     declares an optional column this object does not carry)
//   - the concrete set is sorted by name, which is the wire layout order
//
// Resolution fails with errs.ErrInvalidSchema when any realized name is
// left without a declaration. An empty realized list yields an empty
// schema and no error; the caller decides whether an empty table is
// meaningful.
func Resolve(declared []ColumnSpec, realized []string) (*Schema, error) {
	taken := make(map[string]bool, len(realized))
	present := make(map[string]bool, len(realized))
	for _, name := range realized {
		present[name] = true
	}

	cols := make([]Column, 0, len(realized))
	claim := func(name, format string) {
		if taken[name] {
			return
		}
		taken[name] = true
		cols = append(cols, Column{Name: name, Format: format})
	}

	for _, spec := range declared {
		if spec.IsPattern {
			for _, name := range realized {
				if spec.matches(name) {
					claim(name, spec.Format)
				}
			}

			continue
		}

		// Literal specs not present in this object declare optional
		// columns; they are dropped, not an error.
		if present[spec.Name] {
			claim(spec.Name, spec.Format)
		}
	}

	for _, name := range realized {
		if !taken[name] {
			return nil, fmt.Errorf("%w: realized column %q has no declaration", errs.ErrInvalidSchema, name)
		}
	}

	sortColumns(cols)

	order := make([]string, len(realized))
	copy(order, realized)

	return &Schema{Columns: cols, DeclaredOrder: order}, nil
}
