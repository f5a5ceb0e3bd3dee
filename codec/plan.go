// Package codec turns a resolved schema into a binary unpack plan and
// decodes raw payloads against it.
//
// The portal serves one contiguous binary block per request: for each
// selected column, rowCount consecutive elements of that column's decode
// kind, all sharing a single byte order. A Plan captures exactly that
// layout; Decode applies it in one pass and reconstructs a column-major
// table with semantic post-processing and declared-order restore.
package codec

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/icos-cp/cpb/dtype"
	"github.com/icos-cp/cpb/endian"
	"github.com/icos-cp/cpb/logging"
	"github.com/icos-cp/cpb/schema"
)

// Role is the semantic post-processing applied to a decoded column. It is
// decided once at plan-build time, keyed by the column's resolved name and
// decode kind, so the decoder never re-tests names per access.
type Role uint8

const (
	RoleNone           Role = iota // plain numeric column
	RoleChar                       // UTF-16 code units rendered as one-character strings
	RoleTimestampMilli             // millisecond Unix timestamp
	RoleDateDays                   // days since the Unix epoch
	RoleTimeSeconds                // seconds of day
)

// roleFor resolves the semantic role of a column. Flag columns are
// recognized by kind; the time-related roles by the portal's literal
// column names.
func roleFor(name string, kind dtype.Kind) Role {
	if kind == dtype.KindChar16 {
		return RoleChar
	}
	switch name {
	case "TIMESTAMP":
		return RoleTimestampMilli
	case "date":
		return RoleDateDays
	case "time":
		return RoleTimeSeconds
	default:
		return RoleNone
	}
}

// Entry describes one column run inside the payload: Count consecutive
// elements of Kind, belonging to the named column.
type Entry struct {
	Name  string
	Kind  dtype.Kind
	Role  Role
	Count int
}

// Plan is the fixed unpack descriptor for one payload: the selected
// column runs in wire order, sharing one byte order.
type Plan struct {
	Entries []Entry
	Engine  endian.EndianEngine
	Rows    int
}

// Build maps the selected columns of a schema through the type mapping
// table into an unpack plan.
//
// Selection follows wire order: entries appear in schema order regardless
// of the order selectors were given in, matching how the portal serves
// narrowed payloads. A column whose declared format has no decode rule
// fails with errs.ErrUnknownType.
func Build(sch *schema.Schema, rows int, sel *schema.Selection, engine endian.EndianEngine) (*Plan, error) {
	selected := make(map[int]bool)
	for _, idx := range sel.Indices(sch) {
		selected[idx] = true
	}

	entries := make([]Entry, 0, len(selected))
	for i, col := range sch.Columns {
		if !selected[i] {
			continue
		}
		kind, err := dtype.Lookup(col.Format)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col.Name, err)
		}
		entries = append(entries, Entry{
			Name:  col.Name,
			Kind:  kind,
			Role:  roleFor(col.Name, kind),
			Count: rows,
		})
	}

	plan := &Plan{Entries: entries, Engine: engine, Rows: rows}
	if !endian.CompareNativeEndian(engine) {
		// every scalar read will byte-swap on this host
		logging.Get().Debug("plan byte order differs from host",
			zap.String("descriptor", plan.Descriptor()))
	}

	return plan, nil
}

// ByteSize returns the payload length the plan implies.
func (p *Plan) ByteSize() int {
	size := 0
	for _, e := range p.Entries {
		size += e.Count * e.Kind.Width()
	}

	return size
}

// Descriptor renders the plan as a single flat format string, e.g. ">3q3f"
// for three big-endian int64 values followed by three float32 values. It is
// used for logging and error reporting only.
func (p *Plan) Descriptor() string {
	var sb strings.Builder
	sb.WriteByte(endian.Marker(p.Engine))
	for _, e := range p.Entries {
		sb.WriteString(e.Kind.Token(e.Count))
	}

	return sb.String()
}
