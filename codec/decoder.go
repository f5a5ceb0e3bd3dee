package codec

import (
	"fmt"
	"math"
	"time"

	"github.com/icos-cp/cpb/dtype"
	"github.com/icos-cp/cpb/errs"
	"github.com/icos-cp/cpb/table"
)

const secondsPerDay = 86400

// Decode applies the plan to one raw payload and reconstructs the table.
//
// The payload length must equal the plan's byte size exactly; any skew
// between schema and payload fails with errs.ErrDecodeMismatch rather than
// truncating or padding silently.
//
// Columns are decoded in plan (wire) order and then reordered to
// declaredOrder, undoing the name sort of the binary layout. When convert
// is true, timestamp, date and time columns become time.Time values; flag
// columns always decode to one-character strings.
func Decode(raw []byte, plan *Plan, declaredOrder []string, convert bool) (*table.Table, error) {
	if len(raw) != plan.ByteSize() {
		return nil, fmt.Errorf("%w: got %d bytes, plan %q implies %d",
			errs.ErrDecodeMismatch, len(raw), plan.Descriptor(), plan.ByteSize())
	}

	t := table.New()
	offset := 0
	for _, entry := range plan.Entries {
		size := entry.Count * entry.Kind.Width()
		col, err := decodeColumn(entry, raw[offset:offset+size], plan, convert)
		if err != nil {
			return nil, err
		}
		offset += size

		if err := t.AddColumn(col); err != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrDecodeMismatch, err)
		}
	}

	t.Reorder(declaredOrder)

	return t, nil
}

// decodeColumn decodes one column run and applies its semantic role.
func decodeColumn(entry Entry, run []byte, plan *Plan, convert bool) (table.Column, error) {
	engine := plan.Engine

	switch entry.Kind {
	case dtype.KindChar16:
		// each scalar is one UTF-16 code unit, a single flag character
		values := make([]string, entry.Count)
		for i := range values {
			values[i] = string(rune(engine.Uint16(run[i*2:])))
		}

		return table.NewStringColumn(entry.Name, values), nil

	case dtype.KindInt64:
		if entry.Role == RoleTimestampMilli && convert {
			values := make([]time.Time, entry.Count)
			for i := range values {
				ms := int64(engine.Uint64(run[i*8:]))
				values[i] = time.UnixMilli(ms).UTC()
			}

			return table.NewTimeColumn(entry.Name, values), nil
		}
		values := make([]int64, entry.Count)
		for i := range values {
			values[i] = int64(engine.Uint64(run[i*8:]))
		}

		return table.NewInt64Column(entry.Name, values), nil

	case dtype.KindInt32:
		switch {
		case entry.Role == RoleDateDays && convert:
			values := make([]time.Time, entry.Count)
			for i := range values {
				days := int32(engine.Uint32(run[i*4:]))
				values[i] = time.Unix(int64(days)*secondsPerDay, 0).UTC()
			}

			return table.NewTimeColumn(entry.Name, values), nil

		case entry.Role == RoleTimeSeconds && convert:
			// seconds of day anchored on the epoch day; full second
			// precision survives the conversion, display commonly
			// rounds to hours and minutes
			values := make([]time.Time, entry.Count)
			for i := range values {
				secs := int32(engine.Uint32(run[i*4:]))
				values[i] = time.Unix(int64(secs)%secondsPerDay, 0).UTC()
			}

			return table.NewTimeColumn(entry.Name, values), nil

		default:
			values := make([]int32, entry.Count)
			for i := range values {
				values[i] = int32(engine.Uint32(run[i*4:]))
			}

			return table.NewInt32Column(entry.Name, values), nil
		}

	case dtype.KindFloat32:
		values := make([]float32, entry.Count)
		for i := range values {
			values[i] = math.Float32frombits(engine.Uint32(run[i*4:]))
		}

		return table.NewFloat32Column(entry.Name, values), nil

	case dtype.KindFloat64:
		values := make([]float64, entry.Count)
		for i := range values {
			values[i] = math.Float64frombits(engine.Uint64(run[i*8:]))
		}

		return table.NewFloat64Column(entry.Name, values), nil

	default:
		return table.Column{}, fmt.Errorf("%w: column %q has no decode kind", errs.ErrDecodeMismatch, entry.Name)
	}
}
