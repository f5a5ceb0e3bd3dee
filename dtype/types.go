// Package dtype maps the portal's logical value formats onto fixed-width
// binary decode kinds.
//
// Column metadata declares a value format either as a bare token ("FLOAT",
// "INT") or as a cpmeta ontology URI ("http://meta.icos-cp.eu/ontologies/
// cpmeta/float32"). Lookup normalizes both forms to the last path segment,
// case-insensitively, before consulting the mapping table.
package dtype

import (
	"fmt"
	"strings"

	"github.com/icos-cp/cpb/errs"
)

// Kind is a fixed-width binary decode primitive.
type Kind uint8

const (
	KindInvalid Kind = iota

	KindInt32   // 4-byte signed integer
	KindInt64   // 8-byte signed integer
	KindFloat32 // 4-byte IEEE 754 float
	KindFloat64 // 8-byte IEEE 754 float
	KindChar16  // 2-byte UTF-16 code unit, used for flag columns
)

// Width returns the on-wire size of one element in bytes.
func (k Kind) Width() int {
	switch k {
	case KindInt32, KindFloat32:
		return 4
	case KindInt64, KindFloat64:
		return 8
	case KindChar16:
		return 2
	default:
		return 0
	}
}

func (k Kind) String() string {
	switch k {
	case KindInt32:
		return "INT"
	case KindInt64:
		return "LONG"
	case KindFloat32:
		return "FLOAT"
	case KindFloat64:
		return "DOUBLE"
	case KindChar16:
		return "CHAR"
	default:
		return "Unknown"
	}
}

// token returns the letter used in a plan descriptor string, mirroring the
// conventional struct-format letters for each width.
func (k Kind) token() byte {
	switch k {
	case KindInt32:
		return 'i'
	case KindInt64:
		return 'q'
	case KindFloat32:
		return 'f'
	case KindFloat64:
		return 'd'
	case KindChar16:
		return 'H'
	default:
		return '?'
	}
}

// Token returns the descriptor fragment for count consecutive elements of
// this kind, e.g. "1440q" for 1440 KindInt64 values.
func (k Kind) Token(count int) string {
	return fmt.Sprintf("%d%c", count, k.token())
}

// kindByToken maps normalized value-format tokens to decode kinds. Date and
// time formats decode as plain integers; their calendar semantics are applied
// as a post-processing step after decoding.
var kindByToken = map[string]Kind{
	"float":             KindFloat32,
	"float32":           KindFloat32,
	"double":            KindFloat64,
	"float64":           KindFloat64,
	"int":               KindInt32,
	"int32":             KindInt32,
	"long":              KindInt64,
	"int64":             KindInt64,
	"char":              KindChar16,
	"bmpchar":           KindChar16,
	"iso8601date":       KindInt32,
	"etcdate":           KindInt32,
	"iso8601timeofday":  KindInt32,
	"iso8601datetime":   KindInt64,
	"etclocaldatetime":  KindInt64,
	"isolikelocaldate":  KindInt32,
	"isolikedatetime":   KindInt64,
	"utcminutesresdate": KindInt64,
}

// Normalize reduces a value-format token or cpmeta URI to its lookup form:
// the last path segment, lowercased.
func Normalize(format string) string {
	if idx := strings.LastIndexByte(format, '/'); idx >= 0 {
		format = format[idx+1:]
	}
	return strings.ToLower(strings.TrimSpace(format))
}

// Lookup resolves a declared value format to its decode kind.
//
// It accepts bare tokens and ontology URIs in any letter case. An unmapped
// format returns errs.ErrUnknownType; no plan can be built for such a column.
func Lookup(format string) (Kind, error) {
	kind, ok := kindByToken[Normalize(format)]
	if !ok {
		return KindInvalid, fmt.Errorf("%w: %q", errs.ErrUnknownType, format)
	}
	return kind, nil
}
