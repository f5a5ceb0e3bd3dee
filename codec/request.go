package codec

import (
	"fmt"
	"strings"

	"github.com/icos-cp/cpb/dtype"
	"github.com/icos-cp/cpb/schema"
)

// Request is the JSON body the portal's tabular endpoint expects for one
// payload fetch. It is irrelevant for local cache reads.
type Request struct {
	TableID       string        `json:"tableId"`
	Schema        RequestSchema `json:"schema"`
	ColumnNumbers []int         `json:"columnNumbers"`
	SubFolder     string        `json:"subFolder"`
}

// RequestSchema carries the full column layout of the object: one decode
// kind name per column in wire order, and the shared row count.
type RequestSchema struct {
	Columns []string `json:"columns"`
	Size    int      `json:"size"`
}

// NewRequest assembles the remote-fetch descriptor for one object.
//
// id is the persistent identifier URL; its last path segment becomes the
// table id. objFormat is the object's binary format family; its last path
// segment selects the storage sub-folder. Columns lists the decode kind of
// every schema column, while ColumnNumbers carries only the selected
// wire-order indices.
func NewRequest(id string, sch *schema.Schema, rows int, sel *schema.Selection, objFormat string) (*Request, error) {
	kinds := make([]string, len(sch.Columns))
	for i, col := range sch.Columns {
		kind, err := dtype.Lookup(col.Format)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col.Name, err)
		}
		kinds[i] = kind.String()
	}

	return &Request{
		TableID:       LastSegment(id),
		Schema:        RequestSchema{Columns: kinds, Size: rows},
		ColumnNumbers: sel.Indices(sch),
		SubFolder:     LastSegment(objFormat),
	}, nil
}

// LastSegment returns the final path segment of an identifier URL.
func LastSegment(url string) string {
	url = strings.TrimRight(url, "/")
	if idx := strings.LastIndexByte(url, '/'); idx >= 0 {
		return url[idx+1:]
	}

	return url
}
