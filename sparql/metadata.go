package sparql

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/icos-cp/cpb/errs"
	"github.com/icos-cp/cpb/schema"
)

// ObjectInfo is the first metadata query's result for one identifier.
type ObjectInfo struct {
	Dobj        string
	ObjSpec     string
	NRows       int
	ColumnNames []string // realized names in declared order; nil when absent
}

// SchemaInfo is the second metadata query's result: the declared columns of
// the object's specification plus its binary format family.
type SchemaInfo struct {
	Columns   []schema.ColumnSpec
	ObjFormat string
}

// Station is the display metadata of the acquiring station.
type Station struct {
	Name      string
	Latitude  float64
	Longitude float64
	Elevation float64
}

// ObjectInfo runs the object interrogation query. A result of (nil, nil)
// means the metadata store knows nothing about the identifier; the caller
// marks the object invalid.
func (c *Client) ObjectInfo(ctx context.Context, pid string) (*ObjectInfo, error) {
	res, err := c.Select(ctx, objectInfoQuery(pid))
	if err != nil {
		return nil, err
	}
	if res.Len() == 0 {
		return nil, nil
	}

	nRows, err := strconv.Atoi(res.Get(0, "nRows"))
	if err != nil {
		return nil, fmt.Errorf("%w: bad row count %q", errs.ErrInvalidSchema, res.Get(0, "nRows"))
	}

	info := &ObjectInfo{
		Dobj:    res.Get(0, "dobj"),
		ObjSpec: res.Get(0, "objSpec"),
		NRows:   nRows,
	}
	if raw := res.Get(0, "columnNames"); raw != "" {
		info.ColumnNames = ParseColumnList(raw)
	}

	return info, nil
}

// SchemaDetail runs the column declaration query for one object
// specification.
func (c *Client) SchemaDetail(ctx context.Context, objSpec string) (*SchemaInfo, error) {
	res, err := c.Select(ctx, schemaDetailQuery(objSpec))
	if err != nil {
		return nil, err
	}

	info := &SchemaInfo{}
	for i := range res.Rows {
		if info.ObjFormat == "" {
			info.ObjFormat = res.Get(i, "objFormat")
		}

		name := res.Get(i, "colName")
		format := res.Get(i, "valFormat")
		if res.Get(i, "isRegex") == "true" {
			spec, err := schema.NewPatternSpec(name, format)
			if err != nil {
				return nil, err
			}
			info.Columns = append(info.Columns, spec)

			continue
		}
		info.Columns = append(info.Columns, schema.NewColumnSpec(name, format))
	}

	return info, nil
}

// Station runs the station metadata query. A result of (nil, nil) means no
// station is attached to the object.
func (c *Client) Station(ctx context.Context, pid string) (*Station, error) {
	res, err := c.Select(ctx, stationQuery(pid))
	if err != nil {
		return nil, err
	}
	if res.Len() == 0 {
		return nil, nil
	}

	st := &Station{Name: res.Get(0, "stationName")}
	st.Latitude, _ = strconv.ParseFloat(res.Get(0, "latitude"), 64)
	st.Longitude, _ = strconv.ParseFloat(res.Get(0, "longitude"), 64)
	st.Elevation, _ = strconv.ParseFloat(res.Get(0, "elevation"), 64)

	return st, nil
}

// Citation runs the citation query. It returns an empty string when the
// object has no citation.
func (c *Client) Citation(ctx context.Context, pid string) (string, error) {
	res, err := c.Select(ctx, citationQuery(pid))
	if err != nil {
		return "", err
	}
	if res.Len() == 0 {
		return "", nil
	}

	return res.Get(0, "cit"), nil
}

// ParseColumnList parses the bracketed, quoted, comma-separated literal the
// metadata store uses for realized column names, e.g.
//
//	["TIMESTAMP", "co2", "Flag"]
//
// into a clean name list. Brackets and double quotes are stripped and each
// entry is whitespace-trimmed.
func ParseColumnList(raw string) []string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")
	raw = strings.ReplaceAll(raw, `"`, "")
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	names := make([]string, len(parts))
	for i, part := range parts {
		names[i] = strings.TrimSpace(part)
	}

	return names
}
