// Package cpb fetches and decodes the Carbon Portal's binary tabular data
// objects.
//
// Each data object is a columnar binary table identified by a persistent
// identifier (PID). The library resolves the object's column schema from the
// portal's metadata store, derives a binary unpack plan, fetches the raw
// payload from the local data archive or the remote tabular endpoint, and
// decodes it into a column-major table.
//
// # Core Features
//
//   - Dynamic schema resolution with regex column expansion
//   - Column subsetting before fetch, so only selected columns travel
//   - Local archive short-circuit with transparent decompression
//   - Big-endian binary decode into typed Go slices
//   - TIMESTAMP, date and time columns converted to time.Time values
//   - Static country lookups and nominatim reverse geocoding
//
// # Basic Usage
//
// Fetching a data object by its PID:
//
//	import "github.com/icos-cp/cpb"
//
//	tbl, err := cpb.Fetch(ctx, "https://meta.icos-cp.eu/objects/abc123")
//	if err != nil {
//	    return err
//	}
//	co2, _ := tbl.Column("co2")
//	fmt.Println(co2.Float32s())
//
// Fetching only some columns:
//
//	tbl, err := cpb.FetchColumns(ctx, pid, []string{"TIMESTAMP", "co2"})
//
// Keeping a handle around for metadata access and repeated reads:
//
//	d, err := cpb.Open(ctx, pid)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(d.Citation())
//	tbl, err := d.Data(ctx)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the dobj
// package, simplifying the most common use cases. For fine-grained control
// over metadata, payload sources and decoding, use the dobj package and its
// collaborators (sparql, payload, schema, codec, table) directly.
package cpb

import (
	"context"

	"github.com/icos-cp/cpb/dobj"
	"github.com/icos-cp/cpb/schema"
	"github.com/icos-cp/cpb/table"
)

// Dobj is a bound data object handle. See the dobj package for its full
// API.
type Dobj = dobj.Dobj

// Option configures a data object handle.
type Option = dobj.Option

// Open binds a handle to the given persistent identifier, resolving its
// metadata synchronously.
func Open(ctx context.Context, pid string, opts ...Option) (*Dobj, error) {
	return dobj.Open(ctx, pid, opts...)
}

// Fetch retrieves and decodes the full table of one data object.
func Fetch(ctx context.Context, pid string, opts ...Option) (*table.Table, error) {
	d, err := dobj.Open(ctx, pid, opts...)
	if err != nil {
		return nil, err
	}

	return d.Data(ctx)
}

// FetchColumns retrieves and decodes the named columns of one data object.
// A fetch served from the local archive carries the full column set.
func FetchColumns(ctx context.Context, pid string, columns []string, opts ...Option) (*table.Table, error) {
	d, err := dobj.Open(ctx, pid, opts...)
	if err != nil {
		return nil, err
	}

	selectors := make([]schema.Selector, len(columns))
	for i, name := range columns {
		selectors[i] = schema.ByName(name)
	}
	if err := d.Select(selectors...); err != nil {
		return nil, err
	}

	return d.Data(ctx)
}
