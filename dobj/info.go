package dobj

import (
	"context"
	"math"

	"github.com/icos-cp/cpb/sparql"
)

// Licence names the data licence of portal objects.
type Licence struct {
	Name string
	URL  string
}

// Licence returns the portal's data licence. All portal objects are
// published under CC BY 4.0.
func (d *Dobj) Licence() Licence {
	return Licence{
		Name: "CC BY 4.0",
		URL:  "https://data.icos-cp.eu/licence",
	}
}

// Citation returns the object's citation text, resolved at bind time.
func (d *Dobj) Citation() string { return d.citation }

// Station returns the acquiring station's display metadata, fetching it on
// first call. It returns (nil, nil) when no station is attached.
func (d *Dobj) Station(ctx context.Context) (*sparql.Station, error) {
	if d.state != StateValid {
		return nil, d.stateErr()
	}
	if d.hasStn {
		return d.station, nil
	}

	st, err := d.meta.Station(ctx, d.id)
	if err != nil {
		return nil, err
	}
	d.station = st
	d.hasStn = true

	return st, nil
}

// Latitude returns the station latitude, or NaN when no station metadata
// is available.
func (d *Dobj) Latitude(ctx context.Context) float64 {
	return d.stationField(ctx, func(st *sparql.Station) float64 { return st.Latitude })
}

// Longitude returns the station longitude, or NaN when no station metadata
// is available.
func (d *Dobj) Longitude(ctx context.Context) float64 {
	return d.stationField(ctx, func(st *sparql.Station) float64 { return st.Longitude })
}

// Elevation returns the station elevation, or NaN when no station metadata
// is available.
func (d *Dobj) Elevation(ctx context.Context) float64 {
	return d.stationField(ctx, func(st *sparql.Station) float64 { return st.Elevation })
}

func (d *Dobj) stationField(ctx context.Context, pick func(*sparql.Station) float64) float64 {
	st, err := d.Station(ctx)
	if err != nil || st == nil {
		return math.NaN()
	}

	return pick(st)
}

// Info summarizes the bound object.
type Info struct {
	ID        string
	State     State
	Rows      int
	ObjFormat string
	Columns   []string
	Selected  []string
	Citation  string
}

// Info returns a snapshot summary of the handle.
func (d *Dobj) Info() Info {
	return Info{
		ID:        d.id,
		State:     d.state,
		Rows:      d.rows,
		ObjFormat: d.objFormat,
		Columns:   d.ColumnNames(),
		Selected:  d.Selected(),
		Citation:  d.citation,
	}
}
