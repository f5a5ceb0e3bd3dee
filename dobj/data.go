package dobj

import (
	"context"

	"go.uber.org/zap"

	"github.com/icos-cp/cpb/codec"
	"github.com/icos-cp/cpb/errs"
	"github.com/icos-cp/cpb/internal/hash"
	"github.com/icos-cp/cpb/schema"
	"github.com/icos-cp/cpb/table"
)

// Select narrows subsequent data access to the given columns. Selection is
// all-or-nothing: if any selector fails to resolve, the previous selection
// stays in effect and errs.ErrInvalidSelection is returned. A successful
// selection invalidates the cached table.
func (d *Dobj) Select(selectors ...schema.Selector) error {
	if d.state != StateValid {
		return d.stateErr()
	}

	sel, err := d.sch.Select(selectors...)
	if err != nil {
		d.logger.Debug("selection rejected", zap.String("id", d.id), zap.Error(err))

		return err
	}

	prev := d.selection
	d.selection = sel
	if err := d.rebuild(); err != nil {
		d.selection = prev

		return err
	}

	return nil
}

// SelectAll resets the selection to all columns.
func (d *Dobj) SelectAll() error {
	if d.state != StateValid {
		return d.stateErr()
	}

	d.selection = nil

	return d.rebuild()
}

// Selected returns the names of the currently selected columns in
// selection order, or nil when the handle is not valid.
func (d *Dobj) Selected() []string {
	if d.state != StateValid {
		return nil
	}

	return d.selection.Names(d.sch)
}

// Data fetches, decodes and returns the object's table.
//
// With persistence enabled the decoded table is retained and returned on
// subsequent calls until the identifier or selection changes. A local
// archive hit always carries every column, so it decodes the full column
// set and resets the selection to all columns. Fetch and decode failures
// leave any previously cached table untouched.
func (d *Dobj) Data(ctx context.Context) (*table.Table, error) {
	if d.state != StateValid {
		return nil, d.stateErr()
	}

	token := hash.Fingerprint(d.id, d.selection.Key(d.sch))
	if d.persistent && d.cached != nil && d.cacheToken == token {
		return d.cached, nil
	}

	raw, local, err := d.source.Fetch(ctx, d.id, d.request, d.selection.Names(d.sch))
	if err != nil {
		return nil, err
	}

	plan := d.plan
	if local && !d.selection.All() {
		// archived files hold the full column set regardless of the
		// requested subset
		d.selection = nil
		if err := d.rebuild(); err != nil {
			return nil, err
		}
		plan = d.plan
		token = hash.Fingerprint(d.id, d.selection.Key(d.sch))
	}

	tbl, err := codec.Decode(raw, plan, d.sch.DeclaredOrder, d.convert)
	if err != nil {
		return nil, err
	}

	d.logger.Debug("data decoded",
		zap.String("id", d.id),
		zap.Bool("local", local),
		zap.Int("columns", tbl.Len()),
		zap.Int("rows", tbl.Rows()))

	if d.persistent {
		d.cached = tbl
		d.cacheToken = token
	}

	return tbl, nil
}

func (d *Dobj) stateErr() error {
	switch d.state {
	case StateInvalid:
		return errs.ErrObjectInvalid
	default:
		return errs.ErrNotBound
	}
}
