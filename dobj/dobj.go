// Package dobj provides the data-object facade: one handle per persistent
// identifier, orchestrating metadata resolution, schema and plan building,
// payload fetching and decoding behind a lazily cached table.
//
// A Dobj is not safe for concurrent mutation. Independent handles share no
// state and may be used from independent goroutines without coordination;
// one handle shared across goroutines must be externally serialized.
package dobj

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/icos-cp/cpb/codec"
	"github.com/icos-cp/cpb/endian"
	"github.com/icos-cp/cpb/errs"
	"github.com/icos-cp/cpb/internal/options"
	"github.com/icos-cp/cpb/logging"
	"github.com/icos-cp/cpb/payload"
	"github.com/icos-cp/cpb/schema"
	"github.com/icos-cp/cpb/sparql"
	"github.com/icos-cp/cpb/table"
)

// State is the lifecycle state of a handle.
type State uint8

const (
	// StateUnbound means no identifier has been set.
	StateUnbound State = iota
	// StateMetadataPending means an identifier is set and metadata
	// resolution is underway.
	StateMetadataPending
	// StateValid means the schema is resolved and data can be decoded.
	StateValid
	// StateInvalid means the metadata store knows nothing usable about
	// the identifier. The state is terminal until a new identifier is
	// bound.
	StateInvalid
)

func (s State) String() string {
	switch s {
	case StateUnbound:
		return "Unbound"
	case StateMetadataPending:
		return "MetadataPending"
	case StateValid:
		return "Valid"
	case StateInvalid:
		return "Invalid"
	default:
		return "Unknown"
	}
}

// Metadata is the collaborator boundary for the portal's metadata store.
// *sparql.Client is the production implementation.
type Metadata interface {
	ObjectInfo(ctx context.Context, pid string) (*sparql.ObjectInfo, error)
	SchemaDetail(ctx context.Context, objSpec string) (*sparql.SchemaInfo, error)
	Station(ctx context.Context, pid string) (*sparql.Station, error)
	Citation(ctx context.Context, pid string) (string, error)
}

// noCitation is the fallback text when the metadata store has no citation
// for an object.
const noCitation = "no citation available ..."

// Dobj is one data object handle.
type Dobj struct {
	id    string
	state State

	meta       Metadata
	source     payload.Source
	engine     endian.EndianEngine
	convert    bool
	persistent bool

	// collaborator settings, consulted only when no explicit meta or
	// source is injected
	metaEndpoint string
	dataEndpoint string
	cacheRoot    string
	httpc        *http.Client

	sch       *schema.Schema
	rows      int
	objFormat string
	selection *schema.Selection
	plan      *codec.Plan
	request   *codec.Request

	citation string
	station  *sparql.Station
	hasStn   bool

	cached     *table.Table
	cacheToken uint64

	logger *zap.Logger
}

// Option configures a Dobj.
type Option = options.Option[*Dobj]

// WithMetadata overrides the metadata collaborator.
func WithMetadata(meta Metadata) Option {
	return options.NoError(func(d *Dobj) { d.meta = meta })
}

// WithSource overrides the payload source.
func WithSource(source payload.Source) Option {
	return options.NoError(func(d *Dobj) { d.source = source })
}

// WithMetaEndpoint overrides the SPARQL metadata endpoint. Ignored when an
// explicit Metadata is injected.
func WithMetaEndpoint(url string) Option {
	return options.NoError(func(d *Dobj) { d.metaEndpoint = url })
}

// WithDataEndpoint overrides the tabular payload endpoint. Ignored when an
// explicit Source is injected.
func WithDataEndpoint(url string) Option {
	return options.NoError(func(d *Dobj) { d.dataEndpoint = url })
}

// WithCacheRoot overrides the local payload archive root. Empty disables
// the local probe. Ignored when an explicit Source is injected.
func WithCacheRoot(root string) Option {
	return options.NoError(func(d *Dobj) { d.cacheRoot = root })
}

// WithHTTPClient sets the HTTP client for the default collaborators.
func WithHTTPClient(httpc *http.Client) Option {
	return options.NoError(func(d *Dobj) { d.httpc = httpc })
}

// WithLogger overrides the handle's logger.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(d *Dobj) { d.logger = logger })
}

// WithEndian overrides the payload byte order. The portal serves
// big-endian blocks, which is the default.
func WithEndian(engine endian.EndianEngine) Option {
	return options.NoError(func(d *Dobj) { d.engine = engine })
}

// WithDatetimeConvert controls whether TIMESTAMP, date and time columns
// are converted to time values. Enabled by default; when disabled those
// columns stay numeric.
func WithDatetimeConvert(convert bool) Option {
	return options.NoError(func(d *Dobj) { d.convert = convert })
}

// WithPersistence controls whether the decoded table is retained on the
// handle. Enabled by default; when disabled every data access refetches.
func WithPersistence(persistent bool) Option {
	return options.NoError(func(d *Dobj) { d.persistent = persistent })
}

// New creates an unbound handle with portal defaults adjusted by opts.
func New(opts ...Option) (*Dobj, error) {
	d := &Dobj{
		state:        StateUnbound,
		engine:       endian.GetBigEndianEngine(),
		convert:      true,
		persistent:   true,
		dataEndpoint: payload.DefaultEndpoint,
		cacheRoot:    payload.DefaultCacheRoot,
	}
	if err := options.Apply(d, opts...); err != nil {
		return nil, err
	}

	if d.meta == nil {
		d.meta = sparql.NewClient(d.metaEndpoint, d.httpc)
	}
	if d.source == nil {
		storeOpts := []payload.Option{
			payload.WithEndpoint(d.dataEndpoint),
			payload.WithCacheRoot(d.cacheRoot),
		}
		if d.httpc != nil {
			storeOpts = append(storeOpts, payload.WithHTTPClient(d.httpc))
		}
		store, err := payload.NewStore(storeOpts...)
		if err != nil {
			return nil, err
		}
		d.source = store
	}
	if d.logger == nil {
		d.logger = logging.With(zap.String("component", "dobj"))
	}

	return d, nil
}

// Open creates a handle and binds it to the given identifier in one step.
func Open(ctx context.Context, id string, opts ...Option) (*Dobj, error) {
	d, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := d.Bind(ctx, id); err != nil {
		return nil, err
	}

	return d, nil
}

// Bind sets the handle's identifier and synchronously resolves its
// metadata. Any previous schema, selection and cached table are discarded.
//
// An identifier the metadata store does not know moves the handle to
// StateInvalid without error; data access then reports
// errs.ErrObjectInvalid. Inconsistent metadata (errs.ErrInvalidSchema,
// errs.ErrUnknownType) also invalidates the handle and is returned.
// Transport failures leave the handle unbound.
func (d *Dobj) Bind(ctx context.Context, id string) error {
	if id == "" {
		return errs.ErrNotBound
	}

	d.id = id
	d.state = StateMetadataPending
	d.sch = nil
	d.selection = nil
	d.plan = nil
	d.request = nil
	d.cached = nil
	d.station = nil
	d.hasStn = false
	d.citation = ""

	if err := d.resolveMetadata(ctx); err != nil {
		if errors.Is(err, errs.ErrInvalidSchema) || errors.Is(err, errs.ErrUnknownType) {
			d.state = StateInvalid
		} else {
			d.state = StateUnbound
		}

		return err
	}

	return nil
}

// resolveMetadata runs the object-info and schema-detail queries and
// derives schema, plan and request. It is rerun whenever the identifier
// changes; plan and request alone are rederived on selection changes.
func (d *Dobj) resolveMetadata(ctx context.Context) error {
	info, err := d.meta.ObjectInfo(ctx, d.id)
	if err != nil {
		return err
	}
	if info == nil {
		d.logger.Debug("object unknown to metadata store", zap.String("id", d.id))
		d.state = StateInvalid

		return nil
	}

	schemaInfo, err := d.meta.SchemaDetail(ctx, info.ObjSpec)
	if err != nil {
		return err
	}

	realized := info.ColumnNames
	if realized == nil {
		// no realized column list published: every literal declared
		// column is present, patterns cannot expand
		for _, spec := range schemaInfo.Columns {
			if !spec.IsPattern {
				realized = append(realized, spec.Name)
			}
		}
	}

	sch, err := schema.Resolve(schemaInfo.Columns, realized)
	if err != nil {
		return err
	}

	d.sch = sch
	d.rows = info.NRows
	d.objFormat = schemaInfo.ObjFormat

	if err := d.rebuild(); err != nil {
		return err
	}

	cit, err := d.meta.Citation(ctx, d.id)
	if err != nil {
		return err
	}
	if cit == "" {
		cit = noCitation
	}
	d.citation = cit

	d.state = StateValid
	d.logger.Debug("object bound",
		zap.String("id", d.id),
		zap.Int("columns", sch.Len()),
		zap.Int("rows", d.rows))

	return nil
}

// rebuild rederives the unpack plan and the remote request descriptor for
// the current schema and selection. Unknown value formats surface here,
// eagerly, not at decode time.
func (d *Dobj) rebuild() error {
	plan, err := codec.Build(d.sch, d.rows, d.selection, d.engine)
	if err != nil {
		return err
	}
	req, err := codec.NewRequest(d.id, d.sch, d.rows, d.selection, d.objFormat)
	if err != nil {
		return err
	}

	d.plan = plan
	d.request = req

	return nil
}

// ID returns the bound persistent identifier.
func (d *Dobj) ID() string { return d.id }

// State returns the handle's lifecycle state.
func (d *Dobj) State() State { return d.state }

// Valid reports whether the handle can decode data.
func (d *Dobj) Valid() bool { return d.state == StateValid }

// Rows returns the row count of the bound object.
func (d *Dobj) Rows() int { return d.rows }

// Schema returns the resolved schema, or nil before a successful bind.
func (d *Dobj) Schema() *schema.Schema { return d.sch }

// ColumnNames returns the resolved column names in wire order, or nil when
// the handle is not valid.
func (d *Dobj) ColumnNames() []string {
	if d.state != StateValid {
		return nil
	}

	return d.sch.Names()
}

func (d *Dobj) String() string { return d.id }
