// Package errs defines the sentinel errors shared across the cpb library.
//
// All errors are plain sentinel values. Call sites add context with
// fmt.Errorf("%w: ...", errs.ErrX) so callers can still match with errors.Is.
package errs

import "errors"

var (
	// ErrInvalidSchema indicates that the column metadata is internally
	// inconsistent: after pattern expansion and filtering, the realized
	// column names are not covered exactly once by the declared columns.
	ErrInvalidSchema = errors.New("invalid column schema")

	// ErrUnknownType indicates a declared value format with no decode rule.
	// A plan cannot be built for a column of unknown type.
	ErrUnknownType = errors.New("unknown value format")

	// ErrNotFound indicates that the requested object does not exist,
	// neither in the local cache nor at the remote endpoint.
	ErrNotFound = errors.New("data object not found")

	// ErrNetwork indicates a transport-level failure while fetching the
	// payload. The fetch is not retried.
	ErrNetwork = errors.New("network failure")

	// ErrRemoteStatus indicates a non-success HTTP status from the remote
	// payload endpoint. The fetch is not retried.
	ErrRemoteStatus = errors.New("remote returned non-success status")

	// ErrDecodeMismatch indicates that the payload length does not match
	// the byte length implied by the unpack plan. This usually means the
	// schema and the payload are out of sync.
	ErrDecodeMismatch = errors.New("payload length does not match unpack plan")

	// ErrInvalidSelection indicates a column selector that resolves to no
	// column. The whole selection is rejected; the previous selection
	// stays in effect.
	ErrInvalidSelection = errors.New("invalid column selection")

	// ErrObjectInvalid indicates an object whose metadata query returned
	// no rows. The handle stays invalid until a new identifier is bound.
	ErrObjectInvalid = errors.New("data object is invalid")

	// ErrNotBound indicates an operation on a handle with no identifier.
	ErrNotBound = errors.New("no data object identifier bound")

	// ErrGeocode indicates that no reverse geocoding service could resolve
	// the given coordinates to a country.
	ErrGeocode = errors.New("unable to reverse geocode")
)
