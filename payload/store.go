// Package payload resolves where the raw bytes of a data object come from:
// a deterministic local cache path, or one request against the portal's
// tabular endpoint. Local and remote are interchangeable at this boundary;
// the decoder receives the full byte buffer either way.
package payload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/icos-cp/cpb/codec"
	"github.com/icos-cp/cpb/compress"
	"github.com/icos-cp/cpb/errs"
	"github.com/icos-cp/cpb/internal/options"
	"github.com/icos-cp/cpb/internal/pool"
	"github.com/icos-cp/cpb/logging"
)

const (
	// DefaultEndpoint is the portal's tabular data endpoint.
	DefaultEndpoint = "https://data.icos-cp.eu/portal/tabular"
	// DefaultUsageEndpoint receives the usage-accounting reports.
	DefaultUsageEndpoint = "https://cpauth.icos-cp.eu/logs/portaluse"
	// DefaultCacheRoot is the data app storage mount used on portal
	// virtual machines.
	DefaultCacheRoot = "/data/dataAppStorage"

	// cacheExt is the file extension of cached raw payloads.
	cacheExt = ".cpb"

	usageTimeout = 5 * time.Second
)

// Source yields the raw payload bytes for one data object, reporting
// whether they came from the local cache.
type Source interface {
	Fetch(ctx context.Context, id string, req *codec.Request, columns []string) (data []byte, local bool, err error)
}

// Store is the default Source: local cache first, remote endpoint second.
//
// A Store is safe for concurrent use.
type Store struct {
	endpoint  string
	usageURL  string
	cacheRoot string
	httpc     *http.Client
	logger    *zap.Logger
}

// Option configures a Store.
type Option = options.Option[*Store]

// WithEndpoint overrides the tabular data endpoint.
func WithEndpoint(url string) Option {
	return options.NoError(func(s *Store) { s.endpoint = url })
}

// WithUsageEndpoint overrides the usage-accounting endpoint. An empty URL
// disables usage reporting.
func WithUsageEndpoint(url string) Option {
	return options.NoError(func(s *Store) { s.usageURL = url })
}

// WithCacheRoot overrides the local cache root directory. An empty root
// disables the local probe.
func WithCacheRoot(root string) Option {
	return options.NoError(func(s *Store) { s.cacheRoot = root })
}

// WithHTTPClient overrides the HTTP client used for both data fetches and
// usage reports.
func WithHTTPClient(httpc *http.Client) Option {
	return options.NoError(func(s *Store) { s.httpc = httpc })
}

// NewStore creates a Store with portal defaults, adjusted by opts.
func NewStore(opts ...Option) (*Store, error) {
	s := &Store{
		endpoint:  DefaultEndpoint,
		usageURL:  DefaultUsageEndpoint,
		cacheRoot: DefaultCacheRoot,
		httpc:     &http.Client{Timeout: 120 * time.Second},
	}
	if err := options.Apply(s, opts...); err != nil {
		return nil, err
	}
	s.logger = logging.With(zap.String("component", "payload"))

	return s, nil
}

// CachePath returns the deterministic local path for one object:
// <root>/<formatCategory>/<lastPathSegmentOfIdentifier>.cpb.
func (s *Store) CachePath(id string, req *codec.Request) string {
	if s.cacheRoot == "" {
		return ""
	}

	return filepath.Join(s.cacheRoot, req.SubFolder, codec.LastSegment(id)+cacheExt)
}

// Fetch returns the raw payload for one object.
//
// The local path is probed first; a hit returns the full file contents,
// transparently decompressed when the file carries a compression frame
// (raw .cpb files pass through untouched). Otherwise the request
// descriptor is POSTed to the tabular endpoint, exactly once: transport
// failures map to errs.ErrNetwork, HTTP 404 to errs.ErrNotFound, and any
// other non-success status to errs.ErrRemoteStatus. No retries happen at
// this layer.
//
// Every successful fetch triggers a best-effort usage report; a failing
// report never fails the fetch.
func (s *Store) Fetch(ctx context.Context, id string, req *codec.Request, columns []string) ([]byte, bool, error) {
	if path := s.CachePath(id, req); path != "" {
		if raw, err := os.ReadFile(path); err == nil {
			data, expandErr := compress.Expand(raw)
			if expandErr != nil {
				// a raw payload can start with bytes that coincide with
				// a compression magic; serve the file as-is and leave
				// genuine corruption to the decoder's length check
				s.logger.Debug("cache file not decompressible, serving raw",
					zap.String("path", path), zap.Error(expandErr))
				data = raw
			}
			s.logger.Debug("payload from local cache",
				zap.String("path", path), zap.Int("bytes", len(data)))
			s.reportUsage(ctx, id, columns, true)

			return data, true, nil
		}
	}

	data, err := s.fetchRemote(ctx, req)
	if err != nil {
		return nil, false, err
	}
	s.reportUsage(ctx, id, columns, false)

	return data, false, nil
}

func (s *Store) fetchRemote(ctx context.Context, req *codec.Request) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrNetwork, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrNetwork, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := s.httpc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return nil, fmt.Errorf("%w: %s", errs.ErrNotFound, req.TableID)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return nil, fmt.Errorf("%w: %s: %s", errs.ErrRemoteStatus, s.endpoint, resp.Status)
	}

	buf := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(buf)

	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrNetwork, err)
	}
	data := buf.Detach()

	s.logger.Debug("payload from remote",
		zap.String("tableId", req.TableID),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)))

	return data, nil
}
