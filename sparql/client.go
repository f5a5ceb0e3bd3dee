// Package sparql implements the metadata collaborator client: it runs
// SPARQL queries against the portal's metadata store and exposes the four
// canned queries the data-object facade needs (object info, column schema,
// station, citation).
package sparql

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/icos-cp/cpb/errs"
	"github.com/icos-cp/cpb/logging"
)

// DefaultEndpoint is the portal's public SPARQL endpoint.
const DefaultEndpoint = "https://meta.icos-cp.eu/sparql"

// Client runs SPARQL select queries against one endpoint.
//
// A Client is safe for concurrent use; it holds no per-query state.
type Client struct {
	endpoint string
	httpc    *http.Client
	logger   *zap.Logger
}

// NewClient creates a client for the given endpoint. An empty endpoint
// selects DefaultEndpoint; a nil http.Client selects a default client with
// a 60 second timeout.
func NewClient(endpoint string, httpc *http.Client) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if httpc == nil {
		httpc = &http.Client{Timeout: 60 * time.Second}
	}

	return &Client{
		endpoint: endpoint,
		httpc:    httpc,
		logger:   logging.With(zap.String("component", "sparql")),
	}
}

// Bindings is one tabular SPARQL select result: variable names plus one
// string value per row and variable. Unbound variables are empty strings.
type Bindings struct {
	Vars []string
	Rows []map[string]string
}

// Len returns the number of result rows.
func (b *Bindings) Len() int {
	return len(b.Rows)
}

// Get returns the value of a variable in one row.
func (b *Bindings) Get(row int, name string) string {
	if row < 0 || row >= len(b.Rows) {
		return ""
	}

	return b.Rows[row][name]
}

// sparqlResponse mirrors the standard SPARQL 1.1 JSON results format.
type sparqlResponse struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []map[string]struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"bindings"`
	} `json:"results"`
}

// Select runs one select query and parses the JSON result set.
//
// Transport failures map to errs.ErrNetwork, non-success statuses to
// errs.ErrRemoteStatus. The query is not retried.
func (c *Client) Select(ctx context.Context, query string) (*Bindings, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(query))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/sparql-query")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return nil, fmt.Errorf("%w: %s: %s", errs.ErrRemoteStatus, c.endpoint, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrNetwork, err)
	}

	var parsed sparqlResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: malformed sparql response: %v", errs.ErrRemoteStatus, err)
	}

	rows := make([]map[string]string, len(parsed.Results.Bindings))
	for i, binding := range parsed.Results.Bindings {
		row := make(map[string]string, len(binding))
		for name, cell := range binding {
			row[name] = cell.Value
		}
		rows[i] = row
	}

	c.logger.Debug("sparql select",
		zap.Int("rows", len(rows)),
		zap.Duration("elapsed", time.Since(start)))

	return &Bindings{Vars: parsed.Head.Vars, Rows: rows}, nil
}
