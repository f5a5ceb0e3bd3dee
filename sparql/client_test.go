package sparql

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/icos-cp/cpb/errs"
	"github.com/stretchr/testify/require"
)

// sparqlHandler answers every query from a fixed set of JSON documents,
// picked by a marker substring in the query text.
func sparqlHandler(t *testing.T, responses map[string]string) http.HandlerFunc {
	t.Helper()

	return func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/sparql-query", r.Header.Get("Content-Type"))

		buf, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		query := string(buf)

		for marker, body := range responses {
			if strings.Contains(query, marker) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(body)) //nolint:errcheck
				return
			}
		}
		http.Error(w, "no canned response", http.StatusBadRequest)
	}
}

const emptyResult = `{"head":{"vars":[]},"results":{"bindings":[]}}`

func TestSelect(t *testing.T) {
	t.Run("ParsesBindings", func(t *testing.T) {
		body := `{
			"head": {"vars": ["a", "b"]},
			"results": {"bindings": [
				{"a": {"type": "literal", "value": "1"}, "b": {"type": "uri", "value": "http://x/y"}},
				{"a": {"type": "literal", "value": "2"}}
			]}
		}`
		srv := httptest.NewServer(sparqlHandler(t, map[string]string{"select": body}))
		defer srv.Close()

		c := NewClient(srv.URL, srv.Client())
		res, err := c.Select(context.Background(), "select ?a ?b where {}")
		require.NoError(t, err)
		require.Equal(t, []string{"a", "b"}, res.Vars)
		require.Equal(t, 2, res.Len())
		require.Equal(t, "1", res.Get(0, "a"))
		require.Equal(t, "http://x/y", res.Get(0, "b"))
		// unbound variable reads as empty
		require.Equal(t, "", res.Get(1, "b"))
		// out of range row reads as empty
		require.Equal(t, "", res.Get(5, "a"))
	})

	t.Run("RemoteStatusError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, srv.Client())
		_, err := c.Select(context.Background(), "select * where {}")
		require.ErrorIs(t, err, errs.ErrRemoteStatus)
	})

	t.Run("NetworkError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // connection refused from now on

		c := NewClient(srv.URL, nil)
		_, err := c.Select(context.Background(), "select * where {}")
		require.ErrorIs(t, err, errs.ErrNetwork)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json")) //nolint:errcheck
		}))
		defer srv.Close()

		c := NewClient(srv.URL, srv.Client())
		_, err := c.Select(context.Background(), "select * where {}")
		require.ErrorIs(t, err, errs.ErrRemoteStatus)
	})
}

func TestObjectInfo(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		body := `{
			"head": {"vars": ["dobj", "objSpec", "nRows", "columnNames"]},
			"results": {"bindings": [{
				"dobj": {"type": "uri", "value": "https://meta.icos-cp.eu/objects/abc"},
				"objSpec": {"type": "uri", "value": "http://meta.icos-cp.eu/resources/cpmeta/atcCo2Product"},
				"nRows": {"type": "literal", "value": "1440"},
				"columnNames": {"type": "literal", "value": "[\"TIMESTAMP\", \"co2\"]"}
			}]}
		}`
		srv := httptest.NewServer(sparqlHandler(t, map[string]string{"hasNumberOfRows": body}))
		defer srv.Close()

		c := NewClient(srv.URL, srv.Client())
		info, err := c.ObjectInfo(context.Background(), "https://meta.icos-cp.eu/objects/abc")
		require.NoError(t, err)
		require.NotNil(t, info)
		require.Equal(t, 1440, info.NRows)
		require.Equal(t, "http://meta.icos-cp.eu/resources/cpmeta/atcCo2Product", info.ObjSpec)
		require.Equal(t, []string{"TIMESTAMP", "co2"}, info.ColumnNames)
	})

	t.Run("UnknownObjectIsNil", func(t *testing.T) {
		srv := httptest.NewServer(sparqlHandler(t, map[string]string{"hasNumberOfRows": emptyResult}))
		defer srv.Close()

		c := NewClient(srv.URL, srv.Client())
		info, err := c.ObjectInfo(context.Background(), "https://meta.icos-cp.eu/objects/nope")
		require.NoError(t, err)
		require.Nil(t, info)
	})
}

func TestSchemaDetail(t *testing.T) {
	body := `{
		"head": {"vars": ["objFormat", "colName", "valFormat", "isRegex"]},
		"results": {"bindings": [
			{
				"objFormat": {"type": "uri", "value": "http://meta.icos-cp.eu/ontologies/cpmeta/asciiAtcProductTimeSer"},
				"colName": {"type": "literal", "value": "TIMESTAMP"},
				"valFormat": {"type": "uri", "value": "http://meta.icos-cp.eu/ontologies/cpmeta/iso8601dateTime"}
			},
			{
				"objFormat": {"type": "uri", "value": "http://meta.icos-cp.eu/ontologies/cpmeta/asciiAtcProductTimeSer"},
				"colName": {"type": "literal", "value": "Flag_\\d+"},
				"valFormat": {"type": "uri", "value": "http://meta.icos-cp.eu/ontologies/cpmeta/bmpChar"},
				"isRegex": {"type": "literal", "value": "true"}
			}
		]}
	}`
	srv := httptest.NewServer(sparqlHandler(t, map[string]string{"containsDataset": body}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	info, err := c.SchemaDetail(context.Background(), "http://meta.icos-cp.eu/resources/cpmeta/spec")
	require.NoError(t, err)
	require.Equal(t, "http://meta.icos-cp.eu/ontologies/cpmeta/asciiAtcProductTimeSer", info.ObjFormat)
	require.Len(t, info.Columns, 2)
	require.False(t, info.Columns[0].IsPattern)
	require.True(t, info.Columns[1].IsPattern)
}

func TestStationAndCitation(t *testing.T) {
	responses := map[string]string{
		"wasAcquiredBy": `{
			"head": {"vars": ["stationName", "latitude", "longitude", "elevation"]},
			"results": {"bindings": [{
				"stationName": {"type": "literal", "value": "Hyltemossa"},
				"latitude": {"type": "literal", "value": "56.0976"},
				"longitude": {"type": "literal", "value": "13.4189"},
				"elevation": {"type": "literal", "value": "115.0"}
			}]}
		}`,
		"hasCitationString": `{
			"head": {"vars": ["cit"]},
			"results": {"bindings": [{
				"cit": {"type": "literal", "value": "ICOS RI, 2021. Example citation."}
			}]}
		}`,
	}
	srv := httptest.NewServer(sparqlHandler(t, responses))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())

	st, err := c.Station(context.Background(), "https://meta.icos-cp.eu/objects/abc")
	require.NoError(t, err)
	require.Equal(t, "Hyltemossa", st.Name)
	require.InDelta(t, 56.0976, st.Latitude, 1e-9)
	require.InDelta(t, 13.4189, st.Longitude, 1e-9)
	require.InDelta(t, 115.0, st.Elevation, 1e-9)

	cit, err := c.Citation(context.Background(), "https://meta.icos-cp.eu/objects/abc")
	require.NoError(t, err)
	require.Equal(t, "ICOS RI, 2021. Example citation.", cit)
}

func TestParseColumnList(t *testing.T) {
	t.Run("QuotedList", func(t *testing.T) {
		got := ParseColumnList(`["TIMESTAMP", "co2", "Flag"]`)
		require.Equal(t, []string{"TIMESTAMP", "co2", "Flag"}, got)
	})

	t.Run("WhitespaceTrimmed", func(t *testing.T) {
		got := ParseColumnList(`[" a ","b ",  "c"]`)
		require.Equal(t, []string{"a", "b", "c"}, got)
	})

	t.Run("Empty", func(t *testing.T) {
		require.Nil(t, ParseColumnList(`[]`))
		require.Nil(t, ParseColumnList(``))
	})
}
