package country

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/icos-cp/cpb/errs"
)

func TestByCode(t *testing.T) {
	t.Run("Alpha2", func(t *testing.T) {
		c, err := ByCode("SE")
		require.NoError(t, err)
		require.Equal(t, "Sweden", c.Name.Common)
	})

	t.Run("Alpha3", func(t *testing.T) {
		c, err := ByCode("CHE")
		require.NoError(t, err)
		require.Equal(t, "Switzerland", c.Name.Common)
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		c, err := ByCode("ch")
		require.NoError(t, err)
		require.Equal(t, "Switzerland", c.Name.Common)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := ByCode("XX")
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestByName(t *testing.T) {
	t.Run("ExactName", func(t *testing.T) {
		matches, err := ByName("greece")
		require.NoError(t, err)
		require.Len(t, matches, 1)
		require.Equal(t, "GRC", matches[0].CCA3)
	})

	t.Run("PartialNameMatchesSeveral", func(t *testing.T) {
		// "helle" hits the Hellenic Republic and Seychelles
		matches, err := ByName("helle")
		require.NoError(t, err)
		require.Len(t, matches, 2)

		codes := []string{matches[0].CCA3, matches[1].CCA3}
		require.Contains(t, codes, "GRC")
		require.Contains(t, codes, "SYC")
	})

	t.Run("AltSpelling", func(t *testing.T) {
		matches, err := ByName("sverige")
		require.NoError(t, err)
		require.Len(t, matches, 1)
		require.Equal(t, "SWE", matches[0].CCA3)
	})

	t.Run("NoMatch", func(t *testing.T) {
		_, err := ByName("atlantis")
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestSearch(t *testing.T) {
	t.Run("Region", func(t *testing.T) {
		matches, err := Search("northern europe")
		require.NoError(t, err)
		require.NotEmpty(t, matches)
		for _, c := range matches {
			require.Equal(t, "Northern Europe", c.Subregion)
		}
	})

	t.Run("Capital", func(t *testing.T) {
		matches, err := Search("stockholm")
		require.NoError(t, err)
		require.Len(t, matches, 1)
		require.Equal(t, "SWE", matches[0].CCA3)
	})
}

func TestAll(t *testing.T) {
	list, err := All()
	require.NoError(t, err)
	require.NotEmpty(t, list)

	for _, c := range list {
		require.Len(t, c.CCA2, 2)
		require.Len(t, c.CCA3, 3)
		require.NotEmpty(t, c.Name.Common)
	}
}

func nominatimServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return srv
}

func TestReverseCode(t *testing.T) {
	t.Run("PortalZoomAnswers", func(t *testing.T) {
		portal := nominatimServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "3", r.URL.Query().Get("zoom"))
			_, _ = w.Write([]byte(`{"address":{"country_code":"it"}}`))
		})

		g, err := NewGeocoder(
			WithPortalNominatim(portal.URL),
			WithPublicNominatim(""))
		require.NoError(t, err)

		code, err := g.ReverseCode(context.Background(), 42.5, 13.8)
		require.NoError(t, err)
		require.Equal(t, "it", code)
	})

	t.Run("PortalRetriesWithoutZoom", func(t *testing.T) {
		var calls atomic.Int32
		portal := nominatimServer(t, func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				// zoomed lookup misses in the portal database
				_, _ = w.Write([]byte(`{"error":"Unable to geocode"}`))

				return
			}
			require.Empty(t, r.URL.Query().Get("zoom"))
			_, _ = w.Write([]byte(`{"address":{"country_code":"se"}}`))
		})

		g, err := NewGeocoder(
			WithPortalNominatim(portal.URL),
			WithPublicNominatim(""))
		require.NoError(t, err)

		code, err := g.ReverseCode(context.Background(), 62.0, 15.0)
		require.NoError(t, err)
		require.Equal(t, "se", code)
		require.Equal(t, int32(2), calls.Load())
	})

	t.Run("FallsBackToPublicService", func(t *testing.T) {
		portal := nominatimServer(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "down", http.StatusServiceUnavailable)
		})
		public := nominatimServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"address":{"country_code":"fr"}}`))
		})

		g, err := NewGeocoder(
			WithPortalNominatim(portal.URL),
			WithPublicNominatim(public.URL))
		require.NoError(t, err)

		code, err := g.ReverseCode(context.Background(), 48.85, 2.35)
		require.NoError(t, err)
		require.Equal(t, "fr", code)
	})

	t.Run("AllServicesFail", func(t *testing.T) {
		portal := nominatimServer(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "down", http.StatusServiceUnavailable)
		})
		public := nominatimServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error":"Unable to geocode"}`))
		})

		g, err := NewGeocoder(
			WithPortalNominatim(portal.URL),
			WithPublicNominatim(public.URL))
		require.NoError(t, err)

		_, err = g.ReverseCode(context.Background(), 0, 0)
		require.ErrorIs(t, err, errs.ErrGeocode)
	})
}

func TestReverse(t *testing.T) {
	portal := nominatimServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"address":{"country_code":"it"}}`))
	})

	g, err := NewGeocoder(
		WithPortalNominatim(portal.URL),
		WithPublicNominatim(""))
	require.NoError(t, err)

	c, err := g.Reverse(context.Background(), 42.5, 13.8)
	require.NoError(t, err)
	require.Equal(t, "Italy", c.Name.Common)
}
