package dtype

import (
	"testing"

	"github.com/icos-cp/cpb/errs"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	t.Run("BareTokens", func(t *testing.T) {
		cases := map[string]Kind{
			"FLOAT":  KindFloat32,
			"DOUBLE": KindFloat64,
			"INT":    KindInt32,
			"LONG":   KindInt64,
			"CHAR":   KindChar16,
		}
		for token, want := range cases {
			kind, err := Lookup(token)
			require.NoError(t, err, token)
			require.Equal(t, want, kind, token)
		}
	})

	t.Run("OntologyURIs", func(t *testing.T) {
		kind, err := Lookup("http://meta.icos-cp.eu/ontologies/cpmeta/float32")
		require.NoError(t, err)
		require.Equal(t, KindFloat32, kind)

		kind, err = Lookup("http://meta.icos-cp.eu/ontologies/cpmeta/iso8601dateTime")
		require.NoError(t, err)
		require.Equal(t, KindInt64, kind)

		kind, err = Lookup("http://meta.icos-cp.eu/ontologies/cpmeta/iso8601date")
		require.NoError(t, err)
		require.Equal(t, KindInt32, kind)

		kind, err = Lookup("http://meta.icos-cp.eu/ontologies/cpmeta/bmpChar")
		require.NoError(t, err)
		require.Equal(t, KindChar16, kind)
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		a, err := Lookup("Float64")
		require.NoError(t, err)
		b, err := Lookup("FLOAT64")
		require.NoError(t, err)
		require.Equal(t, a, b)
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		kind, err := Lookup("complex128")
		require.Error(t, err)
		require.Equal(t, KindInvalid, kind)
		require.ErrorIs(t, err, errs.ErrUnknownType)
	})
}

func TestKindWidth(t *testing.T) {
	require.Equal(t, 4, KindInt32.Width())
	require.Equal(t, 8, KindInt64.Width())
	require.Equal(t, 4, KindFloat32.Width())
	require.Equal(t, 8, KindFloat64.Width())
	require.Equal(t, 2, KindChar16.Width())
	require.Equal(t, 0, KindInvalid.Width())
}

func TestKindToken(t *testing.T) {
	require.Equal(t, "1440q", KindInt64.Token(1440))
	require.Equal(t, "3f", KindFloat32.Token(3))
	require.Equal(t, "10H", KindChar16.Token(10))
}
