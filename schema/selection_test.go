package schema

import (
	"testing"

	"github.com/icos-cp/cpb/errs"
	"github.com/stretchr/testify/require"
)

func testSchema(t *testing.T) *Schema {
	t.Helper()
	sch, err := Resolve([]ColumnSpec{
		NewColumnSpec("TIMESTAMP", "LONG"),
		NewColumnSpec("VALUE", "FLOAT"),
		NewColumnSpec("FLAG", "CHAR"),
	}, []string{"TIMESTAMP", "VALUE", "FLAG"})
	require.NoError(t, err)

	return sch
}

func TestSelect(t *testing.T) {
	t.Run("ByNameCaseInsensitive", func(t *testing.T) {
		sch := testSchema(t)

		lower, err := sch.Select(ByName("flag"))
		require.NoError(t, err)
		upper, err := sch.Select(ByName("FLAG"))
		require.NoError(t, err)
		require.Equal(t, lower.Indices(sch), upper.Indices(sch))
	})

	t.Run("ByIndex", func(t *testing.T) {
		sch := testSchema(t)

		sel, err := sch.Select(ByIndex(1))
		require.NoError(t, err)
		require.Equal(t, []int{1}, sel.Indices(sch))
		require.Equal(t, []string{"TIMESTAMP"}, sel.Names(sch))
	})

	t.Run("MixedSelectorsDeduplicated", func(t *testing.T) {
		sch := testSchema(t)

		// wire order is FLAG, TIMESTAMP, VALUE
		sel, err := sch.Select(ByName("value"), ByIndex(2), ByName("FLAG"))
		require.NoError(t, err)
		require.Equal(t, []int{2, 0}, sel.Indices(sch))
	})

	t.Run("UnknownNameFailsClosed", func(t *testing.T) {
		sch := testSchema(t)

		sel, err := sch.Select(ByName("VALUE"), ByName("missing"))
		require.Error(t, err)
		require.Nil(t, sel)
		require.ErrorIs(t, err, errs.ErrInvalidSelection)
	})

	t.Run("OutOfRangeIndexFailsClosed", func(t *testing.T) {
		sch := testSchema(t)

		sel, err := sch.Select(ByIndex(99))
		require.Error(t, err)
		require.Nil(t, sel)
		require.ErrorIs(t, err, errs.ErrInvalidSelection)

		sel, err = sch.Select(ByIndex(-1))
		require.Error(t, err)
		require.Nil(t, sel)
	})

	t.Run("EmptySelectorListRejected", func(t *testing.T) {
		sch := testSchema(t)

		_, err := sch.Select()
		require.ErrorIs(t, err, errs.ErrInvalidSelection)
	})

	t.Run("NilSelectionMeansAll", func(t *testing.T) {
		sch := testSchema(t)

		var sel *Selection
		require.True(t, sel.All())
		require.Equal(t, []int{0, 1, 2}, sel.Indices(sch))
		require.Equal(t, []string{"FLAG", "TIMESTAMP", "VALUE"}, sel.Names(sch))
		require.Equal(t, "*", sel.Key(sch))
	})
}
