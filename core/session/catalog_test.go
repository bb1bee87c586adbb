package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scan-sync/core/tabular"
)

func TestNewCatalogCodeColumnFallback(t *testing.T) {
	// No "Codigo" column: the first column carries the codes.
	table := &tabular.Table{
		Columns: []string{"SKU", "Nombre"},
		Rows: []tabular.Row{
			{"SKU": "A1", "Nombre": "Mesa"},
		},
	}
	catalog, err := NewCatalog(table, Config{CodeColumn: "Codigo", QuantityColumn: "Cantidad"})
	require.NoError(t, err)

	assert.Equal(t, "SKU", catalog.CodeColumn)
	assert.Equal(t, "A1", catalog.Items[0].Code)
	assert.False(t, catalog.Multiset)
}

func TestNewCatalogMultisetDetection(t *testing.T) {
	table := &tabular.Table{
		Columns: []string{"Codigo", "Cantidad"},
		Rows: []tabular.Row{
			{"Codigo": "A1", "Cantidad": "3"},
			{"Codigo": "B2", "Cantidad": "2.0"},
		},
	}
	catalog, err := NewCatalog(table, Config{CodeColumn: "Codigo", QuantityColumn: "Cantidad"})
	require.NoError(t, err)

	assert.True(t, catalog.Multiset)
	assert.Equal(t, 3, catalog.Items[0].Quantity)
	assert.Equal(t, 2, catalog.Items[1].Quantity, "float-formatted quantities still parse")
}

func TestNewCatalogEmpty(t *testing.T) {
	_, err := NewCatalog(&tabular.Table{Columns: []string{"Codigo"}}, Config{})
	assert.ErrorIs(t, err, ErrEmptyCatalog)

	_, err = NewCatalog(nil, Config{})
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestQuotaSumsRowsSharingACode(t *testing.T) {
	table := &tabular.Table{
		Columns: []string{"Codigo", "Cantidad"},
		Rows: []tabular.Row{
			{"Codigo": "A1", "Cantidad": "2"},
			{"Codigo": "A1", "Cantidad": "3"},
			{"Codigo": "B2", "Cantidad": ""},
		},
	}
	catalog, err := NewCatalog(table, Config{CodeColumn: "Codigo", QuantityColumn: "Cantidad"})
	require.NoError(t, err)

	assert.Equal(t, 5, catalog.Quota("A1"))
	assert.Equal(t, 1, catalog.Quota("B2"), "missing quantity counts as one")
	assert.Equal(t, 0, catalog.Quota("ZZ"))
	assert.Len(t, catalog.ItemsByCode("A1"), 2)
}

func TestQuotaSetModeIgnoresRepeats(t *testing.T) {
	table := &tabular.Table{
		Columns: []string{"Codigo"},
		Rows: []tabular.Row{
			{"Codigo": "A1"},
			{"Codigo": "A1"},
		},
	}
	catalog, err := NewCatalog(table, Config{CodeColumn: "Codigo"})
	require.NoError(t, err)

	assert.Equal(t, 1, catalog.Quota("A1"), "set mode quota is one regardless of repeats")
}

func TestCatalogTableRoundTrip(t *testing.T) {
	table := &tabular.Table{
		Columns: []string{"Codigo", "Nombre", "Ubicacion"},
		Rows: []tabular.Row{
			{"Codigo": "A1", "Nombre": "Mesa", "Ubicacion": "Sala"},
			{"Codigo": "B2", "Nombre": "Silla", "Ubicacion": ""},
		},
	}
	catalog, err := NewCatalog(table, Config{CodeColumn: "Codigo"})
	require.NoError(t, err)

	back := catalog.Table()
	assert.Equal(t, table.Columns, back.Columns)
	assert.Equal(t, table.Rows, back.Rows)
}

func TestCanonicalCode(t *testing.T) {
	assert.Equal(t, "A1", CanonicalCode("  A1 "))
	assert.Equal(t, "12345", CanonicalCode(float64(12345)))
	assert.Equal(t, "", CanonicalCode(nil))
}
