package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scan-sync/core/tabular"
)

func buildCatalog(t *testing.T, columns []string, rows ...tabular.Row) *Catalog {
	t.Helper()
	catalog, err := NewCatalog(&tabular.Table{Columns: columns, Rows: rows}, Config{
		CodeColumn:     "Codigo",
		QuantityColumn: "Cantidad",
	})
	require.NoError(t, err)
	return catalog
}

// apply runs Classify and mirrors the manager's ledger mutation so sequences
// can be asserted step by step.
func apply(ledger *Ledger, catalog *Catalog, raw string) Decision {
	d := Classify(catalog, ledger, raw)
	if d.Kind.Mutates() {
		ledger.Append(d.Code, time.Now())
	}
	return d
}

func TestClassifySetMode(t *testing.T) {
	catalog := buildCatalog(t, []string{"Codigo"}, tabular.Row{"Codigo": "A1"}, tabular.Row{"Codigo": "B2"})
	require.False(t, catalog.Multiset)
	ledger := &Ledger{}

	first := apply(ledger, catalog, "A1")
	assert.Equal(t, KindAccepted, first.Kind)
	assert.Equal(t, 1, first.Count)
	assert.Equal(t, 1, first.Quota)

	second := apply(ledger, catalog, "A1")
	assert.Equal(t, KindDuplicate, second.Kind)
	assert.Equal(t, 1, second.Count, "a rejected scan must not grow the count")
	assert.Equal(t, 1, ledger.Len())
}

func TestClassifyMultisetMode(t *testing.T) {
	catalog := buildCatalog(t, []string{"Codigo", "Cantidad"},
		tabular.Row{"Codigo": "A1", "Cantidad": "2"})
	require.True(t, catalog.Multiset)
	ledger := &Ledger{}

	assert.Equal(t, KindAccepted, apply(ledger, catalog, "A1").Kind)
	assert.Equal(t, KindAccepted, apply(ledger, catalog, "A1").Kind)

	third := apply(ledger, catalog, "A1")
	assert.Equal(t, KindQuotaExceeded, third.Kind)
	assert.Equal(t, 2, third.Count)
	assert.Equal(t, 2, third.Quota)
	assert.Equal(t, 2, ledger.Len())
}

func TestClassifySurplus(t *testing.T) {
	catalog := buildCatalog(t, []string{"Codigo"}, tabular.Row{"Codigo": "A1"})
	ledger := &Ledger{}

	first := apply(ledger, catalog, "X9")
	assert.Equal(t, KindSurplus, first.Kind)
	assert.Equal(t, 0, first.Quota)
	assert.Equal(t, 1, ledger.Len())

	// Re-scanning an unknown code is a plain duplicate, not a second surplus.
	second := apply(ledger, catalog, "X9")
	assert.Equal(t, KindDuplicate, second.Kind)
	assert.Equal(t, 1, ledger.Len())
}

func TestClassifyInvalidInput(t *testing.T) {
	catalog := buildCatalog(t, []string{"Codigo"}, tabular.Row{"Codigo": "A1"})
	ledger := &Ledger{}

	for _, raw := range []string{"", "   ", "\t\n"} {
		d := apply(ledger, catalog, raw)
		assert.Equal(t, KindInvalid, d.Kind)
	}
	assert.Equal(t, 0, ledger.Len())
}

func TestClassifyCanonicalizesInput(t *testing.T) {
	catalog := buildCatalog(t, []string{"Codigo"}, tabular.Row{"Codigo": "A1"})
	ledger := &Ledger{}

	d := apply(ledger, catalog, "  A1  ")
	assert.Equal(t, KindAccepted, d.Kind)
	assert.Equal(t, "A1", d.Code)

	assert.Equal(t, KindDuplicate, apply(ledger, catalog, "A1").Kind)
}

func TestClassifyIsPure(t *testing.T) {
	catalog := buildCatalog(t, []string{"Codigo"}, tabular.Row{"Codigo": "A1"})
	ledger := &Ledger{}

	Classify(catalog, ledger, "A1")
	Classify(catalog, ledger, "A1")
	assert.Equal(t, 0, ledger.Len())
}
