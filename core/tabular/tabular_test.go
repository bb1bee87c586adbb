package tabular

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSV(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("Codigo,Nombre\nA1,Mesa\nB2,Silla\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Codigo", "Nombre"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, Row{"Codigo": "A1", "Nombre": "Mesa"}, table.Rows[0])
}

func TestReadCSVPadsShortRows(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("Codigo,Nombre,Ubicacion\nA1,Mesa\n"))
	require.NoError(t, err)

	assert.Equal(t, Row{"Codigo": "A1", "Nombre": "Mesa", "Ubicacion": ""}, table.Rows[0])
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyTable)

	_, err = ReadCSV(strings.NewReader("Codigo,Nombre\n"))
	assert.ErrorIs(t, err, ErrEmptyTable)
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Codigo", "Nombre"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"A1", "Mesa"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"B2"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	table, err := ReadXLSX(&buf)
	require.NoError(t, err)

	assert.Equal(t, []string{"Codigo", "Nombre"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, Row{"Codigo": "A1", "Nombre": "Mesa"}, table.Rows[0])
	assert.Equal(t, Row{"Codigo": "B2", "Nombre": ""}, table.Rows[1], "short rows are padded")
}

func TestReadXLSXEmpty(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Codigo"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	_, err := ReadXLSX(&buf)
	assert.ErrorIs(t, err, ErrEmptyTable)
}

func TestReadXLSXGarbage(t *testing.T) {
	_, err := ReadXLSX(strings.NewReader("not a workbook"))
	assert.Error(t, err)
}
