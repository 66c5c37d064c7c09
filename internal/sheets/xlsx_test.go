package sheets

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/layoutguide/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSXWriter_Write(t *testing.T) {
	sheet := testSheet()
	sheet.Path = filepath.Join(t.TempDir(), "out", "guide.xlsx")

	require.NoError(t, NewXLSXWriter(nil).Write(context.Background(), sheet))

	f, err := excelize.OpenFile(sheet.Path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Layout Guide"}, f.GetSheetList())

	rows, err := f.GetRows("Layout Guide")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Category", "Net Name", "Impedance"},
		{"Power", "VBAT", "N/A"},
		{"RF", "RF_ANT1", "50 Ohm"},
	}, rows)

	panes, err := f.GetPanes("Layout Guide")
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 1, panes.YSplit)
	assert.Equal(t, "A2", panes.TopLeftCell)

	width, err := f.GetColWidth("Layout Guide", "A")
	require.NoError(t, err)
	assert.InDelta(t, 10, width, 0.01)
}

func TestXLSXWriter_WritePlain(t *testing.T) {
	sheet := testSheet()
	sheet.Path = filepath.Join(t.TempDir(), "plain.xlsx")

	require.NoError(t, NewXLSXWriter(nil).WritePlain(context.Background(), sheet))

	headers, rows, err := ReadHeaders(sheet.Path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Category", "Net Name", "Impedance"}, headers)
	assert.Equal(t, 2, rows)
}

func TestXLSXWriter_InvalidSheetName(t *testing.T) {
	sheet := testSheet()
	sheet.Path = filepath.Join(t.TempDir(), "bad.xlsx")
	sheet.Output.SheetName = "bad[name]"

	w := NewXLSXWriter(nil)
	assert.Error(t, w.Write(context.Background(), sheet))
	assert.NoError(t, w.WritePlain(context.Background(), sheet), "plain write ignores the configured tab name")
}

func TestXLSXWriter_EmptyPath(t *testing.T) {
	sheet := testSheet()
	sheet.Path = ""
	assert.Error(t, NewXLSXWriter(nil).Write(context.Background(), sheet))
}

func TestColumnWidths(t *testing.T) {
	long := strings.Repeat("x", 80)
	sheet := model.Sheet{
		Headers: []string{"Net", "Notes", "Description"},
		Rows: []model.OutputRow{
			{Cells: []model.Cell{{Value: "A"}, {Value: long}, {Value: "Sixteen chars.."}}},
		},
	}

	assert.Equal(t, []float64{10, 50, 17}, ColumnWidths(sheet))
}

func TestReadHeaders_MissingFile(t *testing.T) {
	_, _, err := ReadHeaders(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}
