package sheets

import (
	"errors"
	"net/http"
	"testing"

	"github.com/Veraticus/layoutguide/internal/common"
	"github.com/Veraticus/layoutguide/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func testSheet() model.Sheet {
	return model.Sheet{
		Output:  model.DefaultOutputSettings(),
		Path:    "guide.xlsx",
		Headers: []string{"Category", "Net Name", "Impedance"},
		Rows: []model.OutputRow{
			{Cells: []model.Cell{
				{Header: "Category", Value: "Power"},
				{Header: "Net Name", Value: "VBAT"},
				{Header: "Impedance", Value: "N/A"},
			}},
			{Cells: []model.Cell{
				{Header: "Category", Value: "RF"},
				{Header: "Net Name", Value: "RF_ANT1"},
				{Header: "Impedance", Value: "50 Ohm"},
			}},
		},
	}
}

func TestSheetValues(t *testing.T) {
	values := sheetValues(testSheet())

	require.Len(t, values, 3)
	assert.Equal(t, []any{"Category", "Net Name", "Impedance"}, values[0])
	assert.Equal(t, []any{"Power", "VBAT", "N/A"}, values[1])
	assert.Equal(t, []any{"RF", "RF_ANT1", "50 Ohm"}, values[2])
}

func TestFormattingRequests(t *testing.T) {
	t.Run("all formatting enabled", func(t *testing.T) {
		requests := formattingRequests(7, testSheet())
		require.Len(t, requests, 4)

		header := requests[0].RepeatCell
		require.NotNil(t, header)
		assert.Equal(t, int64(7), header.Range.SheetId)
		assert.Equal(t, int64(3), header.Range.EndColumnIndex)
		assert.True(t, header.Cell.UserEnteredFormat.TextFormat.Bold)

		freeze := requests[1].UpdateSheetProperties
		require.NotNil(t, freeze)
		assert.Equal(t, int64(1), freeze.Properties.GridProperties.FrozenRowCount)
		assert.Equal(t, int64(0), freeze.Properties.GridProperties.FrozenColumnCount)

		filter := requests[2].SetBasicFilter
		require.NotNil(t, filter)
		assert.Equal(t, int64(3), filter.Filter.Range.EndRowIndex)

		require.NotNil(t, requests[3].AutoResizeDimensions)
	})

	t.Run("formatting disabled", func(t *testing.T) {
		sheet := testSheet()
		sheet.Output = model.OutputSettings{SheetName: "Plain"}
		assert.Empty(t, formattingRequests(0, sheet))
	})
}

func TestFreezeCounts(t *testing.T) {
	tests := []struct {
		cell     string
		wantRows int64
		wantCols int64
		wantOK   bool
	}{
		{cell: "A2", wantRows: 1, wantCols: 0, wantOK: true},
		{cell: "B3", wantRows: 2, wantCols: 1, wantOK: true},
		{cell: "C1", wantRows: 0, wantCols: 2, wantOK: true},
		{cell: "A1"},
		{cell: ""},
		{cell: "not-a-cell"},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			rows, cols, ok := freezeCounts(tt.cell)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantRows, rows)
			assert.Equal(t, tt.wantCols, cols)
		})
	}
}

func TestA1Range(t *testing.T) {
	assert.Equal(t, "'Layout Guide'!A1", a1Range("Layout Guide", "A1"))
	assert.Equal(t, "'Bob''s Guide'!A:ZZ", a1Range("Bob's Guide", "A:ZZ"))
}

func TestTabTitle(t *testing.T) {
	assert.Equal(t, "Custom", tabTitle(model.OutputSettings{SheetName: "Custom"}))
	assert.Equal(t, "Layout Guide", tabTitle(model.OutputSettings{SheetName: "  "}))
}

func TestClassifyAPIError(t *testing.T) {
	assert.NoError(t, classifyAPIError(nil))

	plain := errors.New("connection reset")
	assert.Same(t, plain, classifyAPIError(plain))

	limited := classifyAPIError(&googleapi.Error{Code: http.StatusTooManyRequests})
	assert.ErrorIs(t, limited, common.ErrRateLimit)
	assert.True(t, common.IsRetryable(limited))

	forbidden := classifyAPIError(&googleapi.Error{Code: http.StatusForbidden})
	assert.False(t, common.IsRetryable(forbidden))

	unavailable := &googleapi.Error{Code: http.StatusServiceUnavailable}
	assert.Equal(t, error(unavailable), classifyAPIError(unavailable))
}
