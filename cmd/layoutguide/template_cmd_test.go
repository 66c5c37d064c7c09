package main

import (
	"path/filepath"
	"testing"

	"github.com/Veraticus/layoutguide/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeTemplate(t *testing.T, headers ...string) string {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue("Sheet1", cell, h))
	}

	path := filepath.Join(t.TempDir(), "template.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestTemplateValidate(t *testing.T) {
	isolate(t)

	t.Run("complete template", func(t *testing.T) {
		path := writeTemplate(t, "Category", "Net Name", "Pin", "Description")

		out, err := execute(t, templateCmd(), "validate", path)
		require.NoError(t, err)
		assert.Contains(t, out, "all required columns")
	})

	t.Run("missing columns", func(t *testing.T) {
		path := writeTemplate(t, "Category", "Width")

		_, err := execute(t, templateCmd(), "validate", path)
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrTemplateInvalid)
		assert.Contains(t, err.Error(), "missing columns: Net Name, Description")
	})

	t.Run("unreadable file", func(t *testing.T) {
		_, err := execute(t, templateCmd(), "validate", filepath.Join(t.TempDir(), "none.xlsx"))
		assert.Error(t, err)
	})
}

func TestTemplateInfo(t *testing.T) {
	isolate(t)
	path := writeTemplate(t, "Category", "Width")

	out, err := execute(t, templateCmd(), "info", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Data rows: 0")
	assert.Contains(t, out, "Category, Width")
	assert.Contains(t, out, "Missing columns: Net Name, Description")
}
