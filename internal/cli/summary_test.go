package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/layoutguide/internal/model"
	"github.com/Veraticus/layoutguide/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCategoryTable(t *testing.T) {
	out := RenderCategoryTable([]model.CategoryCount{
		{Category: "Communication Interface", Count: 4},
		{Category: "RF", Count: 1},
	})

	assert.Contains(t, out, "Category")
	assert.Contains(t, out, "Communication Interface")
	assert.Contains(t, out, "RF")
	assert.Contains(t, out, "Total")
	assert.Contains(t, out, "5")
}

func TestRenderResult(t *testing.T) {
	out := filepath.Join(t.TempDir(), "guide.xlsx")
	require.NoError(t, os.WriteFile(out, make([]byte, 2048), 0o600))
	start := time.Now()

	rendered := RenderResult(&pipeline.Result{
		StartedAt:      start,
		FinishedAt:     start.Add(1500 * time.Millisecond),
		NetlistPath:    "board.net",
		OutputPath:     out,
		NetNames:       []string{"RF_ANT1", "VBAT"},
		Summary:        []model.CategoryCount{{Category: "RF", Count: 1}, {Category: "Power", Count: 1}},
		MissingColumns: []string{"Description"},
		Plain:          true,
	})

	assert.Contains(t, rendered, "Layout Guide Generated")
	assert.Contains(t, rendered, "Nets: 2")
	assert.Contains(t, rendered, "2.0 kB")
	assert.Contains(t, rendered, "1.5s")
	assert.Contains(t, rendered, "without styling")
	assert.Contains(t, rendered, "Template is missing columns: Description")
	assert.Contains(t, rendered, "Power")
}

func TestFormatRunLine(t *testing.T) {
	line := FormatRunLine(model.Run{
		ID:          "5f0c",
		StartedAt:   time.Now().Add(-2 * time.Hour),
		NetlistPath: "board.net",
		OutputPath:  "guide.xlsx",
		NetCount:    12,
	})

	assert.Contains(t, line, "5f0c")
	assert.Contains(t, line, "2 hours ago")
	assert.Contains(t, line, "12 nets")
	assert.Contains(t, line, "board.net → guide.xlsx")
}

func TestCategoryStyle(t *testing.T) {
	assert.Contains(t, CategoryStyle("Power").Render("Power"), "Power")
	assert.Equal(t, "Sensor", CategoryStyle("Sensor").Render("Sensor"))
}
