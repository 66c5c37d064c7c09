package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/Veraticus/layoutguide/internal/model"
	"github.com/xuri/excelize/v2"
)

// Column width bounds for auto sizing, in character units.
const (
	MinColumnWidth  = 10
	MaxColumnWidth  = 50
	widthSampleRows = 100
)

const headerFill = "366092"

// XLSXWriter writes guide sheets to local .xlsx files.
type XLSXWriter struct {
	logger *slog.Logger
}

// NewXLSXWriter creates a writer for local workbook output.
func NewXLSXWriter(logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{logger: logger}
}

// Write saves the sheet with header styling, column widths, frozen panes and
// an auto-filter as configured by sheet.Output.
func (x *XLSXWriter) Write(ctx context.Context, sheet model.Sheet) error {
	return x.save(ctx, sheet, true)
}

// WritePlain saves the header and values only.
func (x *XLSXWriter) WritePlain(ctx context.Context, sheet model.Sheet) error {
	return x.save(ctx, sheet, false)
}

func (x *XLSXWriter) save(ctx context.Context, sheet model.Sheet, styled bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if sheet.Path == "" {
		return fmt.Errorf("output path is empty")
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			x.logger.Debug("failed to close workbook", "error", err)
		}
	}()

	name := tabTitle(sheet.Output)
	if !styled {
		// Plain output keeps the workbook's default tab name.
		name = f.GetSheetName(0)
	} else if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return fmt.Errorf("failed to name sheet %q: %w", name, err)
	}

	if err := writeValues(f, name, sheet); err != nil {
		return err
	}

	if styled {
		if err := applyXLSXFormatting(f, name, sheet); err != nil {
			return fmt.Errorf("failed to format sheet: %w", err)
		}
	}

	if dir := filepath.Dir(sheet.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := f.SaveAs(sheet.Path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	x.logger.Info("Wrote layout guide",
		"path", sheet.Path,
		"rows", len(sheet.Rows),
		"styled", styled)
	return nil
}

func writeValues(f *excelize.File, name string, sheet model.Sheet) error {
	header := make([]any, len(sheet.Headers))
	for i, h := range sheet.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row.Values()
		out := make([]any, len(values))
		for j, v := range values {
			out[j] = v
		}
		if err := f.SetSheetRow(name, cell, &out); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	return nil
}

func applyXLSXFormatting(f *excelize.File, name string, sheet model.Sheet) error {
	columns := len(sheet.Headers)
	if columns == 0 {
		return nil
	}
	lastCol, err := excelize.ColumnNumberToName(columns)
	if err != nil {
		return err
	}

	if sheet.Output.HeaderFormatting {
		style, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill: excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
			Alignment: &excelize.Alignment{
				Horizontal: "center",
				Vertical:   "center",
			},
		})
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(name, "A1", lastCol+"1", style); err != nil {
			return err
		}
	}

	if sheet.Output.ColumnWidthAuto {
		for i, width := range ColumnWidths(sheet) {
			col, err := excelize.ColumnNumberToName(i + 1)
			if err != nil {
				return err
			}
			if err := f.SetColWidth(name, col, col, width); err != nil {
				return err
			}
		}
	}

	if rows, cols, ok := freezeCounts(sheet.Output.FreezePanes); ok {
		err := f.SetPanes(name, &excelize.Panes{
			Freeze:      true,
			XSplit:      int(cols),
			YSplit:      int(rows),
			TopLeftCell: sheet.Output.FreezePanes,
			ActivePane:  activePane(rows, cols),
		})
		if err != nil {
			return err
		}
	}

	if sheet.Output.AutoFilter {
		ref := fmt.Sprintf("A1:%s%d", lastCol, len(sheet.Rows)+1)
		if err := f.AutoFilter(name, ref, nil); err != nil {
			return err
		}
	}
	return nil
}

func activePane(rows, cols int64) string {
	switch {
	case rows > 0 && cols > 0:
		return "bottomRight"
	case cols > 0:
		return "topRight"
	default:
		return "bottomLeft"
	}
}

// ColumnWidths sizes each column to its longest value among the header and
// the first rows, plus padding, clamped to MinColumnWidth..MaxColumnWidth.
func ColumnWidths(sheet model.Sheet) []float64 {
	widths := make([]float64, len(sheet.Headers))
	for i, header := range sheet.Headers {
		longest := utf8.RuneCountInString(header)
		for r, row := range sheet.Rows {
			if r >= widthSampleRows-1 {
				break
			}
			if i < len(row.Cells) {
				longest = max(longest, utf8.RuneCountInString(row.Cells[i].Value))
			}
		}
		widths[i] = float64(min(max(longest+2, MinColumnWidth), MaxColumnWidth))
	}
	return widths
}

// ReadHeaders returns the first row of the first sheet of an .xlsx file.
func ReadHeaders(path string) ([]string, int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = f.Close() }()

	name := f.GetSheetName(0)
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, 0, err
	}
	if len(rows) == 0 {
		return nil, 0, nil
	}
	return rows[0], len(rows) - 1, nil
}
