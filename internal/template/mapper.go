// Package template shapes layout records into spreadsheet rows and writes them.
package template

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/Veraticus/layoutguide/internal/common"
	"github.com/Veraticus/layoutguide/internal/model"
	"github.com/Veraticus/layoutguide/internal/service"
)

// DefaultOutputPath is used when no output path is requested.
const DefaultOutputPath = "layout_guide_output.xlsx"

// DefaultMapping returns the standard column schema.
func DefaultMapping() model.TemplateMapping {
	return model.DefaultTemplateMapping()
}

// Mapper turns layout records into ordered output rows.
type Mapper struct {
	mapping model.TemplateMapping
	schema  []model.Column
}

// NewMapper creates a mapper for a snapshot of the mapping. An empty column
// list falls back to the default columns.
func NewMapper(mapping model.TemplateMapping) *Mapper {
	mapping = mapping.Clone()
	if len(mapping.Columns) == 0 {
		mapping.Columns = model.DefaultColumns()
	}
	if mapping.Output.SheetName == "" {
		mapping.Output.SheetName = model.DefaultOutputSettings().SheetName
	}
	return &Mapper{
		mapping: mapping,
		schema:  resolveSchema(mapping),
	}
}

// Mapping returns the mapping the mapper was built with.
func (m *Mapper) Mapping() model.TemplateMapping {
	return m.mapping.Clone()
}

// Schema returns the visible columns in output order with their final headers.
func (m *Mapper) Schema() []model.Column {
	return slices.Clone(m.schema)
}

// Headers returns the display headers in output order.
func (m *Mapper) Headers() []string {
	headers := make([]string, len(m.schema))
	for i, col := range m.schema {
		headers[i] = col.Header
	}
	return headers
}

// resolveSchema applies column_order, hidden_columns and custom_headers.
// Fields named in column_order come first; remaining columns keep their
// configured order.
func resolveSchema(mapping model.TemplateMapping) []model.Column {
	byField := make(map[string]model.Column, len(mapping.Columns))
	for _, col := range mapping.Columns {
		byField[col.Field] = col
	}

	ordered := make([]model.Column, 0, len(mapping.Columns))
	seen := make(map[string]bool, len(mapping.Columns))
	for _, field := range mapping.ColumnOrder {
		col, ok := byField[field]
		if !ok || seen[field] {
			continue
		}
		ordered = append(ordered, col)
		seen[field] = true
	}
	for _, col := range mapping.Columns {
		if !seen[col.Field] {
			ordered = append(ordered, col)
			seen[col.Field] = true
		}
	}

	visible := make([]model.Column, 0, len(ordered))
	for _, col := range ordered {
		if slices.Contains(mapping.HiddenColumns, col.Field) {
			continue
		}
		if custom := strings.TrimSpace(mapping.CustomHeaders[col.Field]); custom != "" {
			col.Header = custom
		}
		visible = append(visible, col)
	}
	return visible
}

// SortedNets returns layout records ordered by ascending priority, then net name.
func SortedNets(layout map[string]model.LayoutInfo) []model.LayoutInfo {
	infos := make([]model.LayoutInfo, 0, len(layout))
	for name, info := range layout {
		if info.NetName == "" {
			info.NetName = name
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Priority != infos[j].Priority {
			return infos[i].Priority < infos[j].Priority
		}
		return infos[i].NetName < infos[j].NetName
	})
	return infos
}

// BuildRows converts the layout records into rows in presentation order.
func (m *Mapper) BuildRows(layout map[string]model.LayoutInfo) []model.OutputRow {
	infos := SortedNets(layout)
	rows := make([]model.OutputRow, 0, len(infos))
	for _, info := range infos {
		cells := make([]model.Cell, len(m.schema))
		for i, col := range m.schema {
			cells[i] = model.Cell{Header: col.Header, Value: FieldValue(info, col.Field)}
		}
		rows = append(rows, model.OutputRow{Cells: cells})
	}
	return rows
}

// Sheet builds the full table for a writer.
func (m *Mapper) Sheet(layout map[string]model.LayoutInfo, outputPath string) model.Sheet {
	if outputPath == "" {
		outputPath = DefaultOutputPath
	}
	return model.Sheet{
		Output:  m.mapping.Output,
		Path:    outputPath,
		Headers: m.Headers(),
		Rows:    m.BuildRows(layout),
	}
}

// MapRequest names the files involved in one mapping.
type MapRequest struct {
	OutputPath   string
	TemplatePath string
}

// MapResult describes a completed mapping.
type MapResult struct {
	Sheet          model.Sheet
	MissingColumns []string
	Plain          bool
	TemplateValid  bool
	TemplateErr    error
}

// MapToTemplate builds the sheet and writes it through w. When a template
// path is given its structure is checked and reported, never enforced. A
// failed styled write is retried once as a plain write; if that also fails a
// *common.TemplateMappingError is returned.
func (m *Mapper) MapToTemplate(ctx context.Context, layout map[string]model.LayoutInfo, req MapRequest, w service.GuideWriter) (*MapResult, error) {
	result := &MapResult{
		Sheet:         m.Sheet(layout, req.OutputPath),
		TemplateValid: true,
	}

	if req.TemplatePath != "" {
		valid, missing, err := ValidateTemplate(req.TemplatePath)
		result.TemplateValid = valid
		result.MissingColumns = missing
		result.TemplateErr = err
		switch {
		case err != nil:
			slog.Warn("Template could not be read", "template", req.TemplatePath, "error", err)
		case !valid:
			slog.Warn("Template missing required columns", "template", req.TemplatePath, "missing", missing)
		}
	}

	err := w.Write(ctx, result.Sheet)
	if err == nil {
		slog.Info("Mapped nets to layout guide", "nets", len(layout), "path", result.Sheet.Path)
		return result, nil
	}

	slog.Warn("Formatted write failed, retrying without formatting",
		"path", result.Sheet.Path,
		"error", err)

	if plainErr := w.WritePlain(ctx, result.Sheet); plainErr != nil {
		return nil, &common.TemplateMappingError{
			Path: result.Sheet.Path,
			Err:  fmt.Errorf("%w: %w", common.ErrWriteFailed, plainErr),
		}
	}

	result.Plain = true
	slog.Info("Mapped nets to layout guide without formatting", "nets", len(layout), "path", result.Sheet.Path)
	return result, nil
}
