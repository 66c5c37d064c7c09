package template

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/Veraticus/layoutguide/internal/common"
	"github.com/Veraticus/layoutguide/internal/model"
	"github.com/Veraticus/layoutguide/internal/sheets"
	"github.com/dustin/go-humanize"
)

// RequiredColumns must appear in the header row of a template file.
var RequiredColumns = []string{"Category", "Net Name", "Description"}

const invalidSheetChars = `:*?/\[]`

// ValidateTemplate checks the header row of the template's first sheet.
// A structurally invalid template returns false with the missing columns and
// a nil error; err is set only when the file cannot be read.
func ValidateTemplate(path string) (bool, []string, error) {
	if _, err := os.Stat(path); err != nil {
		return false, nil, &common.TemplateMappingError{Path: path, Err: err}
	}

	headers, _, err := sheets.ReadHeaders(path)
	if err != nil {
		return false, nil, &common.TemplateMappingError{Path: path, Err: err}
	}

	var missing []string
	for _, required := range RequiredColumns {
		if !slices.Contains(headers, required) {
			missing = append(missing, required)
		}
	}
	return len(missing) == 0, missing, nil
}

// Info describes a template file.
type Info struct {
	Path           string
	Columns        []string
	MissingColumns []string
	RowCount       int
	FileSize       int64
	Valid          bool
}

// HumanSize renders the file size for display.
func (i Info) HumanSize() string {
	return humanize.Bytes(uint64(max(i.FileSize, 0)))
}

// TemplateInfo reads a template's columns, row count and size.
func TemplateInfo(path string) (*Info, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, &common.TemplateMappingError{Path: path, Err: err}
	}

	headers, rows, err := sheets.ReadHeaders(path)
	if err != nil {
		return nil, &common.TemplateMappingError{Path: path, Err: err}
	}

	info := &Info{
		Path:     path,
		Columns:  headers,
		RowCount: rows,
		FileSize: stat.Size(),
	}
	for _, required := range RequiredColumns {
		if !slices.Contains(headers, required) {
			info.MissingColumns = append(info.MissingColumns, required)
		}
	}
	info.Valid = len(info.MissingColumns) == 0
	return info, nil
}

// ValidateMapping returns the problems with a column mapping and its output settings.
func ValidateMapping(mapping model.TemplateMapping) []string {
	var problems []string

	if len(mapping.Columns) == 0 {
		problems = append(problems, "At least one column mapping must be defined")
	}

	seen := make(map[string]bool, len(mapping.Columns))
	var duplicates []string
	for _, col := range mapping.Columns {
		if strings.TrimSpace(col.Header) == "" {
			problems = append(problems, fmt.Sprintf("Column '%s' has empty display name", col.Field))
			continue
		}
		if seen[col.Header] && !slices.Contains(duplicates, col.Header) {
			duplicates = append(duplicates, col.Header)
		}
		seen[col.Header] = true
	}
	if len(duplicates) > 0 {
		problems = append(problems, fmt.Sprintf("Duplicate display names found: %s", strings.Join(duplicates, ", ")))
	}

	for _, col := range mapping.Columns {
		if !KnownField(col.Field) {
			problems = append(problems, fmt.Sprintf("Column '%s' does not map to a known field", col.Field))
		}
	}

	sheetName := mapping.Output.SheetName
	if strings.TrimSpace(sheetName) == "" {
		problems = append(problems, "Sheet name cannot be empty")
	}
	for _, c := range invalidSheetChars {
		if strings.ContainsRune(sheetName, c) {
			problems = append(problems, fmt.Sprintf("Sheet name contains invalid character: '%c'", c))
		}
	}

	return problems
}

// Summary describes the mapping in one line.
func Summary(mapping model.TemplateMapping) string {
	visible := len(resolveSchema(mapping))
	return fmt.Sprintf("Template: %d columns (%d visible, %d hidden), Output: '%s'",
		len(mapping.Columns), visible, len(mapping.Columns)-visible, mapping.Output.SheetName)
}
