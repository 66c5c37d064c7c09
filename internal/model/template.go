package model

import "slices"

// Column pairs an internal field name with its display header.
type Column struct {
	Field  string `yaml:"field" json:"field"`
	Header string `yaml:"header" json:"header"`
}

// OutputSettings controls presentation of the generated sheet.
type OutputSettings struct {
	SheetName        string `yaml:"sheet_name" json:"sheet_name"`
	FreezePanes      string `yaml:"freeze_panes,omitempty" json:"freeze_panes,omitempty"`
	AutoFilter       bool   `yaml:"auto_filter" json:"auto_filter"`
	ColumnWidthAuto  bool   `yaml:"column_width_auto" json:"column_width_auto"`
	HeaderFormatting bool   `yaml:"header_formatting" json:"header_formatting"`
}

// DefaultOutputSettings returns the presentation defaults.
func DefaultOutputSettings() OutputSettings {
	return OutputSettings{
		SheetName:        "Layout Guide",
		FreezePanes:      "A2",
		AutoFilter:       true,
		ColumnWidthAuto:  true,
		HeaderFormatting: true,
	}
}

// DefaultColumns returns the standard layout guide columns in order.
func DefaultColumns() []Column {
	return []Column{
		{Field: "Category", Header: "Category"},
		{Field: "Net_Name", Header: "Net Name"},
		{Field: "Pin", Header: "Pin"},
		{Field: "Description", Header: "Description"},
		{Field: "Impedance", Header: "Impedance"},
		{Field: "Type", Header: "Type"},
		{Field: "Width", Header: "Width"},
		{Field: "Length_Limit", Header: "Length Limit (mil)"},
		{Field: "Spacing", Header: "Spacing"},
		{Field: "Shielding", Header: "Shielding"},
		{Field: "Layer_Stack", Header: "Layer Stack"},
		{Field: "Notes", Header: "Notes"},
	}
}

// DefaultTemplateMapping returns the standard columns with default output settings.
func DefaultTemplateMapping() TemplateMapping {
	return TemplateMapping{
		Columns: DefaultColumns(),
		Output:  DefaultOutputSettings(),
	}
}

// TemplateMapping is the output column schema.
type TemplateMapping struct {
	CustomHeaders map[string]string
	Output        OutputSettings
	Columns       []Column
	ColumnOrder   []string
	HiddenColumns []string
}

// Clone returns a deep copy of the mapping.
func (m TemplateMapping) Clone() TemplateMapping {
	out := m
	out.Columns = slices.Clone(m.Columns)
	out.ColumnOrder = slices.Clone(m.ColumnOrder)
	out.HiddenColumns = slices.Clone(m.HiddenColumns)
	if m.CustomHeaders != nil {
		out.CustomHeaders = make(map[string]string, len(m.CustomHeaders))
		for k, v := range m.CustomHeaders {
			out.CustomHeaders[k] = v
		}
	}
	return out
}

// Cell is one header/value pair of an output row.
type Cell struct {
	Header string
	Value  string
}

// OutputRow is a flat record keyed by display headers, in schema order.
type OutputRow struct {
	Cells []Cell
}

// Get returns the value under header.
func (r OutputRow) Get(header string) (string, bool) {
	for _, cell := range r.Cells {
		if cell.Header == header {
			return cell.Value, true
		}
	}
	return "", false
}

// Values returns cell values in column order.
func (r OutputRow) Values() []string {
	values := make([]string, len(r.Cells))
	for i, cell := range r.Cells {
		values[i] = cell.Value
	}
	return values
}

// Sheet is a fully shaped table ready for a spreadsheet writer.
type Sheet struct {
	Output  OutputSettings
	Path    string
	Headers []string
	Rows    []OutputRow
}
