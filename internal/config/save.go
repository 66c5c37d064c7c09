package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Veraticus/layoutguide/internal/common"
	"github.com/Veraticus/layoutguide/internal/model"
	"gopkg.in/yaml.v3"
)

const userTemplate = `# Custom layout guide rules.
# Classification rules are tried top to bottom; the first match wins.
# Set classification.order to "priority" to match by ascending priority instead.

classification:
  order: config

net_classification_rules:
  Custom_Rule:
    keywords: ["CUSTOM"]
    patterns: ['^CUST_.*']
    exact_matches: ["MY_SIGNAL"]
    category: Custom Category
    signal_type: Custom_Type
    priority: 15
    description: Replace with your own matching rule

layout_rules:
  Custom_Type:
    impedance: 75 Ohm
    description: Custom routing requirements
    width: 6 mil
    length_limit: 3 inch
    spacing: 4W spacing
    via_rules: Minimize vias
    layer_stack: Inner layer preferred
    shielding: Optional
  Default:
    impedance: 50 Ohm
    description: General signal, 50 Ohm controlled
    width: 5 mil
    spacing: 3W spacing

template_mapping:
  columns:
    Category: Category
    Net_Name: Net Name
    Pin: Pin
    Description: Description
    Impedance: Impedance
    Type: Type
    Width: Width
    Length_Limit: Length Limit (mil)
    Spacing: Spacing
    Shielding: Shielding
    Layer_Stack: Layer Stack
    Notes: Notes
  output_settings:
    sheet_name: Layout Guide
    freeze_panes: A2
`

// WriteUserTemplate writes a starter configuration with one custom rule.
// An existing file is left untouched.
func WriteUserTemplate(path string) error {
	path = ExpandPath(path)
	if _, err := os.Stat(path); err == nil {
		return &common.ConfigurationError{Path: path, Err: fmt.Errorf("%w: file already exists", common.ErrInvalidConfig)}
	}
	return writeFile(path, []byte(userTemplate))
}

// Save writes cfg as YAML, keeping rule and column order.
func Save(cfg *model.Configuration, path string) error {
	path = ExpandPath(path)
	if format, ok := FormatFor(path); !ok || format != FormatYAML {
		return &common.ConfigurationError{
			Path: path,
			Err:  fmt.Errorf("%w: configurations are saved as .yaml or .yml", common.ErrInvalidConfig),
		}
	}

	data, err := Marshal(cfg)
	if err != nil {
		return &common.ConfigurationError{Path: path, Err: err}
	}
	return writeFile(path, data)
}

// Marshal renders cfg as YAML in the same layout Load reads.
func Marshal(cfg *model.Configuration) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}

	if cfg.AppInfo != (model.AppInfo{}) {
		if err := addEncoded(root, "app_info", cfg.AppInfo); err != nil {
			return nil, err
		}
	}
	if len(cfg.Parser.SupportedFormats) > 0 || len(cfg.Parser.ExcludedPatterns) > 0 {
		if err := addEncoded(root, "netlist_parser", cfg.Parser); err != nil {
			return nil, err
		}
	}
	if err := addEncoded(root, "classification", cfg.Classification); err != nil {
		return nil, err
	}

	classification := &yaml.Node{Kind: yaml.MappingNode}
	for _, rule := range cfg.ClassificationRules.Rules() {
		if err := addEncoded(classification, rule.Name, rule); err != nil {
			return nil, err
		}
	}
	addNode(root, SectionClassification, classification)

	layout := &yaml.Node{Kind: yaml.MappingNode}
	for _, rule := range cfg.LayoutRules.Rules() {
		if err := addEncoded(layout, rule.Name, rule); err != nil {
			return nil, err
		}
	}
	addNode(root, SectionLayout, layout)

	mapping := &yaml.Node{Kind: yaml.MappingNode}
	columns := &yaml.Node{Kind: yaml.MappingNode}
	for _, col := range cfg.Template.Columns {
		addNode(columns, col.Field, scalar(col.Header))
	}
	addNode(mapping, "columns", columns)
	if err := addEncoded(mapping, "output_settings", cfg.Template.Output); err != nil {
		return nil, err
	}
	if len(cfg.Template.ColumnOrder) > 0 {
		if err := addEncoded(mapping, "column_order", cfg.Template.ColumnOrder); err != nil {
			return nil, err
		}
	}
	if len(cfg.Template.HiddenColumns) > 0 {
		if err := addEncoded(mapping, "hidden_columns", cfg.Template.HiddenColumns); err != nil {
			return nil, err
		}
	}
	if len(cfg.Template.CustomHeaders) > 0 {
		if err := addEncoded(mapping, "custom_headers", cfg.Template.CustomHeaders); err != nil {
			return nil, err
		}
	}
	addNode(root, SectionTemplate, mapping)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	return buf.Bytes(), nil
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func addNode(parent *yaml.Node, key string, value *yaml.Node) {
	parent.Content = append(parent.Content, scalar(key), value)
}

func addEncoded(parent *yaml.Node, key string, v any) error {
	var node yaml.Node
	if err := node.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	addNode(parent, key, &node)
	return nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return &common.ConfigurationError{Path: path, Err: fmt.Errorf("failed to create directory: %w", err)}
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return &common.ConfigurationError{Path: path, Err: fmt.Errorf("failed to write configuration: %w", err)}
	}
	return nil
}
