// Package config loads, validates and saves layout guide rule configurations.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/layoutguide/internal/common"
	"github.com/Veraticus/layoutguide/internal/model"
	"github.com/muhammadmuzzammil1998/jsonc"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfig []byte

// DefaultSource names the embedded configuration in Configuration.Source.
const DefaultSource = "<embedded default>"

// Supported configuration formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Section names used in configuration errors.
const (
	SectionClassification  = "net_classification_rules"
	SectionLayout          = "layout_rules"
	SectionTemplate        = "template_mapping"
	SectionTemplateColumns = "template_mapping.columns"
)

type rawConfig struct {
	AppInfo             model.AppInfo                `yaml:"app_info"`
	NetlistParser       model.ParserSettings         `yaml:"netlist_parser"`
	Classification      model.ClassificationSettings `yaml:"classification"`
	TemplateMapping     *rawTemplate                 `yaml:"template_mapping"`
	ClassificationRules yaml.Node                    `yaml:"net_classification_rules"`
	LayoutRules         yaml.Node                    `yaml:"layout_rules"`
}

type rawTemplate struct {
	CustomHeaders  map[string]string `yaml:"custom_headers"`
	Columns        yaml.Node         `yaml:"columns"`
	OutputSettings yaml.Node         `yaml:"output_settings"`
	ColumnOrder    []string          `yaml:"column_order"`
	HiddenColumns  []string          `yaml:"hidden_columns"`
}

// FormatFor returns the configuration format implied by a file extension.
func FormatFor(path string) (string, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".json":
		return FormatJSON, true
	default:
		return "", false
	}
}

// Load reads and validates a configuration file.
func Load(path string) (*model.Configuration, error) {
	path = ExpandPath(path)

	format, ok := FormatFor(path)
	if !ok {
		return nil, &common.ConfigurationError{
			Path: path,
			Err:  fmt.Errorf("%w: unsupported file extension %q", common.ErrInvalidConfig, filepath.Ext(path)),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &common.ConfigurationError{Path: path, Err: fmt.Errorf("%w: %w", common.ErrMissingConfig, err)}
		}
		return nil, &common.ConfigurationError{Path: path, Err: err}
	}

	return Parse(data, format, path)
}

// Default returns the embedded default configuration.
func Default() *model.Configuration {
	cfg, err := Parse(defaultConfig, FormatYAML, DefaultSource)
	if err != nil {
		panic(fmt.Sprintf("embedded default configuration is invalid: %v", err))
	}
	return cfg
}

// LoadOrDefault loads path, or the embedded default when path is empty.
func LoadOrDefault(path string) (*model.Configuration, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	return Load(path)
}

// Parse decodes configuration data in the given format and validates it.
// Rule order in the source is preserved.
func Parse(data []byte, format, source string) (*model.Configuration, error) {
	var doc yaml.Node
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &common.ConfigurationError{Path: source, Err: fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)}
		}
	case FormatJSON:
		plain := jsonc.ToJSON(data)
		var compact bytes.Buffer
		if err := json.Compact(&compact, plain); err != nil {
			return nil, &common.ConfigurationError{Path: source, Err: fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)}
		}
		if err := yaml.Unmarshal(compact.Bytes(), &doc); err != nil {
			return nil, &common.ConfigurationError{Path: source, Err: fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)}
		}
	default:
		return nil, &common.ConfigurationError{Path: source, Err: fmt.Errorf("%w: unknown format %q", common.ErrInvalidConfig, format)}
	}

	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, &common.ConfigurationError{Path: source, Section: SectionClassification, Err: common.ErrMissingSection}
	}

	var raw rawConfig
	if err := doc.Decode(&raw); err != nil {
		return nil, &common.ConfigurationError{Path: source, Err: fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)}
	}

	cfg, err := build(&raw, source)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func build(raw *rawConfig, source string) (*model.Configuration, error) {
	missing := func(section string) error {
		return &common.ConfigurationError{Path: source, Section: section, Err: common.ErrMissingSection}
	}
	if raw.ClassificationRules.Kind == 0 {
		return nil, missing(SectionClassification)
	}
	if raw.LayoutRules.Kind == 0 {
		return nil, missing(SectionLayout)
	}
	if raw.TemplateMapping == nil {
		return nil, missing(SectionTemplate)
	}
	if raw.TemplateMapping.Columns.Kind == 0 {
		return nil, missing(SectionTemplateColumns)
	}

	classification, err := decodeClassificationRules(&raw.ClassificationRules, source)
	if err != nil {
		return nil, err
	}
	layout, err := decodeLayoutRules(&raw.LayoutRules, source)
	if err != nil {
		return nil, err
	}
	mapping, err := decodeTemplate(raw.TemplateMapping, source)
	if err != nil {
		return nil, err
	}

	settings := raw.Classification
	if settings.Order == "" {
		settings.Order = model.OrderConfig
	}

	return &model.Configuration{
		Source:              source,
		AppInfo:             raw.AppInfo,
		Parser:              raw.NetlistParser,
		Classification:      settings,
		ClassificationRules: classification,
		LayoutRules:         layout,
		Template:            mapping,
	}, nil
}

func decodeClassificationRules(node *yaml.Node, source string) (model.ClassificationRuleSet, error) {
	var set model.ClassificationRuleSet
	if node.Kind != yaml.MappingNode {
		return set, &common.ConfigurationError{
			Path:    source,
			Section: SectionClassification,
			Err:     fmt.Errorf("%w: expected a mapping of rule names", common.ErrInvalidConfig),
		}
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		body := node.Content[i+1]
		if body.Kind != yaml.MappingNode {
			return set, &common.ClassificationError{Rule: name, Err: fmt.Errorf("%w: rule must be a mapping", common.ErrInvalidConfig)}
		}
		for _, field := range []string{"category", "signal_type", "priority"} {
			if !hasKey(body, field) {
				return set, &common.ClassificationError{Rule: name, Field: field, Err: common.ErrMissingField}
			}
		}

		var rule model.ClassificationRule
		if err := body.Decode(&rule); err != nil {
			return set, &common.ClassificationError{Rule: name, Err: fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)}
		}
		rule.Name = name
		if !hasKey(body, "enabled") {
			rule.Enabled = true
		}
		set = set.With(rule)
	}
	return set, nil
}

func decodeLayoutRules(node *yaml.Node, source string) (model.LayoutRuleSet, error) {
	var set model.LayoutRuleSet
	if node.Kind != yaml.MappingNode {
		return set, &common.ConfigurationError{
			Path:    source,
			Section: SectionLayout,
			Err:     fmt.Errorf("%w: expected a mapping of rule names", common.ErrInvalidConfig),
		}
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		body := node.Content[i+1]
		if body.Kind != yaml.MappingNode {
			return set, &common.RuleEngineError{Rule: name, Err: fmt.Errorf("%w: rule must be a mapping", common.ErrInvalidConfig)}
		}
		for _, field := range []string{"impedance", "description"} {
			if !hasKey(body, field) {
				return set, &common.RuleEngineError{Rule: name, Field: field, Err: common.ErrMissingField}
			}
		}

		var rule model.LayoutRule
		if err := body.Decode(&rule); err != nil {
			return set, &common.RuleEngineError{Rule: name, Err: fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)}
		}
		rule.Name = name
		if !hasKey(body, "enabled") {
			rule.Enabled = true
		}
		set = set.With(rule)
	}
	return set, nil
}

func decodeTemplate(raw *rawTemplate, source string) (model.TemplateMapping, error) {
	mapping := model.TemplateMapping{
		CustomHeaders: raw.CustomHeaders,
		ColumnOrder:   raw.ColumnOrder,
		HiddenColumns: raw.HiddenColumns,
		Output:        model.DefaultOutputSettings(),
	}

	columns := &raw.Columns
	if columns.Kind != yaml.MappingNode {
		return mapping, &common.ConfigurationError{
			Path:    source,
			Section: SectionTemplateColumns,
			Err:     fmt.Errorf("%w: expected a mapping of field to header", common.ErrInvalidConfig),
		}
	}
	for i := 0; i+1 < len(columns.Content); i += 2 {
		mapping.Columns = append(mapping.Columns, model.Column{
			Field:  columns.Content[i].Value,
			Header: columns.Content[i+1].Value,
		})
	}

	if raw.OutputSettings.Kind != 0 {
		if err := raw.OutputSettings.Decode(&mapping.Output); err != nil {
			return mapping, &common.ConfigurationError{
				Path:    source,
				Section: SectionTemplate + ".output_settings",
				Err:     fmt.Errorf("%w: %w", common.ErrInvalidConfig, err),
			}
		}
	}
	return mapping, nil
}

func hasKey(node *yaml.Node, key string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}

// Summary describes a configuration in one line.
func Summary(cfg *model.Configuration) string {
	return fmt.Sprintf("%s: %d classification rules, %d layout rules, %d template columns, order %s",
		cfg.Source,
		cfg.ClassificationRules.Len(),
		cfg.LayoutRules.Len(),
		len(cfg.Template.Columns),
		cfg.Classification.Order,
	)
}
