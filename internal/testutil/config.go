// Package testutil provides fixtures for building pipeline configurations in tests.
package testutil

import (
	"testing"

	"github.com/Veraticus/layoutguide/internal/model"
)

// ConfigBuilder provides a fluent interface for constructing test configurations.
//
// Example:
//
//	cfg := testutil.NewConfigBuilder(t).
//		WithStandardRules().
//		WithClassificationRule(model.ClassificationRule{...}).
//		Build()
type ConfigBuilder struct {
	t   *testing.T
	cfg model.Configuration
}

// NewConfigBuilder creates an empty builder with the default template mapping.
func NewConfigBuilder(t *testing.T) *ConfigBuilder {
	t.Helper()
	return &ConfigBuilder{
		t: t,
		cfg: model.Configuration{
			Source:   "test",
			Template: StandardMapping(),
		},
	}
}

// WithClassificationRule appends (or replaces by name) a classification rule.
func (b *ConfigBuilder) WithClassificationRule(rule model.ClassificationRule) *ConfigBuilder {
	b.t.Helper()
	if rule.Name == "" {
		b.t.Fatalf("classification rule needs a name")
	}
	b.cfg.ClassificationRules = b.cfg.ClassificationRules.With(rule)
	return b
}

// WithLayoutRule appends (or replaces by name) a layout rule.
func (b *ConfigBuilder) WithLayoutRule(rule model.LayoutRule) *ConfigBuilder {
	b.t.Helper()
	if rule.Name == "" {
		b.t.Fatalf("layout rule needs a name")
	}
	b.cfg.LayoutRules = b.cfg.LayoutRules.With(rule)
	return b
}

// WithStandardRules adds the classification and layout fixtures.
func (b *ConfigBuilder) WithStandardRules() *ConfigBuilder {
	b.t.Helper()
	for _, rule := range StandardClassificationRules() {
		b.WithClassificationRule(rule)
	}
	for _, rule := range StandardLayoutRules() {
		b.WithLayoutRule(rule)
	}
	return b
}

// WithPriorityOrder switches classification to priority ordering.
func (b *ConfigBuilder) WithPriorityOrder() *ConfigBuilder {
	b.cfg.Classification.Order = model.OrderPriority
	return b
}

// WithTemplate replaces the template mapping.
func (b *ConfigBuilder) WithTemplate(mapping model.TemplateMapping) *ConfigBuilder {
	b.cfg.Template = mapping
	return b
}

// Build returns the configuration snapshot.
func (b *ConfigBuilder) Build() *model.Configuration {
	cfg := b.cfg
	return &cfg
}

// StandardClassificationRules returns a small rule set covering the common interfaces.
func StandardClassificationRules() []model.ClassificationRule {
	return []model.ClassificationRule{
		{
			Name:       "I2C",
			Keywords:   []string{"I2C", "SCL", "SDA"},
			Category:   "Communication Interface",
			SignalType: "I2C",
			Priority:   10,
			Enabled:    true,
		},
		{
			Name:       "SPI",
			Keywords:   []string{"SPI", "MOSI", "MISO"},
			Category:   "Communication Interface",
			SignalType: "SPI",
			Priority:   10,
			Enabled:    true,
		},
		{
			Name:       "RF",
			Keywords:   []string{"RF", "ANT"},
			Category:   "RF",
			SignalType: "RF",
			Priority:   5,
			Enabled:    true,
		},
		{
			Name:       "PCIe",
			Patterns:   []string{`^PCIE_.*_[PN]$`},
			Category:   "High Speed Interface",
			SignalType: "PCIe",
			Priority:   3,
			Enabled:    true,
		},
		{
			Name:         "Power",
			Keywords:     []string{"VDD", "VCC"},
			ExactMatches: []string{"VBAT"},
			Category:     "Power",
			SignalType:   "Power",
			Priority:     1,
			Enabled:      true,
		},
	}
}

// StandardLayoutRules returns layout rules matching StandardClassificationRules.
func StandardLayoutRules() []model.LayoutRule {
	return []model.LayoutRule{
		{
			Name:        "I2C",
			Impedance:   "50 Ohm",
			Description: "I2C bus routing",
			Width:       "5 mil",
			LengthLimit: "6 inch",
			Spacing:     "3W spacing",
			Shielding:   "Ground guard preferred",
			LayerStack:  "Any signal layer",
			Notes:       "Avoid sharing bus between AP and SCP devices",
			Enabled:     true,
		},
		{
			Name:        "SPI",
			Impedance:   "50 Ohm",
			Description: "SPI bus routing",
			Width:       "5 mil",
			LengthLimit: "6 inch",
			Spacing:     "3W spacing",
			Shielding:   "Ground shielding required",
			LayerStack:  "Same layer for all signals",
			Notes:       "Keep away from switching noise sources",
			Enabled:     true,
		},
		{
			Name:        "RF",
			Impedance:   "50 Ohm",
			Description: "RF signals surrounded by ground",
			Width:       "Calculated for 50 Ohm",
			LengthLimit: "Minimize length",
			Spacing:     "5W spacing minimum",
			Shielding:   "Ground surrounding required",
			LayerStack:  "Dedicated RF layers",
			Notes:       "Minimize vias and sharp bends",
			Enabled:     true,
		},
		{
			Name:        "PCIe",
			Impedance:   "100 Ohm differential",
			Description: "PCIe differential pairs",
			Width:       "Calculated for 100 Ohm diff",
			LengthLimit: "Length matching ±0.1mm",
			Spacing:     "Differential pair rules",
			Shielding:   "Ground plane required",
			LayerStack:  "Stripline preferred",
			Notes:       "Maintain differential impedance and length matching",
			Enabled:     true,
		},
		{
			Name:        "Power",
			Impedance:   "N/A",
			Description: "Power rails",
			Width:       "Current carrying capacity",
			LengthLimit: "Minimize resistance",
			Spacing:     "Voltage clearance",
			Shielding:   "Not required",
			LayerStack:  "Power/Ground planes",
			Notes:       "Consider current density and voltage drop",
			Enabled:     true,
		},
		{
			Name:        "Default",
			Impedance:   "50 Ohm",
			Description: "General signal, 50 Ohm controlled",
			Width:       "5 mil",
			LengthLimit: "No specific limit",
			Spacing:     "3W spacing",
			Shielding:   "Optional",
			LayerStack:  "Any signal layer",
			Notes:       "Standard digital signal routing",
			Enabled:     true,
		},
	}
}

// StandardMapping returns the default output column schema.
func StandardMapping() model.TemplateMapping {
	return model.DefaultTemplateMapping()
}
