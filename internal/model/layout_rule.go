package model

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Family groups layout rules by the kind of routing they describe.
type Family string

// Layout rule families.
const (
	FamilySingleEnded  Family = "single-ended"
	FamilyDifferential Family = "differential"
	FamilyRF           Family = "rf"
	FamilyPower        Family = "power"
)

// LayoutRule holds the physical routing constraints for a signal type.
// Descriptive fields are free text; the optional numeric constraints are
// nil when not configured.
type LayoutRule struct {
	DifferentialImpedance *string  `yaml:"differential_impedance,omitempty" json:"differential_impedance,omitempty"`
	MaxLengthMM           *float64 `yaml:"max_length_mm,omitempty" json:"max_length_mm,omitempty"`
	MinSpacingMM          *float64 `yaml:"min_spacing_mm,omitempty" json:"min_spacing_mm,omitempty"`
	MaxViaCount           *int     `yaml:"max_via_count,omitempty" json:"max_via_count,omitempty"`
	Name                  string   `yaml:"-" json:"-"`
	Impedance             string   `yaml:"impedance" json:"impedance"`
	Description           string   `yaml:"description" json:"description"`
	Width                 string   `yaml:"width,omitempty" json:"width,omitempty"`
	LengthLimit           string   `yaml:"length_limit,omitempty" json:"length_limit,omitempty"`
	Spacing               string   `yaml:"spacing,omitempty" json:"spacing,omitempty"`
	ViaRules              string   `yaml:"via_rules,omitempty" json:"via_rules,omitempty"`
	LayerStack            string   `yaml:"layer_stack,omitempty" json:"layer_stack,omitempty"`
	Shielding             string   `yaml:"shielding,omitempty" json:"shielding,omitempty"`
	Notes                 string   `yaml:"notes,omitempty" json:"notes,omitempty"`
	RequiredLayers        []string `yaml:"required_layers,omitempty" json:"required_layers,omitempty"`
	Enabled               bool     `yaml:"enabled" json:"enabled"`
}

var (
	impedanceValue = regexp.MustCompile(`(\d+(?:\.\d+)?)`)
	rfWord         = regexp.MustCompile(`(?i)\bRF\b`)
)

// Family derives the rule's routing family from its fields.
func (r LayoutRule) Family() Family {
	impedance := strings.ToLower(r.Impedance)
	switch {
	case r.DifferentialImpedance != nil,
		strings.Contains(impedance, "diff"):
		return FamilyDifferential
	case impedance == "n/a",
		strings.Contains(strings.ToLower(r.LayerStack), "power"):
		return FamilyPower
	case strings.Contains(strings.ToLower(r.Shielding), "surround"),
		rfWord.MatchString(r.LayerStack):
		return FamilyRF
	default:
		return FamilySingleEnded
	}
}

// IsDifferential reports whether the rule describes a differential pair.
func (r LayoutRule) IsDifferential() bool {
	return r.Family() == FamilyDifferential
}

// ImpedanceOhms extracts the numeric part of the impedance text.
func (r LayoutRule) ImpedanceOhms() (float64, bool) {
	match := impedanceValue.FindString(r.Impedance)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// HasImpedanceUnit reports whether the impedance text carries an Ohm unit.
func (r LayoutRule) HasImpedanceUnit() bool {
	lower := strings.ToLower(r.Impedance)
	return strings.Contains(lower, "ohm") || strings.Contains(lower, "ω")
}

// Validate returns the problems an editor would flag for this rule.
func (r LayoutRule) Validate() []string {
	var problems []string

	if strings.TrimSpace(r.Name) == "" {
		problems = append(problems, "Rule name cannot be empty")
	}
	if strings.TrimSpace(r.Impedance) == "" {
		problems = append(problems, "Impedance cannot be empty")
	} else if !r.HasImpedanceUnit() && r.Family() != FamilyPower {
		problems = append(problems, "Impedance should include 'Ohm' or 'Ω' unit")
	}
	if strings.TrimSpace(r.Width) == "" {
		problems = append(problems, "Width cannot be empty")
	}
	if r.MaxLengthMM != nil && *r.MaxLengthMM <= 0 {
		problems = append(problems, "Maximum length must be positive")
	}
	if r.MinSpacingMM != nil && *r.MinSpacingMM < 0 {
		problems = append(problems, "Minimum spacing cannot be negative")
	}
	if r.MaxViaCount != nil && *r.MaxViaCount < 0 {
		problems = append(problems, "Maximum via count cannot be negative")
	}

	return problems
}

// Clone returns a deep copy of the rule.
func (r LayoutRule) Clone() LayoutRule {
	if r.DifferentialImpedance != nil {
		v := *r.DifferentialImpedance
		r.DifferentialImpedance = &v
	}
	if r.MaxLengthMM != nil {
		v := *r.MaxLengthMM
		r.MaxLengthMM = &v
	}
	if r.MinSpacingMM != nil {
		v := *r.MinSpacingMM
		r.MinSpacingMM = &v
	}
	if r.MaxViaCount != nil {
		v := *r.MaxViaCount
		r.MaxViaCount = &v
	}
	r.RequiredLayers = slices.Clone(r.RequiredLayers)
	return r
}

// LayoutRuleSet is an ordered name → LayoutRule collection.
type LayoutRuleSet struct {
	rules []LayoutRule
}

// NewLayoutRuleSet builds a set from rules in the given order.
func NewLayoutRuleSet(rules ...LayoutRule) LayoutRuleSet {
	var set LayoutRuleSet
	for _, rule := range rules {
		set = set.With(rule)
	}
	return set
}

// Len returns the number of rules.
func (s LayoutRuleSet) Len() int {
	return len(s.rules)
}

// Get looks up a rule by name.
func (s LayoutRuleSet) Get(name string) (LayoutRule, bool) {
	for _, rule := range s.rules {
		if rule.Name == name {
			return rule.Clone(), true
		}
	}
	return LayoutRule{}, false
}

// Names returns rule names in order.
func (s LayoutRuleSet) Names() []string {
	names := make([]string, len(s.rules))
	for i, rule := range s.rules {
		names[i] = rule.Name
	}
	return names
}

// Rules returns a copy of the rules in order.
func (s LayoutRuleSet) Rules() []LayoutRule {
	out := make([]LayoutRule, len(s.rules))
	for i, rule := range s.rules {
		out[i] = rule.Clone()
	}
	return out
}

// With returns a copy of the set with rule added or replaced by name.
func (s LayoutRuleSet) With(rule LayoutRule) LayoutRuleSet {
	out := make([]LayoutRule, 0, len(s.rules)+1)
	replaced := false
	for _, existing := range s.rules {
		if existing.Name == rule.Name {
			out = append(out, rule.Clone())
			replaced = true
			continue
		}
		out = append(out, existing)
	}
	if !replaced {
		out = append(out, rule.Clone())
	}
	return LayoutRuleSet{rules: out}
}
