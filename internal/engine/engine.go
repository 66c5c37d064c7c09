// Package engine resolves net classifications into concrete layout rules.
package engine

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Veraticus/layoutguide/internal/common"
	"github.com/Veraticus/layoutguide/internal/model"
)

// DefaultRuleName is the layout rule used when neither the signal type nor
// the category resolves to a rule.
const DefaultRuleName = "Default"

// categoryRules maps classification categories to layout rule names.
var categoryRules = map[string]string{
	"Communication Interface": "I2C",
	"High Speed Interface":    "PCIe",
	"RF":                      "RF",
	"Power":                   "Power",
}

// Builtin returns the hardcoded layout values used when no rule resolves.
func Builtin() model.LayoutRule {
	return model.LayoutRule{
		Name:        model.BuiltinRuleName,
		Impedance:   "50 Ohm",
		Description: "General purpose signal",
		Width:       "TBD",
		LengthLimit: "TBD",
		Spacing:     "TBD",
		ViaRules:    "Standard",
		LayerStack:  "Any",
		Shielding:   "Optional",
		Enabled:     true,
	}
}

// Engine applies layout rules to classified nets.
// Register may be called while Apply runs; each Apply call works on the
// rule set as it was when the call started.
type Engine struct {
	rules model.LayoutRuleSet
	mu    sync.RWMutex
}

// New creates an engine over a snapshot of rules.
func New(rules model.LayoutRuleSet) *Engine {
	return &Engine{rules: rules}
}

// NewFromConfig creates an engine from the configuration's layout rules.
func NewFromConfig(cfg *model.Configuration) *Engine {
	return New(cfg.LayoutRules)
}

// Rules returns the current rule snapshot.
func (e *Engine) Rules() model.LayoutRuleSet {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.rules
}

// Register adds or overwrites a layout rule and enables it. No validation
// is performed; use ValidateRuleConfig first when the rule comes from user input.
func (e *Engine) Register(name string, rule model.LayoutRule) {
	rule.Name = name
	rule.Enabled = true

	e.mu.Lock()
	e.rules = e.rules.With(rule)
	e.mu.Unlock()

	slog.Debug("Registered layout rule", "rule", name)
}

// Apply resolves every classification into a LayoutInfo record.
func (e *Engine) Apply(classified map[string]model.Classification) map[string]model.LayoutInfo {
	rules := e.Rules()

	out := make(map[string]model.LayoutInfo, len(classified))
	resolved := make(map[string]int)
	for net, c := range classified {
		info := build(net, c, rules)
		out[net] = info
		resolved[info.ResolvedRule]++
	}

	slog.Info("Applied layout rules",
		"nets", len(classified),
		"rules_used", len(resolved))
	if n := resolved[model.BuiltinRuleName]; n > 0 {
		slog.Warn("Nets fell back to builtin layout values", "nets", n)
	}
	return out
}

// ApplyOne resolves a single classification.
func (e *Engine) ApplyOne(netName string, c model.Classification) model.LayoutInfo {
	return build(netName, c, e.Rules())
}

// Resolve returns the layout rule name and values for a signal type and category.
func (e *Engine) Resolve(signalType, category string) (string, model.LayoutRule) {
	return resolve(e.Rules(), signalType, category)
}

func build(netName string, c model.Classification, rules model.LayoutRuleSet) model.LayoutInfo {
	name, rule := resolve(rules, c.SignalType, c.Category)
	return model.LayoutInfo{
		LayoutRule:    rule,
		NetName:       netName,
		Category:      c.Category,
		SignalType:    c.SignalType,
		RuleMatched:   c.RuleMatched,
		ResolvedRule:  name,
		PinAssignment: model.PinPlaceholder,
		Priority:      c.Priority,
	}
}

func resolve(rules model.LayoutRuleSet, signalType, category string) (string, model.LayoutRule) {
	candidates := []string{signalType}
	if mapped, ok := categoryRules[category]; ok {
		candidates = append(candidates, mapped)
	}
	candidates = append(candidates, DefaultRuleName)

	for _, name := range candidates {
		rule, ok := rules.Get(name)
		if !ok || !rule.Enabled {
			continue
		}
		return name, withBuiltinDefaults(rule)
	}

	return model.BuiltinRuleName, Builtin()
}

// withBuiltinDefaults fills empty descriptive fields from the builtin values.
func withBuiltinDefaults(rule model.LayoutRule) model.LayoutRule {
	builtin := Builtin()
	fill := func(field *string, fallback string) {
		if strings.TrimSpace(*field) == "" {
			*field = fallback
		}
	}
	fill(&rule.Impedance, builtin.Impedance)
	fill(&rule.Description, builtin.Description)
	fill(&rule.Width, builtin.Width)
	fill(&rule.LengthLimit, builtin.LengthLimit)
	fill(&rule.Spacing, builtin.Spacing)
	fill(&rule.ViaRules, builtin.ViaRules)
	fill(&rule.LayerStack, builtin.LayerStack)
	fill(&rule.Shielding, builtin.Shielding)
	return rule
}

// ValidateRuleConfig checks the fields a layout rule needs before it is registered.
func ValidateRuleConfig(rule model.LayoutRule) error {
	if strings.TrimSpace(rule.Impedance) == "" {
		return &common.RuleEngineError{Rule: rule.Name, Field: "impedance", Err: common.ErrMissingField}
	}
	if strings.TrimSpace(rule.Description) == "" {
		return &common.RuleEngineError{Rule: rule.Name, Field: "description", Err: common.ErrMissingField}
	}
	return nil
}

// RuleInfo is a one-line view of a layout rule.
type RuleInfo struct {
	Name        string
	Description string
	Impedance   string
	Family      model.Family
	Enabled     bool
}

// String renders the rule for listings.
func (r RuleInfo) String() string {
	return fmt.Sprintf("%s: %s (%s, %s)", r.Name, r.Description, r.Impedance, r.Family)
}

// RuleSummary describes every registered rule in order.
func (e *Engine) RuleSummary() []RuleInfo {
	rules := e.Rules().Rules()
	out := make([]RuleInfo, 0, len(rules))
	for _, rule := range rules {
		out = append(out, RuleInfo{
			Name:        rule.Name,
			Description: rule.Description,
			Impedance:   rule.Impedance,
			Family:      rule.Family(),
			Enabled:     rule.Enabled,
		})
	}
	return out
}
