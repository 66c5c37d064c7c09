package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/layoutguide/internal/common"
	"github.com/Veraticus/layoutguide/internal/engine"
	"github.com/Veraticus/layoutguide/internal/model"
	"github.com/Veraticus/layoutguide/internal/pattern"
	"github.com/Veraticus/layoutguide/internal/template"
)

// Validate checks that a configuration can drive a pipeline run.
// It returns the first structural error found.
func Validate(cfg *model.Configuration) error {
	if cfg == nil {
		return &common.ConfigurationError{Err: common.ErrMissingConfig}
	}

	switch cfg.Classification.Order {
	case "", model.OrderConfig, model.OrderPriority:
	default:
		return &common.ConfigurationError{
			Path:    cfg.Source,
			Section: "classification.order",
			Err:     fmt.Errorf("%w: unknown order %q", common.ErrInvalidConfig, cfg.Classification.Order),
		}
	}

	for _, rule := range cfg.ClassificationRules.Rules() {
		if strings.TrimSpace(rule.Category) == "" {
			return &common.ClassificationError{Rule: rule.Name, Field: "category", Err: common.ErrMissingField}
		}
		if strings.TrimSpace(rule.SignalType) == "" {
			return &common.ClassificationError{Rule: rule.Name, Field: "signal_type", Err: common.ErrMissingField}
		}
		if !rule.HasMatchers() {
			slog.Warn("Classification rule has no matchers and will never match", "rule", rule.Name)
		}
	}

	for _, rule := range cfg.LayoutRules.Rules() {
		if err := engine.ValidateRuleConfig(rule); err != nil {
			return err
		}
	}

	if len(cfg.Template.Columns) == 0 {
		return &common.ConfigurationError{
			Path:    cfg.Source,
			Section: SectionTemplateColumns,
			Err:     fmt.Errorf("%w: at least one column is required", common.ErrInvalidConfig),
		}
	}
	return nil
}

// Lint collects the non-fatal problems an editor would flag across all rules
// and the template mapping. Each entry is prefixed with where it was found.
func Lint(cfg *model.Configuration) []string {
	var problems []string

	for _, rule := range cfg.ClassificationRules.Rules() {
		for _, p := range pattern.ValidateRule(rule) {
			problems = append(problems, fmt.Sprintf("classification %s: %s", rule.Name, p))
		}
	}
	for _, rule := range cfg.LayoutRules.Rules() {
		for _, p := range rule.Validate() {
			problems = append(problems, fmt.Sprintf("layout %s: %s", rule.Name, p))
		}
	}
	if _, ok := cfg.LayoutRules.Get(engine.DefaultRuleName); !ok {
		problems = append(problems, fmt.Sprintf("layout: no %q rule, unmatched signal types use the builtin fallback", engine.DefaultRuleName))
	}
	for _, p := range template.ValidateMapping(cfg.Template) {
		problems = append(problems, "template: "+p)
	}

	return problems
}
