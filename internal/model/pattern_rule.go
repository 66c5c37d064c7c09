// Package model defines the core data structures for the layout guide pipeline.
package model

import (
	"slices"
	"sort"
)

// ClassificationRule maps net-name patterns to a category, signal type and priority.
// A rule matches a net when any keyword, pattern or exact match hits.
type ClassificationRule struct {
	Name         string   `yaml:"-" json:"-"`
	Category     string   `yaml:"category" json:"category"`
	SignalType   string   `yaml:"signal_type" json:"signal_type"`
	Description  string   `yaml:"description,omitempty" json:"description,omitempty"`
	Keywords     []string `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	Patterns     []string `yaml:"patterns,omitempty" json:"patterns,omitempty"`
	ExactMatches []string `yaml:"exact_matches,omitempty" json:"exact_matches,omitempty"`
	Priority     int      `yaml:"priority" json:"priority"`
	Enabled      bool     `yaml:"enabled" json:"enabled"`
}

// HasMatchers reports whether the rule can match anything at all.
func (r ClassificationRule) HasMatchers() bool {
	return len(r.Keywords) > 0 || len(r.Patterns) > 0 || len(r.ExactMatches) > 0
}

// Clone returns a deep copy of the rule.
func (r ClassificationRule) Clone() ClassificationRule {
	r.Keywords = slices.Clone(r.Keywords)
	r.Patterns = slices.Clone(r.Patterns)
	r.ExactMatches = slices.Clone(r.ExactMatches)
	return r
}

// ClassificationRuleSet is an ordered collection of classification rules.
// Order is configuration order and decides which rule wins when several match.
// Mutating methods return a new set; a set handed to a pipeline run is never modified.
type ClassificationRuleSet struct {
	rules []ClassificationRule
}

// NewClassificationRuleSet builds a set from rules in the given order.
// A later rule with a duplicate name replaces the earlier one in place.
func NewClassificationRuleSet(rules ...ClassificationRule) ClassificationRuleSet {
	var set ClassificationRuleSet
	for _, rule := range rules {
		set = set.With(rule)
	}
	return set
}

// Len returns the number of rules.
func (s ClassificationRuleSet) Len() int {
	return len(s.rules)
}

// Rules returns a copy of the rules in order.
func (s ClassificationRuleSet) Rules() []ClassificationRule {
	out := make([]ClassificationRule, len(s.rules))
	for i, rule := range s.rules {
		out[i] = rule.Clone()
	}
	return out
}

// Names returns rule names in order.
func (s ClassificationRuleSet) Names() []string {
	names := make([]string, len(s.rules))
	for i, rule := range s.rules {
		names[i] = rule.Name
	}
	return names
}

// Get looks up a rule by name.
func (s ClassificationRuleSet) Get(name string) (ClassificationRule, bool) {
	for _, rule := range s.rules {
		if rule.Name == name {
			return rule.Clone(), true
		}
	}
	return ClassificationRule{}, false
}

// With returns a copy of the set with rule added at the end, or replacing the
// rule of the same name at its current position.
func (s ClassificationRuleSet) With(rule ClassificationRule) ClassificationRuleSet {
	out := make([]ClassificationRule, 0, len(s.rules)+1)
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
	return ClassificationRuleSet{rules: out}
}

// Without returns a copy of the set without the named rule.
func (s ClassificationRuleSet) Without(name string) ClassificationRuleSet {
	out := make([]ClassificationRule, 0, len(s.rules))
	for _, existing := range s.rules {
		if existing.Name != name {
			out = append(out, existing)
		}
	}
	return ClassificationRuleSet{rules: out}
}

// SortedByPriority returns a copy ordered by ascending priority value.
// Rules with equal priority keep their configuration order.
func (s ClassificationRuleSet) SortedByPriority() ClassificationRuleSet {
	out := s.Rules()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return ClassificationRuleSet{rules: out}
}
