// Package classification assigns categories and signal types to net names.
package classification

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/Veraticus/layoutguide/internal/common"
	"github.com/Veraticus/layoutguide/internal/model"
	"github.com/Veraticus/layoutguide/internal/pattern"
)

// Classifier matches net names against a snapshot of classification rules.
// The first matching rule in iteration order wins. Iteration order is the
// configuration order unless WithPriorityOrder is set.
type Classifier struct {
	cache         *common.RegexCache
	rules         model.ClassificationRuleSet
	compiled      []*pattern.CompiledRule
	priorityOrder bool
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithPriorityOrder matches rules by ascending priority value instead of
// configuration order. Equal priorities keep configuration order.
func WithPriorityOrder() Option {
	return func(c *Classifier) {
		c.priorityOrder = true
	}
}

// WithRegexCache sets the cache used for compiling rule patterns.
func WithRegexCache(cache *common.RegexCache) Option {
	return func(c *Classifier) {
		c.cache = cache
	}
}

// NewClassifier compiles rules into a classifier. The set is copied; later
// changes by the caller do not affect this classifier.
func NewClassifier(rules model.ClassificationRuleSet, opts ...Option) *Classifier {
	c := &Classifier{
		cache: common.SharedRegexCache(),
		rules: rules,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.compile()
	return c
}

// NewFromConfig builds a classifier honoring the configuration's rule order setting.
func NewFromConfig(cfg *model.Configuration) *Classifier {
	var opts []Option
	if cfg.UsePriorityOrder() {
		opts = append(opts, WithPriorityOrder())
	}
	return NewClassifier(cfg.ClassificationRules, opts...)
}

func (c *Classifier) compile() {
	ordered := c.rules
	if c.priorityOrder {
		ordered = ordered.SortedByPriority()
	}

	rules := ordered.Rules()
	c.compiled = make([]*pattern.CompiledRule, 0, len(rules))
	for _, rule := range rules {
		c.compiled = append(c.compiled, pattern.CompileWithCache(rule, c.cache))
	}
}

// Rules returns the rule snapshot in configuration order.
func (c *Classifier) Rules() model.ClassificationRuleSet {
	return c.rules
}

// Classify classifies every net name.
func (c *Classifier) Classify(netNames []string) map[string]model.Classification {
	results := make(map[string]model.Classification, len(netNames))
	for _, name := range netNames {
		results[name] = c.ClassifyNet(name)
	}

	slog.Info("Classified nets", "nets", len(netNames), "rules", len(c.compiled))
	return results
}

// ClassifyNet classifies one net name.
func (c *Classifier) ClassifyNet(netName string) model.Classification {
	for _, compiled := range c.compiled {
		kind, ok := compiled.Match(netName)
		if !ok {
			continue
		}

		rule := compiled.Rule()
		slog.Debug("Net matched rule",
			"net", netName,
			"rule", rule.Name,
			"matcher", kind)

		return model.Classification{
			NetName:     netName,
			Category:    rule.Category,
			SignalType:  rule.SignalType,
			RuleMatched: rule.Name,
			Priority:    rule.Priority,
		}
	}

	return model.DefaultClassification(netName)
}

// Explain returns every rule that matches netName in iteration order,
// with the matcher kind that accepted it. The first entry is the winner.
func (c *Classifier) Explain(netName string) []Match {
	var matches []Match
	for _, compiled := range c.compiled {
		if kind, ok := compiled.Match(netName); ok {
			matches = append(matches, Match{Rule: compiled.Rule(), Kind: kind})
		}
	}
	return matches
}

// Match is one rule hit reported by Explain.
type Match struct {
	Kind pattern.MatchKind
	Rule model.ClassificationRule
}

// AddCustomRule returns a new classifier with rule added to the snapshot and
// enabled. The receiver is left unchanged.
func (c *Classifier) AddCustomRule(rule model.ClassificationRule) (*Classifier, error) {
	if strings.TrimSpace(rule.Category) == "" {
		return nil, &common.ClassificationError{Rule: rule.Name, Field: "category", Err: common.ErrMissingField}
	}
	if strings.TrimSpace(rule.SignalType) == "" {
		return nil, &common.ClassificationError{Rule: rule.Name, Field: "signal_type", Err: common.ErrMissingField}
	}

	rule.Enabled = true
	next := &Classifier{
		cache:         c.cache,
		rules:         c.rules.With(rule),
		priorityOrder: c.priorityOrder,
	}
	next.compile()

	slog.Info("Added custom classification rule", "rule", rule.Name)
	return next, nil
}

// InvalidPatterns lists skipped regex patterns per rule name.
func (c *Classifier) InvalidPatterns() map[string][]string {
	out := make(map[string][]string)
	for _, compiled := range c.compiled {
		invalid := compiled.InvalidPatterns()
		if len(invalid) == 0 {
			continue
		}
		patterns := make([]string, 0, len(invalid))
		for p := range invalid {
			patterns = append(patterns, p)
		}
		sort.Strings(patterns)
		out[compiled.Rule().Name] = patterns
	}
	return out
}

// Summary counts nets per category.
func Summary(classified map[string]model.Classification) map[string]int {
	summary := make(map[string]int)
	for _, c := range classified {
		summary[c.Category]++
	}
	return summary
}

// SortedSummary returns category counts ordered by descending count, then name.
func SortedSummary(classified map[string]model.Classification) []model.CategoryCount {
	summary := Summary(classified)
	counts := make([]model.CategoryCount, 0, len(summary))
	for category, count := range summary {
		counts = append(counts, model.CategoryCount{Category: category, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Category < counts[j].Category
	})
	return counts
}

// LogSummary writes one log line per category.
func LogSummary(classified map[string]model.Classification) {
	for _, entry := range SortedSummary(classified) {
		slog.Info("Category summary", "category", entry.Category, "nets", entry.Count)
	}
}
