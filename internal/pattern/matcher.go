package pattern

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/Veraticus/layoutguide/internal/common"
)

// CompiledRule is a classification rule with its regexes compiled.
//
// Invalid regex patterns are skipped: they are logged once at compile time,
// reported by InvalidPatterns, and never abort matching of the remaining
// keywords, patterns or exact matches.
type CompiledRule struct {
	invalid  map[string]error
	keywords []string
	exact    []string
	regexes  []*regexp.Regexp
	rule     Rule
}

// Compile prepares rule for matching using the shared regex cache.
func Compile(rule Rule) *CompiledRule {
	return CompileWithCache(rule, common.SharedRegexCache())
}

// CompileWithCache prepares rule for matching using cache for regexes.
func CompileWithCache(rule Rule, cache *common.RegexCache) *CompiledRule {
	c := &CompiledRule{
		rule:     rule.Clone(),
		keywords: make([]string, 0, len(rule.Keywords)),
		exact:    make([]string, 0, len(rule.ExactMatches)),
		regexes:  make([]*regexp.Regexp, 0, len(rule.Patterns)),
	}

	for _, keyword := range rule.Keywords {
		if keyword == "" {
			continue
		}
		c.keywords = append(c.keywords, strings.ToUpper(keyword))
	}

	for _, pattern := range rule.Patterns {
		re, err := cache.CompileFold(pattern)
		if err != nil {
			if c.invalid == nil {
				c.invalid = make(map[string]error)
			}
			c.invalid[pattern] = err
			slog.Warn("Skipping invalid regex pattern",
				"rule", rule.Name,
				"pattern", pattern,
				"error", err)
			continue
		}
		c.regexes = append(c.regexes, re)
	}

	for _, exact := range rule.ExactMatches {
		c.exact = append(c.exact, strings.ToUpper(exact))
	}

	return c
}

// Rule returns the source rule.
func (c *CompiledRule) Rule() Rule {
	return c.rule.Clone()
}

// InvalidPatterns returns the patterns skipped because they failed to compile.
func (c *CompiledRule) InvalidPatterns() map[string]error {
	out := make(map[string]error, len(c.invalid))
	for k, v := range c.invalid {
		out[k] = v
	}
	return out
}

// Match tests keywords (substring), then regexes (search), then exact matches.
// Any single hit matches the whole rule. Disabled rules never match.
func (c *CompiledRule) Match(name string) (MatchKind, bool) {
	if !c.rule.Enabled {
		return MatchNone, false
	}

	upper := strings.ToUpper(name)

	for _, keyword := range c.keywords {
		if strings.Contains(upper, keyword) {
			return MatchKeyword, true
		}
	}

	for _, re := range c.regexes {
		if re.MatchString(name) {
			return MatchRegex, true
		}
	}

	for _, exact := range c.exact {
		if upper == exact {
			return MatchExact, true
		}
	}

	return MatchNone, false
}
