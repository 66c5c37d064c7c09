// Package pattern compiles classification rules into net-name matchers.
package pattern

import "github.com/Veraticus/layoutguide/internal/model"

// Matcher evaluates a net name against one compiled rule.
type Matcher interface {
	// Match reports whether name hits the rule and which matcher kind hit first.
	Match(name string) (MatchKind, bool)
}

// MatchKind names the matcher that accepted a net.
type MatchKind string

// Matcher kinds in evaluation order.
const (
	MatchNone    MatchKind = ""
	MatchKeyword MatchKind = "keyword"
	MatchRegex   MatchKind = "regex"
	MatchExact   MatchKind = "exact"
)

// Rule is an alias to the model.ClassificationRule type for convenience.
type Rule = model.ClassificationRule
