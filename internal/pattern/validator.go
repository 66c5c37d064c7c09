package pattern

import (
	"fmt"
	"regexp"
	"strings"
)

// Priority bounds accepted by ValidateRule.
const (
	MinPriority = 0
	MaxPriority = 100
)

// ValidateRule returns the problems an editor would flag for rule.
// An empty result means the rule is valid.
func ValidateRule(rule Rule) []string {
	var problems []string

	if strings.TrimSpace(rule.Name) == "" {
		problems = append(problems, "Rule name cannot be empty")
	}

	if !rule.HasMatchers() {
		problems = append(problems, "At least one keyword, pattern, or exact match must be specified")
	}

	if strings.TrimSpace(rule.Category) == "" {
		problems = append(problems, "Category cannot be empty")
	}

	if strings.TrimSpace(rule.SignalType) == "" {
		problems = append(problems, "Signal type cannot be empty")
	}

	if rule.Priority < MinPriority || rule.Priority > MaxPriority {
		problems = append(problems, fmt.Sprintf("Priority must be between %d and %d", MinPriority, MaxPriority))
	}

	for _, p := range rule.Patterns {
		if _, err := regexp.Compile(p); err != nil {
			problems = append(problems, fmt.Sprintf("Invalid pattern '%s': %v", p, err))
		}
	}

	return problems
}
