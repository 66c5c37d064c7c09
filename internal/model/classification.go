package model

// Default classification values used when no rule matches a net.
const (
	DefaultCategory    = "Other"
	DefaultSignalType  = "Single-End"
	DefaultRuleMatched = "default"
	DefaultPriority    = 999
)

// Classification is the result of matching one net against the rule set.
type Classification struct {
	NetName     string
	Category    string
	SignalType  string
	RuleMatched string
	Priority    int
}

// DefaultClassification returns the classification for a net no rule matched.
func DefaultClassification(netName string) Classification {
	return Classification{
		NetName:     netName,
		Category:    DefaultCategory,
		SignalType:  DefaultSignalType,
		RuleMatched: DefaultRuleMatched,
		Priority:    DefaultPriority,
	}
}

// IsDefault reports whether no configured rule produced this classification.
func (c Classification) IsDefault() bool {
	return c.RuleMatched == DefaultRuleMatched
}

// CategoryCount is one line of a classification summary.
type CategoryCount struct {
	Category string
	Count    int
}
