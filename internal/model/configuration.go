package model

// Rule ordering modes for classification.
const (
	OrderConfig   = "config"
	OrderPriority = "priority"
)

// AppInfo identifies the configuration file.
type AppInfo struct {
	Name    string `yaml:"name,omitempty" json:"name,omitempty"`
	Version string `yaml:"version,omitempty" json:"version,omitempty"`
}

// ParserSettings overrides netlist parser defaults.
type ParserSettings struct {
	SupportedFormats []string `yaml:"supported_formats,omitempty" json:"supported_formats,omitempty"`
	ExcludedPatterns []string `yaml:"excluded_patterns,omitempty" json:"excluded_patterns,omitempty"`
}

// ClassificationSettings controls how rules are applied.
type ClassificationSettings struct {
	Order string `yaml:"order,omitempty" json:"order,omitempty"`
}

// Configuration is a read-only snapshot of everything one pipeline run needs.
type Configuration struct {
	Source              string
	AppInfo             AppInfo
	Parser              ParserSettings
	Classification      ClassificationSettings
	ClassificationRules ClassificationRuleSet
	LayoutRules         LayoutRuleSet
	Template            TemplateMapping
}

// UsePriorityOrder reports whether rules are matched by ascending priority.
func (c *Configuration) UsePriorityOrder() bool {
	return c.Classification.Order == OrderPriority
}
