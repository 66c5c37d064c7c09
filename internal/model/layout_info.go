package model

// PinPlaceholder fills the pin column; pin assignment is not derived from the netlist.
const PinPlaceholder = "TBD"

// BuiltinRuleName marks layout info resolved from hardcoded fallback values.
const BuiltinRuleName = "builtin"

// LayoutInfo is the merged per-net record handed to the template mapper.
type LayoutInfo struct {
	LayoutRule
	NetName       string
	Category      string
	SignalType    string
	RuleMatched   string
	ResolvedRule  string
	PinAssignment string
	Priority      int
}
