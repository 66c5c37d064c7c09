package template

import (
	"strconv"
	"strings"

	"github.com/Veraticus/layoutguide/internal/model"
)

// Canonical field names understood by the mapper.
const (
	FieldCategory              = "category"
	FieldNetName               = "net_name"
	FieldPin                   = "pin_assignment"
	FieldDescription           = "description"
	FieldImpedance             = "impedance"
	FieldSignalType            = "signal_type"
	FieldWidth                 = "width"
	FieldLengthLimit           = "length_limit"
	FieldSpacing               = "spacing"
	FieldViaRules              = "via_rules"
	FieldLayerStack            = "layer_stack"
	FieldShielding             = "shielding"
	FieldNotes                 = "notes"
	FieldDifferentialImpedance = "differential_impedance"
	FieldMaxLengthMM           = "max_length_mm"
	FieldMinSpacingMM          = "min_spacing_mm"
	FieldMaxViaCount           = "max_via_count"
	FieldRequiredLayers        = "required_layers"
	FieldRuleMatched           = "rule_matched"
	FieldLayoutRule            = "layout_rule"
	FieldFamily                = "family"
	FieldPriority              = "priority"
)

var fieldAliases = map[string]string{
	"type":   FieldSignalType,
	"pin":    FieldPin,
	"net":    FieldNetName,
	"rule":   FieldRuleMatched,
	"layers": FieldRequiredLayers,
}

// NormalizeField maps a configured field name such as "Net Name", "Net_Name"
// or "net-name" to its canonical form. Parenthesised suffixes are dropped,
// so "Length Limit (mil)" becomes "length_limit".
func NormalizeField(name string) string {
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return '_'
		}
		return r
	}, name)
	if alias, ok := fieldAliases[name]; ok {
		return alias
	}
	return name
}

// KnownField reports whether the mapper can fill the field.
func KnownField(name string) bool {
	switch NormalizeField(name) {
	case FieldCategory, FieldNetName, FieldPin, FieldDescription, FieldImpedance,
		FieldSignalType, FieldWidth, FieldLengthLimit, FieldSpacing, FieldViaRules,
		FieldLayerStack, FieldShielding, FieldNotes, FieldDifferentialImpedance,
		FieldMaxLengthMM, FieldMinSpacingMM, FieldMaxViaCount, FieldRequiredLayers,
		FieldRuleMatched, FieldLayoutRule, FieldFamily, FieldPriority:
		return true
	}
	return false
}

// FieldValue renders one field of a layout record. Unknown fields are empty.
func FieldValue(info model.LayoutInfo, field string) string {
	switch NormalizeField(field) {
	case FieldCategory:
		return info.Category
	case FieldNetName:
		return info.NetName
	case FieldPin:
		if info.PinAssignment == "" {
			return model.PinPlaceholder
		}
		return info.PinAssignment
	case FieldDescription:
		return info.Description
	case FieldImpedance:
		return info.Impedance
	case FieldSignalType:
		return info.SignalType
	case FieldWidth:
		return info.Width
	case FieldLengthLimit:
		return info.LengthLimit
	case FieldSpacing:
		return info.Spacing
	case FieldViaRules:
		return info.ViaRules
	case FieldLayerStack:
		return info.LayerStack
	case FieldShielding:
		return info.Shielding
	case FieldNotes:
		return info.Notes
	case FieldDifferentialImpedance:
		if info.DifferentialImpedance == nil {
			return ""
		}
		return *info.DifferentialImpedance
	case FieldMaxLengthMM:
		return formatFloat(info.MaxLengthMM)
	case FieldMinSpacingMM:
		return formatFloat(info.MinSpacingMM)
	case FieldMaxViaCount:
		if info.MaxViaCount == nil {
			return ""
		}
		return strconv.Itoa(*info.MaxViaCount)
	case FieldRequiredLayers:
		return strings.Join(info.RequiredLayers, ", ")
	case FieldRuleMatched:
		return info.RuleMatched
	case FieldLayoutRule:
		return info.ResolvedRule
	case FieldFamily:
		return string(info.Family())
	case FieldPriority:
		return strconv.Itoa(info.Priority)
	default:
		return ""
	}
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
