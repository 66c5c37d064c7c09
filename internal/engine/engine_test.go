package engine

import (
	"sync"
	"testing"

	"github.com/Veraticus/layoutguide/internal/common"
	"github.com/Veraticus/layoutguide/internal/model"
	"github.com/Veraticus/layoutguide/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func standardEngine(t *testing.T) *Engine {
	t.Helper()
	return NewFromConfig(testutil.NewConfigBuilder(t).WithStandardRules().Build())
}

func TestEngine_Resolve(t *testing.T) {
	e := standardEngine(t)

	tests := []struct {
		name       string
		signalType string
		category   string
		wantRule   string
		wantImp    string
	}{
		{
			name:       "signal type key",
			signalType: "SPI",
			category:   "Communication Interface",
			wantRule:   "SPI",
			wantImp:    "50 Ohm",
		},
		{
			name:       "category table for communication interfaces",
			signalType: "UART",
			category:   "Communication Interface",
			wantRule:   "I2C",
			wantImp:    "50 Ohm",
		},
		{
			name:       "category table for high speed",
			signalType: "USB",
			category:   "High Speed Interface",
			wantRule:   "PCIe",
			wantImp:    "100 Ohm differential",
		},
		{
			name:       "category table for power",
			signalType: "LDO",
			category:   "Power",
			wantRule:   "Power",
			wantImp:    "N/A",
		},
		{
			name:       "unknown signal type and category use Default",
			signalType: "Single-End",
			category:   "Other",
			wantRule:   "Default",
			wantImp:    "50 Ohm",
		},
		{
			name:       "unmapped category uses Default",
			signalType: "JTAG",
			category:   "Debug",
			wantRule:   "Default",
			wantImp:    "50 Ohm",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, rule := e.Resolve(tt.signalType, tt.category)
			assert.Equal(t, tt.wantRule, name)
			assert.Equal(t, tt.wantImp, rule.Impedance)
		})
	}
}

func TestEngine_Apply(t *testing.T) {
	e := standardEngine(t)

	classified := map[string]model.Classification{
		"RF_ANT1": {NetName: "RF_ANT1", Category: "RF", SignalType: "RF", RuleMatched: "RF", Priority: 5},
		"GPIO_1":  model.DefaultClassification("GPIO_1"),
	}

	got := e.Apply(classified)
	require.Len(t, got, 2)

	rf := got["RF_ANT1"]
	assert.Equal(t, "RF_ANT1", rf.NetName)
	assert.Equal(t, "RF", rf.Category)
	assert.Equal(t, "RF", rf.ResolvedRule)
	assert.Equal(t, "50 Ohm", rf.Impedance)
	assert.Equal(t, "Ground surrounding required", rf.Shielding)
	assert.Equal(t, 5, rf.Priority)
	assert.Equal(t, model.PinPlaceholder, rf.PinAssignment)
	assert.Equal(t, model.FamilyRF, rf.Family())

	gpio := got["GPIO_1"]
	assert.Equal(t, "Default", gpio.ResolvedRule)
	assert.Equal(t, "default", gpio.RuleMatched)
	assert.Equal(t, 999, gpio.Priority)
	assert.Equal(t, "Standard digital signal routing", gpio.Notes)
}

func TestEngine_BuiltinFallback(t *testing.T) {
	e := New(model.NewLayoutRuleSet(model.LayoutRule{Name: "SPI", Impedance: "50 Ohm", Description: "SPI", Enabled: true}))

	info := e.ApplyOne("GPIO_1", model.DefaultClassification("GPIO_1"))
	assert.Equal(t, model.BuiltinRuleName, info.ResolvedRule)
	assert.Equal(t, "50 Ohm", info.Impedance)
	assert.Equal(t, "General purpose signal", info.Description)
	assert.Equal(t, "TBD", info.Width)
	assert.Equal(t, "TBD", info.LengthLimit)
	assert.Equal(t, "TBD", info.Spacing)
	assert.Equal(t, "Standard", info.ViaRules)
	assert.Equal(t, "Any", info.LayerStack)
	assert.Equal(t, "Optional", info.Shielding)
	assert.Empty(t, info.Notes)
}

func TestEngine_MissingFieldsUseBuiltinValues(t *testing.T) {
	e := New(model.NewLayoutRuleSet(model.LayoutRule{
		Name:        "CAN",
		Impedance:   "120 Ohm differential",
		Description: "CAN bus",
		Enabled:     true,
	}))

	name, rule := e.Resolve("CAN", "Communication Interface")
	assert.Equal(t, "CAN", name)
	assert.Equal(t, "120 Ohm differential", rule.Impedance)
	assert.Equal(t, "TBD", rule.Width)
	assert.Equal(t, "Standard", rule.ViaRules)
	assert.Equal(t, "Any", rule.LayerStack)
}

func TestEngine_DisabledRuleSkipped(t *testing.T) {
	e := New(model.NewLayoutRuleSet(
		model.LayoutRule{Name: "RF", Impedance: "50 Ohm", Description: "RF", Enabled: false},
		model.LayoutRule{Name: "Default", Impedance: "50 Ohm", Description: "Fallback", Enabled: true},
	))

	name, _ := e.Resolve("RF", "RF")
	assert.Equal(t, "Default", name)
}

func TestEngine_Register(t *testing.T) {
	rules := model.NewLayoutRuleSet(model.LayoutRule{Name: "Default", Impedance: "50 Ohm", Description: "Fallback", Enabled: true})
	e := New(rules)

	e.Register("MIPI", model.LayoutRule{Impedance: "100 Ohm differential", Description: "MIPI lanes", Enabled: true})
	name, rule := e.Resolve("MIPI", "High Speed Interface")
	assert.Equal(t, "MIPI", name)
	assert.Equal(t, "MIPI lanes", rule.Description)
	assert.Equal(t, 1, rules.Len(), "caller's set is untouched")

	e.Register("MIPI", model.LayoutRule{Impedance: "90 Ohm differential", Description: "MIPI D-PHY", Enabled: true})
	_, rule = e.Resolve("MIPI", "High Speed Interface")
	assert.Equal(t, "90 Ohm differential", rule.Impedance)
	assert.Equal(t, 2, e.Rules().Len())
}

func TestEngine_RegisterEnablesRule(t *testing.T) {
	e := New(model.LayoutRuleSet{})

	e.Register("USB", model.LayoutRule{Impedance: "90 Ohm", Description: "USB pair"})

	name, rule := e.Resolve("USB", "High Speed Interface")
	assert.Equal(t, "USB", name)
	assert.Equal(t, "90 Ohm", rule.Impedance)
	assert.Equal(t, "USB pair", rule.Description)
	assert.True(t, rule.Enabled)
}

func TestEngine_RegisterDuringApply(t *testing.T) {
	e := standardEngine(t)
	classified := map[string]model.Classification{
		"SPI_MOSI": {NetName: "SPI_MOSI", Category: "Communication Interface", SignalType: "SPI", RuleMatched: "SPI", Priority: 10},
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			e.Register("SPI", model.LayoutRule{Impedance: "50 Ohm", Description: "SPI bus routing", Enabled: true})
		}()
		go func() {
			defer wg.Done()
			info := e.Apply(classified)["SPI_MOSI"]
			assert.Equal(t, "SPI", info.ResolvedRule)
		}()
	}
	wg.Wait()
}

func TestValidateRuleConfig(t *testing.T) {
	tests := []struct {
		name      string
		rule      model.LayoutRule
		wantField string
	}{
		{
			name: "valid",
			rule: model.LayoutRule{Name: "SPI", Impedance: "50 Ohm", Description: "SPI"},
		},
		{
			name:      "missing impedance",
			rule:      model.LayoutRule{Name: "SPI", Description: "SPI"},
			wantField: "impedance",
		},
		{
			name:      "missing description",
			rule:      model.LayoutRule{Name: "SPI", Impedance: "50 Ohm", Description: "  "},
			wantField: "description",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRuleConfig(tt.rule)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var ruleErr *common.RuleEngineError
			require.ErrorAs(t, err, &ruleErr)
			assert.Equal(t, tt.wantField, ruleErr.Field)
			assert.Equal(t, "SPI", ruleErr.Rule)
			assert.ErrorIs(t, err, common.ErrMissingField)
		})
	}
}

func TestEngine_RuleSummary(t *testing.T) {
	summary := standardEngine(t).RuleSummary()
	require.Len(t, summary, 6)

	families := make(map[string]model.Family, len(summary))
	for _, info := range summary {
		families[info.Name] = info.Family
	}
	assert.Equal(t, map[string]model.Family{
		"I2C":     model.FamilySingleEnded,
		"SPI":     model.FamilySingleEnded,
		"RF":      model.FamilyRF,
		"PCIe":    model.FamilyDifferential,
		"Power":   model.FamilyPower,
		"Default": model.FamilySingleEnded,
	}, families)

	assert.Equal(t, "I2C", summary[0].Name)
	assert.Equal(t, "I2C: I2C bus routing (50 Ohm, single-ended)", summary[0].String())
}
