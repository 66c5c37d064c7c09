package classification

import (
	"testing"

	"github.com/Veraticus/layoutguide/internal/common"
	"github.com/Veraticus/layoutguide/internal/model"
	"github.com/Veraticus/layoutguide/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func standardClassifier(t *testing.T, opts ...Option) *Classifier {
	t.Helper()
	cfg := testutil.NewConfigBuilder(t).WithStandardRules().Build()
	return NewClassifier(cfg.ClassificationRules, opts...)
}

func TestClassifier_Classify(t *testing.T) {
	c := standardClassifier(t)

	tests := []struct {
		net  string
		want model.Classification
	}{
		{
			net:  "I2C_SCL",
			want: model.Classification{NetName: "I2C_SCL", Category: "Communication Interface", SignalType: "I2C", RuleMatched: "I2C", Priority: 10},
		},
		{
			net:  "spi_mosi",
			want: model.Classification{NetName: "spi_mosi", Category: "Communication Interface", SignalType: "SPI", RuleMatched: "SPI", Priority: 10},
		},
		{
			net:  "RF_ANT1",
			want: model.Classification{NetName: "RF_ANT1", Category: "RF", SignalType: "RF", RuleMatched: "RF", Priority: 5},
		},
		{
			net:  "PCIE_TX0_P",
			want: model.Classification{NetName: "PCIE_TX0_P", Category: "High Speed Interface", SignalType: "PCIe", RuleMatched: "PCIe", Priority: 3},
		},
		{
			net:  "vbat",
			want: model.Classification{NetName: "vbat", Category: "Power", SignalType: "Power", RuleMatched: "Power", Priority: 1},
		},
		{
			net:  "GPIO_12",
			want: model.DefaultClassification("GPIO_12"),
		},
	}

	names := make([]string, 0, len(tests))
	for _, tt := range tests {
		names = append(names, tt.net)
	}

	got := c.Classify(names)
	require.Len(t, got, len(tests))
	for _, tt := range tests {
		t.Run(tt.net, func(t *testing.T) {
			assert.Equal(t, tt.want, got[tt.net])
		})
	}
}

func TestClassifier_DefaultFallback(t *testing.T) {
	c := standardClassifier(t)

	for _, net := range []string{"GPIO_1", "RESET_N", "LED_STATUS", "BOOT_MODE"} {
		got := c.ClassifyNet(net)
		assert.Equal(t, "Other", got.Category)
		assert.Equal(t, "Single-End", got.SignalType)
		assert.Equal(t, 999, got.Priority)
		assert.Equal(t, "default", got.RuleMatched)
		assert.True(t, got.IsDefault())
	}
}

func TestClassifier_FirstMatchByConfigurationOrder(t *testing.T) {
	// "Bus" is listed first and only hits by keyword; "Exact" is listed
	// second with an exact-match hit and a better priority.
	rules := model.NewClassificationRuleSet(
		model.ClassificationRule{Name: "Bus", Keywords: []string{"CLK"}, Category: "Clock", SignalType: "Clock", Priority: 50, Enabled: true},
		model.ClassificationRule{Name: "Exact", ExactMatches: []string{"SPI_CLK"}, Category: "Communication Interface", SignalType: "SPI", Priority: 10, Enabled: true},
	)

	got := NewClassifier(rules).ClassifyNet("SPI_CLK")
	assert.Equal(t, "Bus", got.RuleMatched)
	assert.Equal(t, 50, got.Priority)

	reordered := model.NewClassificationRuleSet(rules.Rules()[1], rules.Rules()[0])
	got = NewClassifier(reordered).ClassifyNet("SPI_CLK")
	assert.Equal(t, "Exact", got.RuleMatched)
}

func TestClassifier_PriorityOrder(t *testing.T) {
	rules := model.NewClassificationRuleSet(
		model.ClassificationRule{Name: "Bus", Keywords: []string{"CLK"}, Category: "Clock", SignalType: "Clock", Priority: 50, Enabled: true},
		model.ClassificationRule{Name: "Exact", ExactMatches: []string{"SPI_CLK"}, Category: "Communication Interface", SignalType: "SPI", Priority: 10, Enabled: true},
		model.ClassificationRule{Name: "Tie", Keywords: []string{"SPI"}, Category: "Other Bus", SignalType: "SPI", Priority: 10, Enabled: true},
	)

	c := NewClassifier(rules, WithPriorityOrder())
	got := c.ClassifyNet("SPI_CLK")
	assert.Equal(t, "Exact", got.RuleMatched, "lowest priority value wins, ties keep configuration order")

	cfg := &model.Configuration{
		ClassificationRules: rules,
		Classification:      model.ClassificationSettings{Order: model.OrderPriority},
	}
	assert.Equal(t, "Exact", NewFromConfig(cfg).ClassifyNet("SPI_CLK").RuleMatched)

	cfg.Classification.Order = model.OrderConfig
	assert.Equal(t, "Bus", NewFromConfig(cfg).ClassifyNet("SPI_CLK").RuleMatched)
}

func TestClassifier_DisabledRulesSkipped(t *testing.T) {
	rules := model.NewClassificationRuleSet(
		model.ClassificationRule{Name: "Off", Keywords: []string{"UART"}, Category: "Debug", SignalType: "UART", Priority: 1, Enabled: false},
		model.ClassificationRule{Name: "On", Keywords: []string{"UART"}, Category: "Communication Interface", SignalType: "UART", Priority: 20, Enabled: true},
	)

	got := NewClassifier(rules).ClassifyNet("UART_TX")
	assert.Equal(t, "On", got.RuleMatched)
}

func TestClassifier_InvalidRegexDoesNotAbort(t *testing.T) {
	rules := model.NewClassificationRuleSet(
		model.ClassificationRule{Name: "Broken", Patterns: []string{"[oops"}, Keywords: []string{"JTAG"}, Category: "Debug", SignalType: "JTAG", Priority: 30, Enabled: true},
		model.ClassificationRule{Name: "USB", Patterns: []string{`USB\d*_D[PM]`}, Category: "High Speed Interface", SignalType: "USB", Priority: 4, Enabled: true},
	)

	c := NewClassifier(rules, WithRegexCache(common.NewRegexCache(16)))

	assert.Equal(t, "Broken", c.ClassifyNet("JTAG_TCK").RuleMatched, "keywords of a rule with a bad pattern still match")
	assert.Equal(t, "USB", c.ClassifyNet("USB2_DP").RuleMatched)
	assert.Equal(t, map[string][]string{"Broken": {"[oops"}}, c.InvalidPatterns())
}

func TestClassifier_Idempotent(t *testing.T) {
	c := standardClassifier(t)
	names := []string{"I2C_SDA", "RF_ANT1", "GPIO_3", "VDD_1V8"}

	first := c.Classify(names)
	second := c.Classify(names)
	assert.Equal(t, first, second)
}

func TestClassifier_SnapshotIsolation(t *testing.T) {
	rules := model.NewClassificationRuleSet(
		model.ClassificationRule{Name: "I2C", Keywords: []string{"I2C"}, Category: "Communication Interface", SignalType: "I2C", Priority: 10, Enabled: true},
	)
	c := NewClassifier(rules)

	// The caller edits its own set; the classifier keeps its snapshot.
	rules = rules.Without("I2C")
	assert.Equal(t, 0, rules.Len())
	assert.Equal(t, "I2C", c.ClassifyNet("I2C_SCL").RuleMatched)
}

func TestClassifier_AddCustomRule(t *testing.T) {
	c := standardClassifier(t)

	next, err := c.AddCustomRule(model.ClassificationRule{
		Name:       "MIPI",
		Keywords:   []string{"MIPI"},
		Category:   "High Speed Interface",
		SignalType: "MIPI",
		Priority:   4,
		Enabled:    true,
	})
	require.NoError(t, err)

	assert.Equal(t, "MIPI", next.ClassifyNet("MIPI_CSI_CLK").RuleMatched)
	assert.True(t, c.ClassifyNet("MIPI_CSI_CLK").IsDefault(), "original classifier unchanged")

	withUSB, err := c.AddCustomRule(model.ClassificationRule{
		Name:       "USB",
		Keywords:   []string{"USB"},
		Category:   "High Speed Interface",
		SignalType: "USB",
		Priority:   4,
	})
	require.NoError(t, err)
	assert.Equal(t, "USB", withUSB.ClassifyNet("USB1_DP").RuleMatched)
	usb, ok := withUSB.Rules().Get("USB")
	require.True(t, ok)
	assert.True(t, usb.Enabled)

	_, err = c.AddCustomRule(model.ClassificationRule{Name: "Bad", Keywords: []string{"X"}, SignalType: "X"})
	var classErr *common.ClassificationError
	require.ErrorAs(t, err, &classErr)
	assert.Equal(t, "Bad", classErr.Rule)
	assert.Equal(t, "category", classErr.Field)
	assert.ErrorIs(t, err, common.ErrMissingField)

	_, err = c.AddCustomRule(model.ClassificationRule{Name: "Bad", Keywords: []string{"X"}, Category: "X"})
	require.ErrorAs(t, err, &classErr)
	assert.Equal(t, "signal_type", classErr.Field)
}

func TestClassifier_Explain(t *testing.T) {
	c := standardClassifier(t)

	// SPI_SCLK hits I2C (keyword SCL) before SPI in configuration order.
	matches := c.Explain("SPI_SCLK")
	require.Len(t, matches, 2)
	assert.Equal(t, "I2C", matches[0].Rule.Name)
	assert.Equal(t, "SPI", matches[1].Rule.Name)
	assert.Equal(t, "I2C", c.ClassifyNet("SPI_SCLK").RuleMatched)

	assert.Empty(t, c.Explain("GPIO_1"))
}

func TestSummary(t *testing.T) {
	c := standardClassifier(t)
	classified := c.Classify([]string{"I2C_SCL", "SPI_MOSI", "RF_ANT1", "GPIO_1", "GPIO_2", "LED"})

	assert.Equal(t, map[string]int{
		"Communication Interface": 2,
		"RF":                      1,
		"Other":                   3,
	}, Summary(classified))

	assert.Equal(t, []model.CategoryCount{
		{Category: "Other", Count: 3},
		{Category: "Communication Interface", Count: 2},
		{Category: "RF", Count: 1},
	}, SortedSummary(classified))
}
