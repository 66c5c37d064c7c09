package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/layoutguide/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const boardNetlist = `* board netlist
1 VBAT R1 1
2 GND C1 2
3 RF_ANT1 U1 3
4 I2C_SDA U2 4
5 SPI_SCLK U2 5
6 PCIE_TX0_P U3 6
7 R10 R10 7
`

// execute runs cmd as a standalone command tree and returns everything it printed.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	return executeWithInput(t, cmd, "", args...)
}

func executeWithInput(t *testing.T, cmd *cobra.Command, input string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// isolate resets viper and points the history database into a temp dir.
func isolate(t *testing.T) string {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	dbPath := filepath.Join(t.TempDir(), "history.db")
	viper.Set("database.path", dbPath)
	return dbPath
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, versionCmd())
	require.NoError(t, err)
	assert.Equal(t, "layoutguide dev\n", out)
}

func TestOutputPathFor(t *testing.T) {
	isolate(t)

	tests := []struct {
		name     string
		netlist  string
		output   string
		multiple bool
		want     string
	}{
		{name: "explicit file", netlist: "/boards/main.net", output: "/out/guide.xlsx", want: "/out/guide.xlsx"},
		{name: "next to netlist", netlist: "/boards/main.net", want: "/boards/main_layout_guide.xlsx"},
		{name: "directory for several", netlist: "/boards/io.cir", output: "/out", multiple: true, want: "/out/io_layout_guide.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, outputPathFor(tt.netlist, tt.output, tt.multiple))
		})
	}

	t.Run("output.dir setting", func(t *testing.T) {
		viper.Set("output.dir", "/guides")
		assert.Equal(t, "/guides/main_layout_guide.xlsx", outputPathFor("/boards/main.net", "", false))
	})
}

func TestLoadRulesConfig(t *testing.T) {
	isolate(t)

	t.Run("embedded defaults", func(t *testing.T) {
		cmd := &cobra.Command{}
		addRulesFlags(cmd)

		cfg, err := loadRulesConfig(cmd)
		require.NoError(t, err)
		assert.False(t, cfg.UsePriorityOrder())
		_, ok := cfg.ClassificationRules.Get("Power")
		assert.True(t, ok)
	})

	t.Run("priority flag", func(t *testing.T) {
		cmd := &cobra.Command{}
		addRulesFlags(cmd)
		require.NoError(t, cmd.Flags().Set("priority-order", "true"))

		cfg, err := loadRulesConfig(cmd)
		require.NoError(t, err)
		assert.Equal(t, model.OrderPriority, cfg.Classification.Order)
	})

	t.Run("rules.path setting", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "rules.yaml", customRules)
		viper.Set("rules.path", path)
		t.Cleanup(func() { viper.Set("rules.path", "") })

		cmd := &cobra.Command{}
		addRulesFlags(cmd)

		cfg, err := loadRulesConfig(cmd)
		require.NoError(t, err)
		assert.Equal(t, []string{"Sensor"}, cfg.ClassificationRules.Names())
	})
}

const customRules = `
net_classification_rules:
  Sensor:
    keywords: ["SENSE"]
    category: Analog
    signal_type: Sensor
    priority: 7
layout_rules:
  Sensor:
    impedance: 50 Ohm
    description: Analog sense line
  Default:
    impedance: 50 Ohm
    description: Standard routing
template_mapping:
  columns:
    Category: Category
    Net_Name: Net Name
    Description: Description
    Impedance: Impedance
`
