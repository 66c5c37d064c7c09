package main

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/layoutguide/internal/config"
	"github.com/Veraticus/layoutguide/internal/model"
	"github.com/Veraticus/layoutguide/internal/service"
	"github.com/Veraticus/layoutguide/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// openStorage is replaced in tests to share one in-memory history.
var openStorage = initStorage

// initStorage opens the run history with proper path expansion.
func initStorage(ctx context.Context) (service.RunStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = filepath.Join(config.DefaultDataDir(), "history.db")
	}
	store, err := storage.Open(ctx, config.ExpandPath(dbPath))
	if err != nil {
		return nil, err
	}
	return store, nil
}

func addRulesFlags(cmd *cobra.Command) {
	cmd.Flags().String("rules-config", "", "rules configuration file (YAML or JSON; default: built-in rules)")
	cmd.Flags().Bool("priority-order", false, "match classification rules by ascending priority instead of file order")
}

// loadRulesConfig loads the rules named by --rules-config, falling back to the
// rules.path setting and then to the embedded defaults.
func loadRulesConfig(cmd *cobra.Command) (*model.Configuration, error) {
	path, _ := cmd.Flags().GetString("rules-config")
	if path == "" {
		path = viper.GetString("rules.path")
	}

	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}

	if priority, _ := cmd.Flags().GetBool("priority-order"); priority {
		cfg.Classification.Order = model.OrderPriority
	}
	return cfg, nil
}

// outputPathFor picks where the guide for netlistPath is written. A single
// netlist uses output as the file; with several, output names a directory.
func outputPathFor(netlistPath, output string, multiple bool) string {
	if output != "" && !multiple {
		return output
	}

	dir := output
	if dir == "" {
		dir = viper.GetString("output.dir")
	}
	if dir == "" {
		dir = filepath.Dir(netlistPath)
	}

	base := strings.TrimSuffix(filepath.Base(netlistPath), filepath.Ext(netlistPath))
	return filepath.Join(config.ExpandPath(dir), base+"_layout_guide.xlsx")
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}
