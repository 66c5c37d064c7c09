package main

import (
	"fmt"

	"github.com/Veraticus/layoutguide/internal/classification"
	"github.com/Veraticus/layoutguide/internal/cli"
	"github.com/Veraticus/layoutguide/internal/pipeline"
	"github.com/Veraticus/layoutguide/internal/template"
	"github.com/spf13/cobra"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <netlist>",
		Short: "Show how each net in a netlist is classified",
		Long: `Parse a netlist and print the category, signal type, matching rule and
impedance of every net without writing a layout guide.

Examples:
  layoutguide classify board.net
  layoutguide classify board.net --rules-config rules.yaml --priority-order`,
		Args: cobra.ExactArgs(1),
		RunE: runClassify,
	}

	addRulesFlags(cmd)

	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadRulesConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}

	runner, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	names, err := runner.Parser().ParseFile(args[0])
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(out, cli.FormatWarning("No nets found in "+args[0]))
		return nil
	}

	classified := runner.Classifier().Classify(names)
	layout := runner.Engine().Apply(classified)

	fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("%s: %d nets", args[0], len(names))))

	tw := newTabWriter(out)
	fmt.Fprintln(tw, "NET\tCATEGORY\tSIGNAL TYPE\tRULE\tPRIORITY\tIMPEDANCE")
	for _, info := range template.SortedNets(layout) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			info.NetName, info.Category, info.SignalType, info.RuleMatched, info.Priority, info.Impedance)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.RenderCategoryTable(classification.SortedSummary(classified)))
	return nil
}
