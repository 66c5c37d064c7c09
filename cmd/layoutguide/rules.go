package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/layoutguide/internal/cli"
	"github.com/Veraticus/layoutguide/internal/config"
	"github.com/Veraticus/layoutguide/internal/pipeline"
	"github.com/spf13/cobra"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect classification and layout rules",
		Long:  `List the configured rules, test net names against them and check them for mistakes.`,
	}

	cmd.AddCommand(rulesListCmd())
	cmd.AddCommand(rulesTestCmd())
	cmd.AddCommand(rulesValidateCmd())

	return cmd
}

func rulesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List classification and layout rules in evaluation order",
		Args:  cobra.NoArgs,
		RunE:  runRulesList,
	}
	addRulesFlags(cmd)
	return cmd
}

func runRulesList(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	runner, err := newRunner(cmd)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, cli.FormatTitle("Classification rules"))
	tw := newTabWriter(out)
	fmt.Fprintln(tw, "RULE\tCATEGORY\tSIGNAL TYPE\tPRIORITY\tMATCHERS\tENABLED")
	for _, rule := range runner.Classifier().Rules().Rules() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%t\n",
			rule.Name, rule.Category, rule.SignalType, rule.Priority,
			len(rule.Keywords)+len(rule.Patterns)+len(rule.ExactMatches), rule.Enabled)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.FormatTitle("Layout rules"))
	for _, info := range runner.Engine().RuleSummary() {
		line := "  " + info.String()
		if !info.Enabled {
			line += cli.SubtleStyle.Render(" [disabled]")
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func rulesTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test <net>...",
		Short: "Show which rules match the given net names",
		Long: `Classify each net name and list every rule that matches it. The first
match wins; later matches are shown so overlapping rules are easy to spot.

Examples:
  layoutguide rules test USB_DP SPI_SCLK
  layoutguide rules test CLK_25M --priority-order`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRulesTest,
	}
	addRulesFlags(cmd)
	return cmd
}

func runRulesTest(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	runner, err := newRunner(cmd)
	if err != nil {
		return err
	}

	for _, net := range args {
		c := runner.Classifier().ClassifyNet(net)
		layoutRule, rule := runner.Engine().Resolve(c.SignalType, c.Category)

		fmt.Fprintf(out, "%s → %s / %s (rule %s, priority %d)\n",
			cli.BoldStyle.Render(net), c.Category, c.SignalType, c.RuleMatched, c.Priority)
		fmt.Fprintf(out, "  layout: %s, %s, %s\n", layoutRule, rule.Impedance, rule.Description)

		matches := runner.Classifier().Explain(net)
		if len(matches) > 1 {
			shadowed := make([]string, 0, len(matches)-1)
			for _, m := range matches[1:] {
				shadowed = append(shadowed, fmt.Sprintf("%s (%s)", m.Rule.Name, m.Kind))
			}
			fmt.Fprintln(out, "  "+cli.FormatWarning("also matches: "+strings.Join(shadowed, ", ")))
		}
	}
	return nil
}

func rulesValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check rules and the template mapping for mistakes",
		Args:  cobra.NoArgs,
		RunE:  runRulesValidate,
	}
	addRulesFlags(cmd)
	return cmd
}

func runRulesValidate(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadRulesConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}

	problems := config.Lint(cfg)
	if len(problems) == 0 {
		fmt.Fprintln(out, cli.FormatSuccess(config.Summary(cfg)))
		return nil
	}

	for _, p := range problems {
		fmt.Fprintln(out, cli.FormatError(p))
	}
	return fmt.Errorf("%d rule problems found in %s", len(problems), cfg.Source)
}

func newRunner(cmd *cobra.Command) (*pipeline.Runner, error) {
	cfg, err := loadRulesConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	return pipeline.New(cfg)
}
