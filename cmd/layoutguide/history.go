package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/layoutguide/internal/cli"
	"github.com/Veraticus/layoutguide/internal/model"
	"github.com/Veraticus/layoutguide/internal/service"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse past layout guide runs",
		Long: `Every generate run is recorded in a local SQLite database
(database.path, default ~/.local/share/layoutguide/history.db).`,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE:  runHistoryList,
	}
	list.Flags().IntP("limit", "n", 20, "maximum number of runs to show")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryDelete,
	}
	del.Flags().BoolP("yes", "y", false, "delete without asking for confirmation")

	cmd.AddCommand(list)
	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show the nets recorded for a run",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryShow,
	})
	cmd.AddCommand(del)

	return cmd
}

func withStorage(cmd *cobra.Command, fn func(store service.RunStorage) error) error {
	store, err := openStorage(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Warn("Failed to close history", "error", closeErr)
		}
	}()
	return fn(store)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	out := cmd.OutOrStdout()

	return withStorage(cmd, func(store service.RunStorage) error {
		runs, err := store.ListRuns(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(out, cli.FormatInfo("No runs recorded yet"))
			return nil
		}
		for _, run := range runs {
			fmt.Fprintln(out, cli.FormatRunLine(run))
		}
		return nil
	})
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	return withStorage(cmd, func(store service.RunStorage) error {
		run, err := store.GetRun(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Fprintln(out, cli.RenderBox(cli.ChartIcon+" Run "+run.ID, describeRun(run)))
		fmt.Fprintln(out, cli.RenderCategoryTable(run.CategoryCounts()))

		tw := newTabWriter(out)
		fmt.Fprintln(tw, "NET\tCATEGORY\tSIGNAL TYPE\tRULE\tIMPEDANCE")
		for _, net := range run.Nets {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", net.NetName, net.Category, net.SignalType, net.RuleMatched, net.Impedance)
		}
		return tw.Flush()
	})
}

func describeRun(run *model.Run) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  • Started: %s\n", run.StartedAt.Local().Format(time.DateTime))
	fmt.Fprintf(&b, "  • Time taken: %s\n", run.Duration().Round(time.Millisecond))
	fmt.Fprintf(&b, "  • Netlist: %s\n", run.NetlistPath)
	fmt.Fprintf(&b, "  • Output: %s\n", run.OutputPath)
	fmt.Fprintf(&b, "  • Rules: %s\n", run.ConfigSource)
	fmt.Fprintf(&b, "  • Nets: %d", run.NetCount)
	return b.String()
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	yes, _ := cmd.Flags().GetBool("yes")

	return withStorage(cmd, func(store service.RunStorage) error {
		ctx := cmd.Context()

		run, err := store.GetRun(ctx, args[0])
		if err != nil {
			return err
		}

		if !yes {
			confirmer := cli.NewConfirmer(cmd.InOrStdin(), out)
			ok, confirmErr := confirmer.Confirm(ctx, fmt.Sprintf("Delete run %s (%s)?", run.ID, run.NetlistPath))
			if confirmErr != nil {
				return confirmErr
			}
			if !ok {
				fmt.Fprintln(out, cli.FormatInfo("Nothing deleted"))
				return nil
			}
		}

		if err := store.DeleteRun(ctx, run.ID); err != nil {
			return err
		}
		fmt.Fprintln(out, cli.FormatSuccess("Deleted run "+run.ID))
		return nil
	})
}
