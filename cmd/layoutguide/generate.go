package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/Veraticus/layoutguide/internal/cli"
	"github.com/Veraticus/layoutguide/internal/common"
	"github.com/Veraticus/layoutguide/internal/config"
	"github.com/Veraticus/layoutguide/internal/pipeline"
	"github.com/Veraticus/layoutguide/internal/service"
	"github.com/Veraticus/layoutguide/internal/sheets"
	"github.com/spf13/cobra"
)

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate <netlist>...",
		Aliases: []string{"gen"},
		Short:   "Generate layout guides from netlists",
		Long: `Parse each netlist, classify its nets, apply the layout rules and write a
layout guide workbook.

With one netlist, --output names the workbook. With several, --output names the
directory the guides are written to, one <netlist>_layout_guide.xlsx per file.

Examples:
  layoutguide generate board.net
  layoutguide generate board.net -o guide.xlsx -t template.xlsx
  layoutguide generate main.net io.net -o guides/ --rules-config rules.yaml
  layoutguide generate board.net --sheets`,
		Args: cobra.MinimumNArgs(1),
		RunE: runGenerate,
	}

	cmd.Flags().StringP("output", "o", "", "output workbook, or directory when several netlists are given")
	cmd.Flags().StringP("template", "t", "", "template workbook whose header row is checked before writing")
	addRulesFlags(cmd)
	cmd.Flags().Bool("sheets", false, "write to Google Sheets instead of a local workbook")
	cmd.Flags().Bool("no-history", false, "do not record the run in the history database")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	output, _ := cmd.Flags().GetString("output")
	templatePath, _ := cmd.Flags().GetString("template")
	useSheets, _ := cmd.Flags().GetBool("sheets")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	cfg, err := loadRulesConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}

	runner, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	handler := cli.NewInterruptHandler(out)
	ctx = handler.HandleInterrupts(ctx)

	var writer service.GuideWriter
	if useSheets {
		sheetsConfig, sheetsErr := config.LoadSheetsConfig()
		if sheetsErr != nil {
			return fmt.Errorf("failed to load Google Sheets configuration: %w", sheetsErr)
		}
		sheetsWriter, sheetsErr := sheets.NewWriter(ctx, *sheetsConfig, slog.Default())
		if sheetsErr != nil {
			return fmt.Errorf("failed to create Google Sheets writer: %w", sheetsErr)
		}
		writer = sheetsWriter
	}

	var store service.RunStorage
	if !noHistory {
		store, err = openStorage(ctx)
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer func() {
			if closeErr := store.Close(); closeErr != nil {
				slog.Warn("Failed to close history", "error", closeErr)
			}
		}()
	}

	multiple := len(args) > 1
	var progress *cli.Progress
	if multiple {
		progress = cli.NewProgress(cmd.ErrOrStderr(), len(args), "Generating layout guides...")
	}

	var (
		results []*pipeline.Result
		failed  []string
	)
	for _, netlistPath := range args {
		if progress != nil {
			progress.Describe(filepath.Base(netlistPath))
		}

		result, runErr := runner.Run(ctx, pipeline.Request{
			Writer:       writer,
			NetlistPath:  netlistPath,
			OutputPath:   outputPathFor(netlistPath, output, multiple),
			TemplatePath: templatePath,
		})
		if runErr != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("generation interrupted: %w", ctx.Err())
			}
			if !multiple {
				return runErr
			}
			common.LogError(runErr, "Failed to generate layout guide", common.Fields{"netlist": netlistPath})
			failed = append(failed, netlistPath)
			progress.Step()
			continue
		}

		results = append(results, result)
		handler.SetProgress(len(results), len(args))

		if store != nil {
			run := result.Run()
			if saveErr := store.SaveRun(ctx, run); saveErr != nil {
				slog.Warn("Failed to record run", "netlist", netlistPath, "error", saveErr)
			} else {
				common.LogInfo("Recorded run", common.Fields{"id": run.ID, "nets": run.NetCount})
			}
		}
		if progress != nil {
			progress.Step()
		}
	}

	for _, result := range results {
		fmt.Fprintln(out, cli.RenderResult(result))
	}

	if len(failed) > 0 {
		return fmt.Errorf("failed to generate %d of %d layout guides: %s",
			len(failed), len(args), strings.Join(failed, ", "))
	}
	if multiple {
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Generated %d layout guides", len(results))))
	}
	return nil
}
