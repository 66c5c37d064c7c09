package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Veraticus/layoutguide/internal/cli"
	"github.com/Veraticus/layoutguide/internal/common"
	"github.com/Veraticus/layoutguide/internal/config"
	"github.com/spf13/cobra"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create, check and show rules configuration files",
	}

	cmd.AddCommand(configInitCmd())
	cmd.AddCommand(configValidateCmd())
	cmd.AddCommand(configShowCmd())

	return cmd
}

func configInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init <path>",
		Short: "Write a starter rules configuration",
		Long: `Write a small starter rules file with one custom classification rule and its
layout rule. Use --defaults to write the complete built-in rule set instead.`,
		Args: cobra.ExactArgs(1),
		RunE: runConfigInit,
	}
	cmd.Flags().Bool("defaults", false, "write the complete built-in rule set")
	return cmd
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.ExpandPath(args[0])
	full, _ := cmd.Flags().GetBool("defaults")

	var err error
	if full {
		if _, statErr := os.Stat(path); statErr == nil {
			return fmt.Errorf("%s already exists", path)
		}
		err = config.Save(config.Default(), path)
	} else {
		err = config.WriteUserTemplate(path)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Wrote rules configuration to "+path))
	return nil
}

func configValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <path>",
		Short: "Load a rules configuration and report the first structural error",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return describeConfigError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(config.Summary(cfg)))
			return nil
		},
	}
}

func configShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [path]",
		Short: "Summarize a rules configuration, or the built-in rules when no path is given",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigShow,
	}
	cmd.Flags().Bool("full", false, "print the complete configuration as YAML")
	return cmd
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return describeConfigError(err)
	}

	if full, _ := cmd.Flags().GetBool("full"); full {
		data, marshalErr := config.Marshal(cfg)
		if marshalErr != nil {
			return marshalErr
		}
		_, err = out.Write(data)
		return err
	}

	fmt.Fprintln(out, cli.FormatInfo(config.Summary(cfg)))
	return nil
}

// describeConfigError points users at config init when the file is missing.
func describeConfigError(err error) error {
	if errors.Is(err, common.ErrMissingConfig) {
		return common.NewUserError("rules file not found; create one with 'layoutguide config init <path>'", err)
	}
	return err
}
