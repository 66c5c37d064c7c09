package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/layoutguide/internal/cli"
	"github.com/Veraticus/layoutguide/internal/common"
	"github.com/Veraticus/layoutguide/internal/template"
	"github.com/spf13/cobra"
)

func templateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Inspect layout guide template workbooks",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "validate <xlsx>",
		Short: "Check that a template has every required column",
		Args:  cobra.ExactArgs(1),
		RunE:  runTemplateValidate,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "info <xlsx>",
		Short: "Show a template's columns, rows and size",
		Args:  cobra.ExactArgs(1),
		RunE:  runTemplateInfo,
	})

	return cmd
}

func runTemplateValidate(cmd *cobra.Command, args []string) error {
	valid, missing, err := template.ValidateTemplate(args[0])
	if err != nil {
		return err
	}
	if !valid {
		return fmt.Errorf("%w: %s is missing columns: %s", common.ErrTemplateInvalid, args[0], strings.Join(missing, ", "))
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Template has all required columns"))
	return nil
}

func runTemplateInfo(cmd *cobra.Command, args []string) error {
	info, err := template.TemplateInfo(args[0])
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  • Path: %s\n", info.Path)
	fmt.Fprintf(&b, "  • Size: %s\n", info.HumanSize())
	fmt.Fprintf(&b, "  • Data rows: %d\n", info.RowCount)
	fmt.Fprintf(&b, "  • Columns: %s", strings.Join(info.Columns, ", "))
	if !info.Valid {
		b.WriteString("\n" + cli.FormatWarning("Missing columns: "+strings.Join(info.MissingColumns, ", ")))
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox(cli.FolderIcon+" Template", b.String()))
	return nil
}
