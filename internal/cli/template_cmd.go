package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/waterfall/internal/cli/formatter"
	"github.com/alexanderramin/waterfall/internal/template"
	"github.com/spf13/cobra"
)

func newTemplateCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Browse plan templates",
	}

	cmd.AddCommand(
		newTemplateListCmd(),
		newTemplateShowCmd(),
		newTemplateValidateCmd(),
	)

	return cmd
}

func newTemplateListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List built-in templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTemplateList(template.All()))
			return nil
		},
	}
}

func newTemplateShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "show KEY",
		Short:     "Show a template's phases and tasks",
		Args:      cobra.ExactArgs(1),
		ValidArgs: template.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ok := template.Get(args[0])
			if !ok {
				return fmt.Errorf("unknown template %q (available: %s)", args[0], strings.Join(template.Keys(), ", "))
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTemplateShow(t))
			return nil
		},
	}
}

func newTemplateValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a template definition file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := template.LoadFile(args[0])
			if err != nil {
				return err
			}
			errs := template.Validate(t)
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatValidation(args[0], errs))
			if len(errs) > 0 {
				return fmt.Errorf("template %s is invalid", args[0])
			}
			return nil
		},
	}
}
