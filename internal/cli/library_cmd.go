package cli

import (
	"fmt"

	"github.com/alexanderramin/waterfall/internal/cli/formatter"
	"github.com/alexanderramin/waterfall/internal/domain"
	"github.com/alexanderramin/waterfall/internal/plandoc"
	"github.com/spf13/cobra"
)

func newLibraryCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "library",
		Aliases: []string{"lib"},
		Short:   "Keep named plans with revision history",
	}
	cmd.AddCommand(
		newLibrarySaveCmd(a),
		newLibraryListCmd(a),
		newLibraryOpenCmd(a),
		newLibraryHistoryCmd(a),
		newLibraryRemoveCmd(a),
	)
	return cmd
}

func newLibrarySaveCmd(a *App) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "save FILE",
		Short: "Store a plan file; saving an existing name adds a revision",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.library()
			if err != nil {
				return err
			}
			doc, err := plandoc.ReadFile(args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = doc.NameOr(domain.DefaultProjectName)
			}
			sum, err := lib.Save(cmd.Context(), name, doc)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Saved %s (revision %d)", formatter.Bold(sum.Name), sum.Revisions)))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "library name (default: the plan's project name)")
	return cmd
}

func newLibraryListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored plans",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.library()
			if err != nil {
				return err
			}
			plans, err := lib.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLibraryList(plans))
			return nil
		},
	}
}

func newLibraryOpenCmd(a *App) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "open NAME|ID",
		Short: "Print a stored plan, or write it out with -o",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.library()
			if err != nil {
				return err
			}
			doc, err := lib.Open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if output != "" {
				path, err := plandoc.WriteFile(output, doc)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, formatter.Success("Wrote "+formatter.Bold(path)))
				return nil
			}
			p, err := plandoc.Decode(doc)
			if err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatPlan(p))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the plan to `FILE`")
	return cmd
}

func newLibraryHistoryCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history NAME|ID",
		Short: "List the saved revisions of a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.library()
			if err != nil {
				return err
			}
			revs, err := lib.History(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(args[0], revs))
			return nil
		},
	}
}

func newLibraryRemoveCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove NAME|ID",
		Aliases: []string{"rm"},
		Short:   "Delete a stored plan and its revisions",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.library()
			if err != nil {
				return err
			}
			if err := lib.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Removed "+formatter.Bold(args[0])))
			return nil
		},
	}
}
