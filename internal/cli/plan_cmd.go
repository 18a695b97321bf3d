package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/waterfall/internal/cli/formatter"
	"github.com/alexanderramin/waterfall/internal/domain"
	"github.com/alexanderramin/waterfall/internal/generation"
	"github.com/alexanderramin/waterfall/internal/plandoc"
	"github.com/alexanderramin/waterfall/internal/template"
	"github.com/spf13/cobra"
)

func newGenerateCmd(a *App) *cobra.Command {
	var (
		output      string
		templateKey string
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:   "generate PROMPT...",
		Short: "Generate a plan from a project description",
		Example: `  waterfall generate "Build a mobile app"
  waterfall generate "New office building" -o office.json
  waterfall generate --template construction -o house`,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.TrimSpace(strings.Join(args, " "))
			ctrl := a.newController()

			if templateKey != "" {
				t, ok := template.Get(templateKey)
				if !ok {
					return fmt.Errorf("unknown template %q (available: %s)", templateKey, strings.Join(template.Keys(), ", "))
				}
				if err := ctrl.Open(generation.FromTemplate(t)); err != nil {
					return err
				}
			} else {
				if prompt == "" {
					return domain.ErrEmptyPrompt
				}
				stop := func() {}
				if a.interactive() {
					stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Generating plan...")
				}
				err := ctrl.Generate(cmd.Context(), a.Generator, prompt)
				stop()
				if err != nil {
					return err
				}
			}

			doc, err := ctrl.Save()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch {
			case output != "":
				path, err := plandoc.WriteFile(output, doc)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, formatter.Success("Wrote "+formatter.Bold(path)))
			case asJSON:
				data, err := plandoc.Marshal(doc)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
			default:
				fmt.Fprint(out, formatter.FormatPlan(ctrl.Project()))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the plan to `FILE` (.json is appended when missing)")
	cmd.Flags().StringVarP(&templateKey, "template", "t", "", "copy a built-in template instead of classifying a prompt")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the plan document as JSON")
	cmd.MarkFlagsMutuallyExclusive("output", "json")
	return cmd
}

func newNewCmd(a *App) *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:   "new FILE",
		Short: "Create an empty plan file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := domain.NewBlankProject()
			if name != "" {
				p.Name = name
			}
			if description != "" {
				p.Description = description
			}
			path, err := plandoc.WriteFile(args[0], plandoc.Encode(p))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Created "+formatter.Bold(path)))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "project name")
	cmd.Flags().StringVar(&description, "description", "", "project description")
	return cmd
}

func newShowCmd(a *App) *cobra.Command {
	phase := newPositionFlag()
	cmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Print a plan, or one phase's rows with --phase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := plandoc.ReadFile(args[0])
			if err != nil {
				return err
			}
			ctrl := a.newController()
			if err := ctrl.Open(doc); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !phase.set {
				fmt.Fprint(out, formatter.FormatPlan(ctrl.Project()))
				return nil
			}
			if err := ctrl.SelectPhase(phase.index); err != nil {
				return err
			}
			fmt.Fprintln(out, formatter.FormatHeader(ctrl.CurrentPhaseHeader()))
			fmt.Fprintln(out)
			fmt.Fprint(out, formatter.FormatRows(ctrl.CurrentRows()))
			return nil
		},
	}
	cmd.Flags().Var(phase, "phase", "show the rows of phase `N` (1-based)")
	return cmd
}
