package cli

import (
	"fmt"

	"github.com/alexanderramin/waterfall/internal/app"
	"github.com/alexanderramin/waterfall/internal/cli/formatter"
	"github.com/alexanderramin/waterfall/internal/plandoc"
	"github.com/spf13/cobra"
)

// editPlan opens path, selects phase when one is given, applies edit and
// writes the plan back in place. The phase's rows are printed afterwards so
// row numbers for the next edit are visible.
func editPlan(cmd *cobra.Command, a *App, path string, phase *positionFlag, edit func(*app.Controller) (string, error)) error {
	path = plandoc.WithExtension(path)
	doc, err := plandoc.ReadFile(path)
	if err != nil {
		return err
	}
	ctrl := a.newController()
	if err := ctrl.Open(doc); err != nil {
		return err
	}
	if phase != nil && phase.set {
		if err := ctrl.SelectPhase(phase.index); err != nil {
			return err
		}
	}

	msg, err := edit(ctrl)
	if err != nil {
		return err
	}
	saved, err := ctrl.Save()
	if err != nil {
		return err
	}
	if _, err := plandoc.WriteFile(path, saved); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, formatter.Success(msg))
	if _, ok := ctrl.SelectedPhase(); ok {
		fmt.Fprintln(out)
		fmt.Fprint(out, formatter.FormatRows(ctrl.CurrentRows()))
	}
	return nil
}

func newPhaseCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phase",
		Short: "Edit the phases of a plan file",
	}
	cmd.AddCommand(newPhaseAddCmd(a))
	return cmd
}

func newPhaseAddCmd(a *App) *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:   "add FILE",
		Short: "Append an empty phase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editPlan(cmd, a, args[0], nil, func(c *app.Controller) (string, error) {
				i, err := c.AddPhase(name, description)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Added phase %d: %s", i+1, formatter.Bold(name)), nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "phase name")
	cmd.Flags().StringVar(&description, "description", "", "phase description")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newTaskCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Edit the rows of a phase in a plan file",
	}
	cmd.AddCommand(
		newTaskAddCmd(a),
		newTaskRenameCmd(a),
		newTaskToggleCmd(a),
		newTaskDeleteCmd(a),
	)
	return cmd
}

func newTaskAddCmd(a *App) *cobra.Command {
	phase := newPositionFlag()
	var (
		title    string
		assignee string
		days     = positiveIntFlag(1)
	)
	cmd := &cobra.Command{
		Use:   "add FILE",
		Short: "Append a task to a phase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editPlan(cmd, a, args[0], phase, func(c *app.Controller) (string, error) {
				t, err := c.SubmitTask(title, int(days), assignee)
				if err != nil {
					return "", err
				}
				return "Added task " + formatter.Bold(t.Title), nil
			})
		},
	}
	addPhaseFlag(cmd, phase)
	cmd.Flags().StringVar(&title, "title", "", "task title")
	cmd.Flags().Var(&days, "days", "duration in days")
	cmd.Flags().StringVar(&assignee, "assignee", "", "assignee (default \"Unassigned\")")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTaskRenameCmd(a *App) *cobra.Command {
	phase, row := newPositionFlag(), newPositionFlag()
	var title string
	cmd := &cobra.Command{
		Use:   "rename FILE",
		Short: "Retitle a task or subtask row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editPlan(cmd, a, args[0], phase, func(c *app.Controller) (string, error) {
				if err := c.RenameRow(row.index, title); err != nil {
					return "", err
				}
				return fmt.Sprintf("Renamed row %d", row.index+1), nil
			})
		},
	}
	addPhaseFlag(cmd, phase)
	addRowFlag(cmd, row)
	cmd.Flags().StringVar(&title, "title", "", "new title")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTaskToggleCmd(a *App) *cobra.Command {
	phase, row := newPositionFlag(), newPositionFlag()
	cmd := &cobra.Command{
		Use:   "toggle FILE",
		Short: "Flip the completed state of a row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editPlan(cmd, a, args[0], phase, func(c *app.Controller) (string, error) {
				done, err := c.ToggleRow(row.index)
				if err != nil {
					return "", err
				}
				state := "open"
				if done {
					state = "done"
				}
				return fmt.Sprintf("Row %d marked %s", row.index+1, state), nil
			})
		},
	}
	addPhaseFlag(cmd, phase)
	addRowFlag(cmd, row)
	return cmd
}

func newTaskDeleteCmd(a *App) *cobra.Command {
	phase, row := newPositionFlag(), newPositionFlag()
	cmd := &cobra.Command{
		Use:   "delete FILE",
		Short: "Delete a row; deleting a task removes its subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editPlan(cmd, a, args[0], phase, func(c *app.Controller) (string, error) {
				r, err := c.SelectRow(row.index)
				if err != nil {
					return "", err
				}
				if err := c.Delete(r); err != nil {
					return "", err
				}
				return "Deleted " + formatter.Bold(r.Title()), nil
			})
		},
	}
	addPhaseFlag(cmd, phase)
	addRowFlag(cmd, row)
	return cmd
}

func newSubtaskCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subtask",
		Short: "Edit subtasks in a plan file",
	}
	cmd.AddCommand(newSubtaskAddCmd(a))
	return cmd
}

func newSubtaskAddCmd(a *App) *cobra.Command {
	phase, row := newPositionFlag(), newPositionFlag()
	var (
		title string
		days  = positiveIntFlag(1)
	)
	cmd := &cobra.Command{
		Use:   "add FILE",
		Short: "Add a subtask under the task at --row",
		Long:  "Add a subtask under the task at --row. The parent task's duration is not recomputed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editPlan(cmd, a, args[0], phase, func(c *app.Controller) (string, error) {
				s, err := c.SubmitSubtask(row.index, title, int(days))
				if err != nil {
					return "", err
				}
				return "Added subtask " + formatter.Bold(s.Title), nil
			})
		},
	}
	addPhaseFlag(cmd, phase)
	addRowFlag(cmd, row)
	cmd.Flags().StringVar(&title, "title", "", "subtask title")
	cmd.Flags().Var(&days, "days", "duration in days")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}
