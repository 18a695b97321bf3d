package cli

import (
	"errors"

	"github.com/alexanderramin/waterfall/internal/app"
	"github.com/spf13/cobra"
)

// App holds the use cases CLI commands and the TUI run against.
type App struct {
	// Generator turns prompts into plans. Usually the offline template
	// generator, optionally behind a model-backed one.
	Generator app.PlanGenerator

	// Library is the sqlite plan library; nil disables the library commands.
	Library app.LibraryUseCase

	Observer app.UseCaseObserver

	// IsInteractive reports whether stdin is a terminal. When it is, the
	// bare command opens the editor.
	IsInteractive func() bool
}

var errNoLibrary = errors.New("plan library is not configured")

func (a *App) newController(opts ...app.ControllerOption) *app.Controller {
	return app.NewController(append([]app.ControllerOption{app.WithObserver(a.Observer)}, opts...)...)
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) library() (app.LibraryUseCase, error) {
	if a.Library == nil {
		return nil, errNoLibrary
	}
	return a.Library, nil
}

// NewRootCmd creates the top-level "waterfall" command and registers all
// subcommands against the provided App.
func NewRootCmd(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "waterfall",
		Short:         "Waterfall project planner",
		Long:          "Generate phase/task/subtask project plans from a short description, edit them, and keep them in a local library.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.interactive() {
				return runTUI(cmd.Context(), a, "")
			}
			return cmd.Help()
		},
	}

	root.AddCommand(
		newGenerateCmd(a),
		newNewCmd(a),
		newShowCmd(a),
		newPhaseCmd(a),
		newTaskCmd(a),
		newSubtaskCmd(a),
		newTemplateCmd(a),
		newLibraryCmd(a),
		newTUICmd(a),
	)

	return root
}
