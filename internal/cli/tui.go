package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/waterfall/internal/app"
	"github.com/alexanderramin/waterfall/internal/generation"
	"github.com/alexanderramin/waterfall/internal/plandoc"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// startupPrompt seeds the editor when no file is given.
const startupPrompt = "Software Development"

func newTUICmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui [FILE]",
		Short: "Open the interactive plan editor",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runTUI(cmd.Context(), a, path)
		},
	}
}

// loadController builds the editor's controller. With a path it opens that
// plan; without one it starts from the offline software template.
func loadController(ctx context.Context, a *App, path string) (*app.Controller, error) {
	var opts []app.ControllerOption
	if a.Generator != nil {
		opts = append(opts, app.WithDispatcher(app.NewDispatcher(a.Generator)))
	}
	ctrl := a.newController(opts...)

	if path == "" {
		if err := ctrl.Generate(ctx, generation.OfflineGenerator{}, startupPrompt); err != nil {
			return nil, err
		}
		return ctrl, nil
	}
	doc, err := plandoc.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := ctrl.Open(doc); err != nil {
		return nil, err
	}
	return ctrl, nil
}

func runTUI(ctx context.Context, a *App, path string) error {
	ctrl, err := loadController(ctx, a, path)
	if err != nil {
		return err
	}
	m := newAppModel(newState(a, ctrl, path))
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("running editor: %w", err)
	}
	return nil
}
