package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/waterfall/internal/app"
	"github.com/alexanderramin/waterfall/internal/cli/formatter"
	"github.com/alexanderramin/waterfall/internal/plandoc"
	"github.com/alexanderramin/waterfall/internal/projection"
	tea "github.com/charmbracelet/bubbletea"
)

// Edits the editor queues after a form completes. Each runs on the UI
// goroutine against the controller and returns the status line.

func renameEdit(row projection.Row, title string) func(*app.Controller) (string, error) {
	return func(c *app.Controller) (string, error) {
		if err := c.Rename(row, title); err != nil {
			return "", err
		}
		return formatter.Success("Renamed to " + formatter.Bold(title)), nil
	}
}

func deleteEdit(row projection.Row) func(*app.Controller) (string, error) {
	return func(c *app.Controller) (string, error) {
		if err := c.Delete(row); err != nil {
			return "", err
		}
		return formatter.Success("Deleted " + formatter.Bold(row.Title())), nil
	}
}

func addTaskEdit(title string, days int, assignee string) func(*app.Controller) (string, error) {
	return func(c *app.Controller) (string, error) {
		t, err := c.SubmitTask(title, days, assignee)
		if err != nil {
			return "", err
		}
		return formatter.Success("Added task " + formatter.Bold(t.Title)), nil
	}
}

func addSubtaskEdit(row projection.Row, title string, days int) func(*app.Controller) (string, error) {
	return func(c *app.Controller) (string, error) {
		s, err := c.AddSubtaskTo(row, title, days)
		if err != nil {
			return "", err
		}
		return formatter.Success(fmt.Sprintf("Added subtask %s under %s", formatter.Bold(s.Title), row.Title())), nil
	}
}

// addPhaseEdit appends a phase and selects it.
func addPhaseEdit(name, description string) func(*app.Controller) (string, error) {
	return func(c *app.Controller) (string, error) {
		i, err := c.AddPhase(name, description)
		if err != nil {
			return "", err
		}
		if err := c.SelectPhase(i); err != nil {
			return "", err
		}
		return formatter.Success("Added phase " + formatter.Bold(name)), nil
	}
}

func newProjectEdit(state *SharedState) func(*app.Controller) (string, error) {
	return func(c *app.Controller) (string, error) {
		c.NewProject()
		state.FilePath = ""
		return formatter.Dim("Started a new project."), nil
	}
}

// openFileEdit replaces the project with the plan at path. A file that
// cannot be read or decoded leaves the current project in place.
func openFileEdit(state *SharedState, path string) func(*app.Controller) (string, error) {
	return func(c *app.Controller) (string, error) {
		doc, err := plandoc.ReadFile(path)
		if err != nil {
			return "", err
		}
		if err := c.Open(doc); err != nil {
			return "", err
		}
		state.FilePath = path
		return formatter.Success("Opened " + formatter.Bold(path)), nil
	}
}

func writeFileEdit(state *SharedState, path string) func(*app.Controller) (string, error) {
	return func(c *app.Controller) (string, error) {
		doc, err := c.Save()
		if err != nil {
			return "", err
		}
		written, err := plandoc.WriteFile(path, doc)
		if err != nil {
			return "", err
		}
		state.FilePath = written
		return formatter.Success("Saved to " + formatter.Bold(written)), nil
	}
}

// librarySaveCmd stores doc off the UI goroutine. doc must already be
// encoded; the controller is not touched here.
func librarySaveCmd(lib app.LibraryUseCase, name string, doc *plandoc.Document) tea.Cmd {
	return func() tea.Msg {
		sum, err := lib.Save(context.Background(), name, doc)
		if err != nil {
			return statusMsg{text: formatter.Error(err)}
		}
		return statusMsg{text: formatter.Success(fmt.Sprintf("Saved %s to the library (revision %d)", formatter.Bold(sum.Name), sum.Revisions))}
	}
}
