package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/waterfall/internal/app"
)

// Messages views send to the appModel.

type pushViewMsg struct {
	view View
}

type popViewMsg struct{}

// statusMsg replaces the status line.
type statusMsg struct {
	text string
}

// wizardCompleteMsg is sent when a form completes or is cancelled. The
// appModel pops the form, then runs nextCmd.
type wizardCompleteMsg struct {
	nextCmd tea.Cmd
}

// refreshViewMsg tells every view on the stack to re-read the controller.
// reset is set when a different project was loaded.
type refreshViewMsg struct {
	reset bool
}

// editMsg carries a plan mutation to the UI goroutine, the only place the
// controller is touched. apply returns the status line to show.
// reset marks edits that replace the whole project.
type editMsg struct {
	apply func(*app.Controller) (string, error)
	reset bool
}

// generateRequestMsg asks the appModel to dispatch a generation.
type generateRequestMsg struct {
	prompt string
}

// generationDoneMsg carries one finished generation back to the UI goroutine.
type generationDoneMsg struct {
	completion app.Completion
	err        error
}

func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

func popView() tea.Cmd {
	return func() tea.Msg { return popViewMsg{} }
}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func errorStatusCmd(err error) tea.Cmd {
	return statusCmd(errorText(err))
}

func editCmd(apply func(*app.Controller) (string, error)) tea.Cmd {
	return func() tea.Msg { return editMsg{apply: apply} }
}

func loadCmd(apply func(*app.Controller) (string, error)) tea.Cmd {
	return func() tea.Msg { return editMsg{apply: apply, reset: true} }
}

// wizardDone pops the form and then runs next.
func wizardDone(next tea.Cmd) tea.Msg {
	return wizardCompleteMsg{nextCmd: next}
}
