package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/waterfall/internal/app"
	"github.com/alexanderramin/waterfall/internal/cli/formatter"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// appModel is the root bubbletea Model for the TUI. It owns the view stack
// and is the only place controller state changes outside key handling.
type appModel struct {
	state     *SharedState
	viewStack []View
	status    string
	quitting  bool
}

func newAppModel(state *SharedState) appModel {
	return appModel{
		state:     state,
		viewStack: []View{newEditorView(state)},
	}
}

func (m *appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

func (m *appModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

func (m *appModel) popView() {
	if len(m.viewStack) > 1 {
		m.viewStack = m.viewStack[:len(m.viewStack)-1]
	}
}

// broadcast sends msg to every view on the stack, bottom to top.
func (m *appModel) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i, v := range m.viewStack {
		updated, cmd := v.Update(msg)
		m.viewStack[i] = updated.(View)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m appModel) Init() tea.Cmd {
	if v := m.activeView(); v != nil {
		return v.Init()
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		return m, m.broadcast(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pushViewMsg:
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case popViewMsg:
		m.popView()
		return m, nil

	case wizardCompleteMsg:
		m.popView()
		return m, msg.nextCmd

	case statusMsg:
		m.status = msg.text
		return m, nil

	case editMsg:
		text, err := msg.apply(m.state.Ctrl)
		if err != nil {
			m.status = errorText(err)
		} else {
			m.status = text
		}
		return m, m.broadcast(refreshViewMsg{reset: msg.reset && err == nil})

	case generateRequestMsg:
		return m, m.requestGeneration(msg.prompt)

	case generationDoneMsg:
		return m, m.applyGeneration(msg)

	case refreshViewMsg:
		return m, m.broadcast(msg)
	}

	return m, m.forward(msg)
}

// forward hands msg to the top view only.
func (m *appModel) forward(msg tea.Msg) tea.Cmd {
	v := m.activeView()
	if v == nil {
		return nil
	}
	updated, cmd := v.Update(msg)
	m.setActiveView(updated.(View))
	return cmd
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	// Forms receive every key, including q.
	if v := m.activeView(); v != nil && v.ID() == ViewForm {
		return m, m.forward(msg)
	}

	switch {
	case msg.String() == "q":
		m.quitting = true
		return m, tea.Quit
	case msg.Type == tea.KeyEsc:
		m.popView()
		return m, nil
	}

	// Any other key clears a stale status line before the view acts.
	m.status = ""
	return m, m.forward(msg)
}

// requestGeneration dispatches prompt and waits for its completion off the
// UI goroutine.
func (m *appModel) requestGeneration(prompt string) tea.Cmd {
	ctrl := m.state.Ctrl
	if _, err := ctrl.RequestGeneration(context.Background(), prompt); err != nil {
		m.status = errorText(err)
		return nil
	}
	m.state.Generating++
	m.status = formatter.StylePurple.Render("Generating plan...")
	d := ctrl.Dispatcher()
	return func() tea.Msg {
		comp, err := d.Wait(context.Background())
		return generationDoneMsg{completion: comp, err: err}
	}
}

func (m *appModel) applyGeneration(msg generationDoneMsg) tea.Cmd {
	m.state.Generating = max(m.state.Generating-1, 0)
	if msg.err != nil {
		m.status = errorText(msg.err)
		return nil
	}
	applied, err := m.state.Ctrl.ApplyCompletion(msg.completion)
	switch {
	case err != nil:
		m.status = errorText(err)
		return nil
	case !applied:
		m.status = formatter.Dim(fmt.Sprintf("Discarded an older plan for %q.", msg.completion.Prompt))
		return nil
	}
	m.state.FilePath = ""
	m.status = formatter.Success(fmt.Sprintf("Generated %s", formatter.Bold(m.state.Ctrl.Project().Name)))
	return m.broadcast(refreshViewMsg{reset: true})
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.renderHeader()}
	if v := m.activeView(); v != nil {
		sections = append(sections, v.View())
	}
	sections = append(sections, m.renderStatusBar())
	result := strings.Join(sections, "\n")

	// Pad to terminal height so the alt-screen renderer leaves no stale lines.
	if m.state.Height > 0 {
		if lines := strings.Count(result, "\n") + 1; lines < m.state.Height {
			result += strings.Repeat("\n", m.state.Height-lines)
		}
	}
	return result
}

func (m *appModel) renderHeader() string {
	header := formatter.StylePurple.Render("waterfall")

	var crumbs []string
	for _, v := range m.viewStack {
		if t := v.Title(); t != "" {
			crumbs = append(crumbs, t)
		}
	}
	if len(crumbs) > 0 {
		header += " " + formatter.Dim("›") + " " + formatter.Dim(strings.Join(crumbs, " › "))
	}
	header += "  " + formatter.Dim("[") + formatter.StyleGreen.Render(m.state.FileLabel()) + formatter.Dim("]")
	if m.state.Generating > 0 {
		header += "  " + formatter.StylePurple.Render("⠿ generating")
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return header + "\n" + sep
}

func (m *appModel) renderStatusBar() string {
	var hints []string
	if v := m.activeView(); v != nil {
		for _, b := range v.ShortHelp() {
			hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
		}
		if v.ID() != ViewForm {
			hints = append(hints, formatter.Dim("q: quit"))
		}
	}

	sep := lipgloss.NewStyle().Foreground(formatter.ColorDim).Render(strings.Repeat("─", max(m.state.Width, 20)))
	return m.status + "\n" + sep + "\n" + strings.Join(hints, "  ")
}

// newState builds the TUI state around ctrl.
func newState(a *App, ctrl *app.Controller, path string) *SharedState {
	return &SharedState{App: a, Ctrl: ctrl, FilePath: path}
}
