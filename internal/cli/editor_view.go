package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/waterfall/internal/cli/formatter"
	"github.com/alexanderramin/waterfall/internal/domain"
	"github.com/alexanderramin/waterfall/internal/projection"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type pane int

const (
	panePhases pane = iota
	paneRows
)

const phasePaneWidth = 32

// editorView is the main screen: the phase list on the left, the selected
// phase's header and flat task/subtask rows on the right.
type editorView struct {
	state       *SharedState
	focus       pane
	phaseCursor int
	rowCursor   int
}

func newEditorView(state *SharedState) *editorView {
	v := &editorView{state: state}
	v.sync(true)
	return v
}

func (v *editorView) ID() ViewID { return ViewEditor }

func (v *editorView) Title() string {
	return v.state.Ctrl.Project().Name
}

func (v *editorView) ShortHelp() []key.Binding {
	if v.focus == panePhases {
		return []key.Binding{
			key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "tasks")),
			key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "add phase")),
			key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "generate")),
			key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
			key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "write")),
			key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "phases")),
		key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "done")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "rename")),
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "add subtask")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
	}
}

func (v *editorView) Init() tea.Cmd { return nil }

// sync re-reads the controller. On reset the cursors go back to the top.
// Whenever the project has phases, one of them is selected.
func (v *editorView) sync(reset bool) {
	ctrl := v.state.Ctrl
	if reset {
		v.phaseCursor, v.rowCursor = 0, 0
	}
	phases := ctrl.Phases()
	if len(phases) == 0 {
		v.phaseCursor, v.rowCursor = 0, 0
		v.focus = panePhases
		return
	}
	if i, ok := ctrl.SelectedPhase(); ok {
		v.phaseCursor = i
	} else {
		v.phaseCursor = min(v.phaseCursor, len(phases)-1)
		_ = ctrl.SelectPhase(v.phaseCursor)
	}
	v.rowCursor = clamp(v.rowCursor, len(ctrl.CurrentRows()))
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	return min(i, n-1)
}

func (v *editorView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshViewMsg:
		v.sync(msg.reset)
		return v, nil
	case tea.KeyMsg:
		return v, v.handleKey(msg)
	}
	return v, nil
}

func (v *editorView) handleKey(msg tea.KeyMsg) tea.Cmd {
	ctrl := v.state.Ctrl
	switch msg.String() {
	case "up", "k":
		v.move(-1)
	case "down", "j":
		v.move(1)
	case "tab":
		if v.focus == panePhases {
			if _, ok := ctrl.SelectedPhase(); ok {
				v.focus = paneRows
			}
		} else {
			v.focus = panePhases
		}
	case "enter":
		if v.focus == panePhases {
			if _, ok := ctrl.SelectedPhase(); ok {
				v.focus = paneRows
			}
			return nil
		}
		return v.rename()
	case " ", "space":
		return v.toggle()
	case "a":
		return v.addTask()
	case "s":
		return v.addSubtask()
	case "x", "delete":
		return v.delete()
	case "p":
		return v.addPhase()
	case "g":
		return v.generate()
	case "n":
		return loadCmd(newProjectEdit(v.state))
	case "o":
		return v.open()
	case "w":
		return v.write()
	case "l":
		return v.saveToLibrary()
	}
	return nil
}

func (v *editorView) move(delta int) {
	ctrl := v.state.Ctrl
	if v.focus == panePhases {
		n := len(ctrl.Phases())
		next := clamp(v.phaseCursor+delta, n)
		if n == 0 || next == v.phaseCursor {
			return
		}
		if err := ctrl.SelectPhase(next); err == nil {
			v.phaseCursor, v.rowCursor = next, 0
		}
		return
	}
	v.rowCursor = clamp(v.rowCursor+delta, len(ctrl.CurrentRows()))
}

// currentRow captures the row under the cursor for a later edit.
func (v *editorView) currentRow() (projection.Row, error) {
	if _, ok := v.state.Ctrl.SelectedPhase(); !ok {
		return projection.Row{}, domain.ErrNoPhaseSelected
	}
	return v.state.Ctrl.SelectRow(v.rowCursor)
}

func (v *editorView) toggle() tea.Cmd {
	if v.focus != paneRows {
		return nil
	}
	if _, err := v.state.Ctrl.ToggleRow(v.rowCursor); err != nil {
		return errorStatusCmd(err)
	}
	return nil
}

func (v *editorView) rename() tea.Cmd {
	row, err := v.currentRow()
	if err != nil {
		return errorStatusCmd(err)
	}
	title := row.Title()
	return startWizard("Rename", textForm("New title", row.Title(), true, &title), func() tea.Cmd {
		return editCmd(renameEdit(row, title))
	})
}

func (v *editorView) addTask() tea.Cmd {
	if _, ok := v.state.Ctrl.SelectedPhase(); !ok {
		return errorStatusCmd(domain.ErrNoPhaseSelected)
	}
	var title, days, assignee string
	return startWizard("Add Task", taskForm(&title, &days, &assignee), func() tea.Cmd {
		return editCmd(addTaskEdit(title, parsePositiveInt(days, domain.DefaultDurationDays), assignee))
	})
}

func (v *editorView) addSubtask() tea.Cmd {
	row, err := v.currentRow()
	if err != nil {
		return errorStatusCmd(err)
	}
	if row.Kind != projection.KindTask {
		return errorStatusCmd(domain.ErrNotATaskRow)
	}
	var title, days string
	return startWizard("Add Subtask", subtaskForm(&title, &days), func() tea.Cmd {
		return editCmd(addSubtaskEdit(row, title, parsePositiveInt(days, domain.DefaultDurationDays)))
	})
}

func (v *editorView) delete() tea.Cmd {
	if v.focus != paneRows {
		return nil
	}
	row, err := v.currentRow()
	if err != nil {
		return errorStatusCmd(err)
	}
	prompt := fmt.Sprintf("Delete %q?", row.Title())
	if row.Kind == projection.KindTask && len(row.Task.Subtasks) > 0 {
		prompt = fmt.Sprintf("Delete %q and its %d subtask(s)?", row.Title(), len(row.Task.Subtasks))
	}
	var confirmed bool
	return startWizard("Confirm Delete", confirmForm(prompt, &confirmed), func() tea.Cmd {
		if !confirmed {
			return statusCmd(formatter.Dim("Cancelled."))
		}
		return editCmd(deleteEdit(row))
	})
}

func (v *editorView) addPhase() tea.Cmd {
	var name, description string
	return startWizard("Add Phase", phaseForm(&name, &description), func() tea.Cmd {
		return editCmd(addPhaseEdit(name, description))
	})
}

func (v *editorView) generate() tea.Cmd {
	var prompt string
	form := textForm("Describe the project", "e.g. Build a mobile app", true, &prompt)
	return startWizard("Generate", form, func() tea.Cmd {
		return func() tea.Msg { return generateRequestMsg{prompt: prompt} }
	})
}

func (v *editorView) open() tea.Cmd {
	path := v.state.FilePath
	return startWizard("Open", textForm("Plan file", "plan.json", true, &path), func() tea.Cmd {
		return loadCmd(openFileEdit(v.state, strings.TrimSpace(path)))
	})
}

func (v *editorView) write() tea.Cmd {
	path := v.state.FilePath
	if path == "" {
		path = defaultFileName(v.state.Ctrl.Project().Name)
	}
	return startWizard("Write", textForm("Save as", "plan.json", true, &path), func() tea.Cmd {
		return editCmd(writeFileEdit(v.state, strings.TrimSpace(path)))
	})
}

func (v *editorView) saveToLibrary() tea.Cmd {
	lib, err := v.state.App.library()
	if err != nil {
		return errorStatusCmd(err)
	}
	name := v.state.Ctrl.Project().Name
	return startWizard("Library", textForm("Library name", name, true, &name), func() tea.Cmd {
		// Encode now, on the UI goroutine; the store runs in the background.
		doc, err := v.state.Ctrl.Save()
		if err != nil {
			return errorStatusCmd(err)
		}
		return librarySaveCmd(lib, strings.TrimSpace(name), doc)
	})
}

// defaultFileName derives a file name from the project name.
func defaultFileName(project string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, strings.TrimSpace(project))
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "plan"
	}
	return slug + ".json"
}

func (v *editorView) View() string {
	left := lipgloss.NewStyle().Width(phasePaneWidth).Render(v.renderPhases())
	right := v.renderDetail()
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

func (v *editorView) renderPhases() string {
	var b strings.Builder
	title := "PHASES"
	if v.focus == panePhases {
		b.WriteString(formatter.StyleHeader.Render(title) + "\n")
	} else {
		b.WriteString(formatter.Dim(title) + "\n")
	}

	phases := v.state.Ctrl.Phases()
	if len(phases) == 0 {
		b.WriteString(formatter.Dim("No phases. p: add, g: generate"))
		return b.String()
	}
	selected, _ := v.state.Ctrl.SelectedPhase()
	for _, ph := range phases {
		marker := "  "
		name := formatter.Truncate(strconv.Itoa(ph.Index+1)+". "+ph.Name, phasePaneWidth-8)
		if ph.Index == selected {
			marker = formatter.StyleHeader.Render("▸ ")
			name = formatter.Bold(name)
		}
		pct := formatter.Dim(fmt.Sprintf("%3d%%", ph.Progress.Percent()))
		b.WriteString(marker + name + " " + pct + "\n")
	}
	return b.String()
}

func (v *editorView) renderDetail() string {
	var b strings.Builder
	ctrl := v.state.Ctrl
	b.WriteString(formatter.FormatHeader(ctrl.CurrentPhaseHeader()) + "\n\n")

	if _, ok := ctrl.SelectedPhase(); !ok {
		b.WriteString(formatter.Dim("Select a phase to see its tasks."))
		return b.String()
	}
	rows := ctrl.CurrentRows()
	if len(rows) == 0 {
		b.WriteString(formatter.Dim("No tasks in this phase. Press a to add one."))
		return b.String()
	}

	limit := max(v.state.ContentHeight()-6, 3)
	start := 0
	if v.rowCursor >= limit {
		start = v.rowCursor - limit + 1
	}
	cells := make([][]string, 0, limit)
	for i := start; i < len(rows) && i < start+limit; i++ {
		marker := " "
		if i == v.rowCursor && v.focus == paneRows {
			marker = formatter.StyleHeader.Render("▸")
		}
		cells = append(cells, append([]string{marker}, formatter.RowCells(rows[i])...))
	}
	b.WriteString(formatter.RenderTable([]string{"", "#", "DONE", "TITLE", "DURATION", "ASSIGNEE"}, cells))
	if hidden := len(rows) - len(cells); hidden > 0 {
		b.WriteString(formatter.Dim(fmt.Sprintf("… %d more", hidden)))
	}
	return b.String()
}

// errorText renders err for the status line. Rejected input is a plain
// hint; everything else is an error.
func errorText(err error) string {
	if errIsUser(err) {
		return formatter.StyleYellow.Render(err.Error())
	}
	return formatter.Error(err)
}

// errIsUser reports whether err should be shown as a plain status hint.
func errIsUser(err error) bool {
	return domain.IsUserError(err) || errors.Is(err, errNoLibrary)
}
