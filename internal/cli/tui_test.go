package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/waterfall/internal/app"
	"github.com/alexanderramin/waterfall/internal/domain"
	"github.com/alexanderramin/waterfall/internal/generation"
	"github.com/alexanderramin/waterfall/internal/teatest"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selectedPhase(t *testing.T, d *TestDriver) int {
	t.Helper()
	i, ok := d.State().Ctrl.SelectedPhase()
	require.True(t, ok, "expected a selected phase")
	return i
}

// ── Startup & navigation ────────────────────────────────────────────────────

func TestTUI_StartupShowsSoftwarePlan(t *testing.T) {
	d := NewTestDriver(t, testApp(t), "")

	assert.Equal(t, ViewEditor, d.ActiveViewID())
	assert.Equal(t, 0, selectedPhase(t, d))
	v := d.PlainView()
	assert.Contains(t, v, "Enterprise Software Project")
	assert.Contains(t, v, "1. Requirements")
	assert.Contains(t, v, "7. Maintenance")
	assert.Contains(t, v, "Stakeholder Interviews")
	assert.Contains(t, v, "[unsaved]")
}

func TestTUI_OpenFromFile(t *testing.T) {
	path := writePlan(t, t.TempDir(), "build a house")
	d := NewTestDriver(t, testApp(t), path)

	assert.Equal(t, "plan.json", d.State().FileLabel())
	assert.Contains(t, d.PlainView(), "Construction Project")
	assert.Contains(t, d.PlainView(), "Site Survey")
}

func TestTUI_PhaseNavigation(t *testing.T) {
	d := NewTestDriver(t, testApp(t), "")

	d.PressDown()
	assert.Equal(t, 1, selectedPhase(t, d))
	assert.Contains(t, d.PlainView(), "UI Mockups")

	d.PressKey('k')
	assert.Equal(t, 0, selectedPhase(t, d))

	// The cursor stops at the first phase.
	d.PressUp()
	assert.Equal(t, 0, selectedPhase(t, d))
}

func TestTUI_ToggleRow(t *testing.T) {
	d := NewTestDriver(t, testApp(t), "")

	// Space does nothing while the phase list has focus.
	d.PressSpace()
	task := d.State().Ctrl.Project().Phases[0].Tasks[0]
	assert.False(t, task.Completed)

	d.PressTab()
	d.PressDown()
	d.PressSpace()
	assert.True(t, task.Subtasks[0].Completed)
	assert.False(t, task.Completed)

	d.PressSpace()
	assert.False(t, task.Subtasks[0].Completed)
}

func TestTUI_QuitKeys(t *testing.T) {
	d := NewTestDriver(t, testApp(t), "")
	d.PressKey('q')
	assert.True(t, d.IsQuitting())
	assert.True(t, d.Quitting)

	d = NewTestDriver(t, testApp(t), "")
	d.PressCtrlC()
	assert.True(t, d.IsQuitting())
	assert.Empty(t, d.View())
}

// ── Forms ───────────────────────────────────────────────────────────────────

func TestTUI_DeleteOpensConfirmAndEscCancels(t *testing.T) {
	d := NewTestDriver(t, testApp(t), "")

	// Delete needs the rows pane.
	d.PressKey('x')
	assert.Equal(t, 1, d.ViewStackLen())

	d.PressTab()
	d.PressKey('x')
	require.Equal(t, ViewForm, d.ActiveViewID())
	assert.Equal(t, 2, d.ViewStackLen())

	// q goes to the form, not to the quit handler.
	d.PressKey('q')
	assert.False(t, d.IsQuitting())

	d.PressEsc()
	assert.Equal(t, ViewEditor, d.ActiveViewID())
	assert.Equal(t, "Cancelled.", d.Status())
	assert.Len(t, d.State().Ctrl.Project().Phases[0].Tasks, 2)
}

func TestTUI_FormKeysPushForms(t *testing.T) {
	for _, r := range []rune{'p', 'g', 'o', 'w', 'l', 'a'} {
		t.Run(string(r), func(t *testing.T) {
			d := NewTestDriver(t, testApp(t), "")
			d.PressKey(r)
			assert.Equal(t, ViewForm, d.ActiveViewID())
			d.PressEsc()
			assert.Equal(t, 1, d.ViewStackLen())
		})
	}
}

func TestTUI_AddTaskWithoutPhase(t *testing.T) {
	d := NewTestDriver(t, testApp(t), "")
	d.PressKey('n')
	assert.Equal(t, domain.NewProjectName, d.State().Ctrl.Project().Name)
	assert.Contains(t, d.PlainView(), "No phases. p: add, g: generate")

	d.PressKey('a')
	assert.Equal(t, 1, d.ViewStackLen())
	assert.Equal(t, domain.ErrNoPhaseSelected.Error(), d.Status())
}

func TestTUI_AddSubtaskOnSubtaskRow(t *testing.T) {
	d := NewTestDriver(t, testApp(t), "")
	d.PressTab()
	d.PressDown()
	d.PressKey('s')
	assert.Equal(t, 1, d.ViewStackLen())
	assert.Contains(t, d.Status(), "row is not a task")
}

func TestTUI_LibraryNotConfigured(t *testing.T) {
	d := NewTestDriver(t, &App{Generator: generation.OfflineGenerator{}}, "")
	d.PressKey('l')
	assert.Equal(t, 1, d.ViewStackLen())
	assert.Equal(t, errNoLibrary.Error(), d.Status())
}

// ── Edits ───────────────────────────────────────────────────────────────────

func TestTUI_RenameEdit(t *testing.T) {
	d := NewTestDriver(t, testApp(t), "")
	row, err := d.State().Ctrl.SelectRow(0)
	require.NoError(t, err)

	d.Send(editMsg{apply: renameEdit(row, "Interviews")})
	assert.Equal(t, "✔ Renamed to Interviews", d.Status())
	assert.Contains(t, d.PlainView(), "Interviews")

	d.Send(editMsg{apply: renameEdit(row, "  ")})
	assert.Equal(t, domain.ErrEmptyTitle.Error(), d.Status())
	assert.Equal(t, "Interviews", d.State().Ctrl.Project().Phases[0].Tasks[0].Title)
}

func TestTUI_StaleRowRejected(t *testing.T) {
	d := NewTestDriver(t, testApp(t), "")
	row, err := d.State().Ctrl.SelectRow(0)
	require.NoError(t, err)

	d.Send(editMsg{apply: addTaskEdit("Risk review", 2, "")})
	assert.Equal(t, "✔ Added task Risk review", d.Status())

	d.Send(editMsg{apply: deleteEdit(row)})
	assert.Contains(t, d.Status(), "invalid row selection")
	assert.Len(t, d.State().Ctrl.Project().Phases[0].Tasks, 3)
}

func TestTUI_DeleteAndSubtaskEdits(t *testing.T) {
	d := NewTestDriver(t, testApp(t), "")
	ctrl := d.State().Ctrl

	row, err := ctrl.SelectRow(4) // Spec Doc, after three subtasks
	require.NoError(t, err)
	d.Send(editMsg{apply: addSubtaskEdit(row, "Sign-off", 1)})
	assert.Equal(t, "✔ Added subtask Sign-off under Spec Doc", d.Status())

	row, err = ctrl.SelectRow(0)
	require.NoError(t, err)
	d.Send(editMsg{apply: deleteEdit(row)})
	assert.Equal(t, "✔ Deleted Stakeholder Interviews", d.Status())

	rows := ctrl.CurrentRows()
	require.Len(t, rows, 2)
	assert.Equal(t, "Spec Doc", rows[0].Title())
	assert.Equal(t, "Sign-off", rows[1].Title())
}

func TestTUI_AddPhaseSelectsIt(t *testing.T) {
	d := NewTestDriver(t, testApp(t), "")
	d.Send(editMsg{apply: addPhaseEdit("Retrospective", "")})

	assert.Equal(t, 7, selectedPhase(t, d))
	assert.Equal(t, 7, d.Editor().phaseCursor)
	assert.Contains(t, d.PlainView(), "8. Retrospective")
	assert.Contains(t, d.PlainView(), "No tasks in this phase. Press a to add one.")
}

func TestTUI_WriteThenOpen(t *testing.T) {
	dir := t.TempDir()
	d := NewTestDriver(t, testApp(t), "")
	state := d.State()

	d.Send(editMsg{apply: writeFileEdit(state, filepath.Join(dir, "mine"))})
	written := filepath.Join(dir, "mine.json")
	assert.Equal(t, written, state.FilePath)
	assert.FileExists(t, written)
	assert.Contains(t, d.PlainView(), "[mine.json]")

	d.Send(editMsg{apply: newProjectEdit(state), reset: true})
	assert.Empty(t, state.FilePath)
	assert.Empty(t, state.Ctrl.Phases())

	d.Send(editMsg{apply: openFileEdit(state, written), reset: true})
	assert.Equal(t, "Enterprise Software Project", state.Ctrl.Project().Name)
	assert.Equal(t, 0, selectedPhase(t, d))
	assert.Equal(t, written, state.FilePath)
}

func TestTUI_OpenBadFileKeepsProject(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("[]"), 0o644))

	d := NewTestDriver(t, testApp(t), "")
	state := d.State()

	d.Send(editMsg{apply: openFileEdit(state, bad), reset: true})
	assert.Contains(t, d.Status(), "Error:")
	assert.Equal(t, "Enterprise Software Project", state.Ctrl.Project().Name)
	assert.Empty(t, state.FilePath)

	d.Send(editMsg{apply: openFileEdit(state, filepath.Join(dir, "missing.json")), reset: true})
	assert.Contains(t, d.Status(), "reading plan file")
}

func TestTUI_LibrarySave(t *testing.T) {
	a := testApp(t)
	d := NewTestDriver(t, a, "")
	doc, err := d.State().Ctrl.Save()
	require.NoError(t, err)

	d.Send(librarySaveCmd(a.Library, "Mine", doc)())
	assert.Equal(t, "✔ Saved Mine to the library (revision 1)", d.Status())

	d.Send(librarySaveCmd(a.Library, "Mine", doc)())
	assert.Equal(t, "✔ Saved Mine to the library (revision 2)", d.Status())
}

// ── Generation ──────────────────────────────────────────────────────────────

func TestTUI_GenerateRequest(t *testing.T) {
	d := NewTestDriver(t, testApp(t), "", teatest.WithCmdTimeout(time.Second))
	d.State().FilePath = "old.json"

	d.Send(generateRequestMsg{prompt: "build a house"})
	assert.Equal(t, "✔ Generated Construction Project", d.Status())
	assert.Equal(t, 0, d.State().Generating)
	assert.Empty(t, d.State().FilePath)
	assert.Equal(t, 0, selectedPhase(t, d))
	assert.Contains(t, d.PlainView(), "Site Survey")
}

func TestTUI_GenerateEmptyPrompt(t *testing.T) {
	d := NewTestDriver(t, testApp(t), "")
	d.Send(generateRequestMsg{prompt: "   "})
	assert.Equal(t, domain.ErrEmptyPrompt.Error(), d.Status())
	assert.Equal(t, 0, d.State().Generating)
}

func TestTUI_OlderCompletionDiscarded(t *testing.T) {
	d := NewTestDriver(t, testApp(t), "")

	d.Send(generationDoneMsg{completion: app.Completion{Seq: 5, Prompt: "house", Document: generation.Generate("build a house")}})
	require.Equal(t, "Construction Project", d.State().Ctrl.Project().Name)

	d.Send(generationDoneMsg{completion: app.Completion{Seq: 3, Prompt: "plan a party", Document: generation.Generate("plan a party")}})
	assert.Equal(t, `Discarded an older plan for "plan a party".`, d.Status())
	assert.Equal(t, "Construction Project", d.State().Ctrl.Project().Name)
}

func TestTUI_FailedCompletionKeepsProject(t *testing.T) {
	d := NewTestDriver(t, testApp(t), "")

	d.Send(generationDoneMsg{completion: app.Completion{Seq: 1, Prompt: "x", Err: errors.New("model offline")}})
	assert.Contains(t, d.Status(), "model offline")
	assert.Equal(t, "Enterprise Software Project", d.State().Ctrl.Project().Name)
}

func TestTUI_WindowResize(t *testing.T) {
	d := NewTestDriver(t, testApp(t), "")
	d.Send(tea.WindowSizeMsg{Width: 80, Height: 12})
	assert.Equal(t, 80, d.State().Width)
	assert.Equal(t, 7, d.State().ContentHeight())
}

func TestDefaultFileName(t *testing.T) {
	assert.Equal(t, "enterprise-software-project.json", defaultFileName("Enterprise Software Project"))
	assert.Equal(t, "final-test---demo.json", defaultFileName("Final Test & Demo"))
	assert.Equal(t, "plan.json", defaultFileName("  "))
}
