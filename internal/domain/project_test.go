package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask_DefaultsAssignee(t *testing.T) {
	task, err := NewTask("  Write docs ", 3, "   ")
	require.NoError(t, err)
	assert.Equal(t, "Write docs", task.Title)
	assert.Equal(t, DefaultAssignee, task.Assignee)
	assert.False(t, task.Completed)
	assert.Empty(t, task.Subtasks)
}

func TestNewTask_RejectsBlankTitle(t *testing.T) {
	_, err := NewTask("   ", 3, "Dev")
	assert.ErrorIs(t, err, ErrEmptyTitle)
}

func TestNewTask_RejectsZeroDuration(t *testing.T) {
	_, err := NewTask("Code", 0, "Dev")
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestNewSubtask_Validation(t *testing.T) {
	_, err := NewSubtask("", 2)
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = NewSubtask("Prep", -1)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	s, err := NewSubtask("Prep", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, s.DurationDays)
}

func TestProject_PhaseOutOfRange(t *testing.T) {
	p := NewBlankProject()
	_, err := p.Phase(0)
	assert.ErrorIs(t, err, ErrNoPhaseSelected)

	_, err = p.AddPhase("Design", "")
	require.NoError(t, err)
	ph, err := p.Phase(0)
	require.NoError(t, err)
	assert.Equal(t, "Design", ph.Name)

	_, err = p.Phase(-1)
	assert.ErrorIs(t, err, ErrNoPhaseSelected)
}

func TestProject_AddPhaseRejectsBlankName(t *testing.T) {
	p := NewBlankProject()
	_, err := p.AddPhase(" ", "desc")
	assert.ErrorIs(t, err, ErrEmptyTitle)
	assert.Empty(t, p.Phases)
}

func TestPhase_RemoveTaskCascades(t *testing.T) {
	ph := &Phase{Name: "Build"}
	t1, _ := NewTask("T1", 5, "")
	t2, _ := NewTask("T1", 2, "")
	s, _ := NewSubtask("s1", 2)
	t1.AddSubtask(s)
	ph.AddTask(t1)
	ph.AddTask(t2)

	// Same title, different identity: only the exact task goes.
	assert.True(t, ph.RemoveTask(t1))
	require.Len(t, ph.Tasks, 1)
	assert.Same(t, t2, ph.Tasks[0])
	assert.False(t, ph.RemoveTask(t1))
}

func TestTask_RemoveSubtask(t *testing.T) {
	task, _ := NewTask("T", 5, "")
	s1, _ := NewSubtask("a", 2)
	s2, _ := NewSubtask("b", 3)
	task.AddSubtask(s1)
	task.AddSubtask(s2)

	assert.True(t, task.RemoveSubtask(s1))
	assert.Equal(t, []*Subtask{s2}, task.Subtasks)
	// Parent duration is never recomputed.
	assert.Equal(t, 5, task.DurationDays)
	assert.Equal(t, 3, task.SubtaskDays())
}

func TestProgressAndTotals(t *testing.T) {
	p := NewProject("P", "")
	ph, _ := p.AddPhase("One", "")
	t1, _ := NewTask("T1", 4, "")
	t1.Completed = true
	s, _ := NewSubtask("s", 1)
	t1.AddSubtask(s)
	t2, _ := NewTask("T2", 6, "")
	ph.AddTask(t1)
	ph.AddTask(t2)

	assert.Equal(t, 10, ph.TotalDays())
	assert.Equal(t, 10, p.TotalDays())
	assert.Equal(t, Progress{Done: 1, Total: 3}, p.Progress())
	assert.Equal(t, 33, p.Progress().Percent())
	assert.Equal(t, 0, Progress{}.Percent())
}

func TestErrNotATaskRow_IsInvalidRowSelection(t *testing.T) {
	assert.True(t, errors.Is(ErrNotATaskRow, ErrInvalidRowSelection))
}

func TestCoalesceHelpers(t *testing.T) {
	empty := ""
	name := "x"
	n := 4
	b := true

	assert.Equal(t, "a", CoalesceStr("", "a", "b"))
	assert.Equal(t, "", StrFromPtrWithDefault("dflt", &empty))
	assert.Equal(t, "x", StrFromPtrWithDefault("dflt", nil, &name))
	assert.Equal(t, "dflt", StrFromPtrWithDefault("dflt"))
	assert.Equal(t, 4, IntFromPtrWithDefault(1, nil, &n))
	assert.Equal(t, 1, IntFromPtrWithDefault(1, nil, nil))
	assert.True(t, BoolFromPtrWithDefault(false, &b))
}

func TestIsUserError(t *testing.T) {
	assert.True(t, IsUserError(ErrNotATaskRow))
	assert.True(t, IsUserError(errors.Join(errors.New("ctx"), ErrEmptyTitle)))
	assert.False(t, IsUserError(ErrMalformedDocument))
	assert.False(t, IsUserError(errors.New("disk full")))
}
