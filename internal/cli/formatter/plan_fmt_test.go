package formatter

import (
	"testing"

	"github.com/alexanderramin/waterfall/internal/app"
	"github.com/alexanderramin/waterfall/internal/domain"
	"github.com/alexanderramin/waterfall/internal/projection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePlan(t *testing.T) *domain.Project {
	t.Helper()
	p := domain.NewProject("Website", "Marketing site")
	ph, err := p.AddPhase("Build", "Code it")
	require.NoError(t, err)
	task, err := domain.NewTask("Frontend", 5, "Dev")
	require.NoError(t, err)
	task.Completed = true
	sub, err := domain.NewSubtask("Layout", 2)
	require.NoError(t, err)
	task.AddSubtask(sub)
	ph.AddTask(task)
	return p
}

func TestFormatPlan(t *testing.T) {
	out := stripANSI(FormatPlan(samplePlan(t)))
	assert.Contains(t, out, "Website")
	assert.Contains(t, out, "Marketing site")
	assert.Contains(t, out, "1. Build")
	assert.Contains(t, out, "✔ Frontend @Dev")
	assert.Contains(t, out, "Layout")
	assert.Contains(t, out, "[ 5d ]")
	assert.Contains(t, out, "50%")
}

func TestFormatPlan_NoPhases(t *testing.T) {
	out := stripANSI(FormatPlan(domain.NewBlankProject()))
	assert.Contains(t, out, domain.NewProjectName)
	assert.Contains(t, out, "No phases yet.")
}

func TestFormatRows(t *testing.T) {
	p := samplePlan(t)
	out := stripANSI(FormatRows(projection.Build(p.Phases[0])))
	assert.Contains(t, out, "ASSIGNEE")
	assert.Contains(t, out, "Frontend")
	assert.Contains(t, out, projection.SubtaskPrefix+"Layout")
	assert.Contains(t, out, "Dev")

	assert.Contains(t, stripANSI(FormatRows(nil)), "No tasks in this phase.")
}

func TestFormatHeader(t *testing.T) {
	out := stripANSI(FormatHeader(app.Header{
		Title:       "Build",
		Description: "Code it",
		IsPhase:     true,
		TotalDays:   5,
		Progress:    domain.Progress{Done: 1, Total: 2},
	}))
	assert.Contains(t, out, "Build  5d")
	assert.Contains(t, out, "Code it")
	assert.Contains(t, out, "50%")
}

func TestFormatPhaseList(t *testing.T) {
	out := stripANSI(FormatPhaseList([]app.PhaseRef{
		{Index: 0, Name: "Design", Tasks: 3, Progress: domain.Progress{Done: 1, Total: 3}},
	}))
	assert.Contains(t, out, "Design")
	assert.Contains(t, out, "33%")
	assert.Contains(t, stripANSI(FormatPhaseList(nil)), "No phases yet.")
}
