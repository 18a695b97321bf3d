package testutil

import (
	"fmt"
	"time"

	"github.com/alexanderramin/waterfall/internal/domain"
	"github.com/google/uuid"
)

// ProjectOption adjusts a fixture project.
type ProjectOption func(*domain.Project)

// WithPhase appends a phase holding one task per title. Each task gets
// duration 2 and no subtasks.
func WithPhase(name string, taskTitles ...string) ProjectOption {
	return func(p *domain.Project) {
		ph := &domain.Phase{Name: name, Description: name + " work", Tasks: []*domain.Task{}}
		for _, title := range taskTitles {
			ph.Tasks = append(ph.Tasks, &domain.Task{
				Title:        title,
				DurationDays: 2,
				Assignee:     domain.DefaultAssignee,
				Subtasks:     []*domain.Subtask{},
			})
		}
		p.Phases = append(p.Phases, ph)
	}
}

// WithSubtasks attaches subtasks to the last task of the last phase and sets
// its duration to their sum, as generation would.
func WithSubtasks(days ...int) ProjectOption {
	return func(p *domain.Project) {
		if len(p.Phases) == 0 || len(p.Phases[len(p.Phases)-1].Tasks) == 0 {
			panic("WithSubtasks needs a preceding WithPhase with tasks")
		}
		ph := p.Phases[len(p.Phases)-1]
		t := ph.Tasks[len(ph.Tasks)-1]
		t.DurationDays = 0
		for i, d := range days {
			t.Subtasks = append(t.Subtasks, &domain.Subtask{
				Title:        fmt.Sprintf("%s step %d", t.Title, i+1),
				DurationDays: d,
			})
			t.DurationDays += d
		}
	}
}

// NewTestProject builds a project for tests.
func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	p := domain.NewProject(name, name+" description")
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewTestStoredPlan builds a library row with a minimal document.
func NewTestStoredPlan(name string) *domain.StoredPlan {
	now := time.Now().UTC()
	return &domain.StoredPlan{
		ID:          uuid.New().String(),
		Name:        name,
		Description: name + " description",
		Document:    []byte(fmt.Sprintf(`{"name":%q,"phases":[]}`, name)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
