package domain

import (
	"fmt"
	"slices"
	"strings"
)

const (
	DefaultAssignee     = "Unassigned"
	DefaultProjectName  = "Untitled"
	DefaultTaskTitle    = "Untitled Task"
	DefaultSubtaskTitle = "Untitled Subtask"
	DefaultDurationDays = 1

	NewProjectName        = "Untitled Project"
	NewProjectDescription = "Start by adding phases or using the Wizard."
)

// Project is the root of a plan. It owns its phases exclusively.
type Project struct {
	Name        string
	Description string
	Phases      []*Phase
}

// Phase is an ordered stage of a project.
type Phase struct {
	Name        string
	Description string
	Tasks       []*Task
}

// Task is a unit of work inside a phase. When a task is generated with
// subtasks its DurationDays equals the subtask sum; later edits do not
// recompute it.
type Task struct {
	Title        string
	DurationDays int
	Assignee     string
	Completed    bool
	Subtasks     []*Subtask
}

// Subtask is a leaf unit of work owned by a task.
type Subtask struct {
	Title        string
	DurationDays int
	Completed    bool
}

// Progress counts completed items against all items.
type Progress struct {
	Done  int
	Total int
}

// Percent returns completion as a whole percentage; an empty set is 0%.
func (p Progress) Percent() int {
	if p.Total == 0 {
		return 0
	}
	return p.Done * 100 / p.Total
}

func (p Progress) add(o Progress) Progress {
	return Progress{Done: p.Done + o.Done, Total: p.Total + o.Total}
}

func NewProject(name, description string) *Project {
	return &Project{Name: name, Description: description, Phases: []*Phase{}}
}

// NewBlankProject returns the empty project shown after "new".
func NewBlankProject() *Project {
	return NewProject(NewProjectName, NewProjectDescription)
}

// NewTask validates input and builds a task with no subtasks. A blank
// assignee becomes DefaultAssignee.
func NewTask(title string, durationDays int, assignee string) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if durationDays < 1 {
		return nil, fmt.Errorf("task %q: %w", title, ErrInvalidDuration)
	}
	assignee = strings.TrimSpace(assignee)
	if assignee == "" {
		assignee = DefaultAssignee
	}
	return &Task{
		Title:        title,
		DurationDays: durationDays,
		Assignee:     assignee,
		Subtasks:     []*Subtask{},
	}, nil
}

func NewSubtask(title string, durationDays int) (*Subtask, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if durationDays < 1 {
		return nil, fmt.Errorf("subtask %q: %w", title, ErrInvalidDuration)
	}
	return &Subtask{Title: title, DurationDays: durationDays}, nil
}

// AddPhase appends an empty phase and returns it.
func (p *Project) AddPhase(name, description string) (*Phase, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyTitle
	}
	ph := &Phase{Name: name, Description: description, Tasks: []*Task{}}
	p.Phases = append(p.Phases, ph)
	return ph, nil
}

// Phase returns the phase at index i.
func (p *Project) Phase(i int) (*Phase, error) {
	if i < 0 || i >= len(p.Phases) {
		return nil, fmt.Errorf("phase %d: %w", i, ErrNoPhaseSelected)
	}
	return p.Phases[i], nil
}

func (p *Project) TotalDays() int {
	total := 0
	for _, ph := range p.Phases {
		total += ph.TotalDays()
	}
	return total
}

func (p *Project) Progress() Progress {
	var out Progress
	for _, ph := range p.Phases {
		out = out.add(ph.Progress())
	}
	return out
}

// TotalDays sums task durations as stored.
func (ph *Phase) TotalDays() int {
	total := 0
	for _, t := range ph.Tasks {
		total += t.DurationDays
	}
	return total
}

// Progress counts tasks and subtasks together.
func (ph *Phase) Progress() Progress {
	var out Progress
	for _, t := range ph.Tasks {
		out.Total++
		if t.Completed {
			out.Done++
		}
		for _, s := range t.Subtasks {
			out.Total++
			if s.Completed {
				out.Done++
			}
		}
	}
	return out
}

func (ph *Phase) AddTask(t *Task) {
	ph.Tasks = append(ph.Tasks, t)
}

// RemoveTask drops t and everything it owns. Identity, not title, decides
// which task goes.
func (ph *Phase) RemoveTask(t *Task) bool {
	i := slices.Index(ph.Tasks, t)
	if i < 0 {
		return false
	}
	ph.Tasks = slices.Delete(ph.Tasks, i, i+1)
	return true
}

func (t *Task) AddSubtask(s *Subtask) {
	t.Subtasks = append(t.Subtasks, s)
}

func (t *Task) RemoveSubtask(s *Subtask) bool {
	i := slices.Index(t.Subtasks, s)
	if i < 0 {
		return false
	}
	t.Subtasks = slices.Delete(t.Subtasks, i, i+1)
	return true
}

// SubtaskDays sums subtask durations.
func (t *Task) SubtaskDays() int {
	total := 0
	for _, s := range t.Subtasks {
		total += s.DurationDays
	}
	return total
}
