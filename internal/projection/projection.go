package projection

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/waterfall/internal/domain"
)

// TaskInput is the add-task form.
type TaskInput struct {
	Title        string
	DurationDays int
	Assignee     string
}

// SubtaskInput is the add-subtask form.
type SubtaskInput struct {
	Title        string
	DurationDays int
}

// Projection is the flat view of one phase plus the mutations that go
// through it. Structural mutations rebuild the rows and start a new
// generation; rows handed out earlier are then rejected.
type Projection struct {
	phase *domain.Phase
	rows  []Row
	gen   uint64
}

// New projects phase. A nil phase yields an empty view that refuses adds.
func New(phase *domain.Phase) *Projection {
	p := &Projection{phase: phase}
	p.rebuild()
	return p
}

func (p *Projection) Phase() *domain.Phase { return p.phase }

// Rows returns a copy of the current rows.
func (p *Projection) Rows() []Row {
	out := make([]Row, len(p.rows))
	copy(out, p.rows)
	return out
}

func (p *Projection) Len() int { return len(p.rows) }

// Generation identifies the current row set.
func (p *Projection) Generation() uint64 { return p.gen }

// Refresh rebuilds after the phase was changed outside the projection.
func (p *Projection) Refresh() { p.rebuild() }

func (p *Projection) rebuild() {
	p.gen++
	p.rows = build(p.phase, p.gen)
}

// Resolve returns the row at index.
func (p *Projection) Resolve(index int) (Row, error) {
	if index < 0 || index >= len(p.rows) {
		return Row{}, fmt.Errorf("row %d of %d: %w", index, len(p.rows), domain.ErrInvalidRowSelection)
	}
	return p.rows[index], nil
}

// check rejects rows from an earlier generation or another projection.
func (p *Projection) check(row Row) error {
	if row.gen != p.gen {
		return fmt.Errorf("row %d is stale: %w", row.Index, domain.ErrInvalidRowSelection)
	}
	cur, err := p.Resolve(row.Index)
	if err != nil {
		return err
	}
	if cur.Kind != row.Kind || cur.Task != row.Task || cur.Subtask != row.Subtask {
		return fmt.Errorf("row %d does not belong to this view: %w", row.Index, domain.ErrInvalidRowSelection)
	}
	return nil
}

// Rename retitles the entity behind row. Blank titles are rejected and
// leave the entity unchanged.
func (p *Projection) Rename(row Row, title string) error {
	if err := p.check(row); err != nil {
		return err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.ErrEmptyTitle
	}
	switch row.Kind {
	case KindTask:
		row.Task.Title = title
	case KindSubtask:
		row.Subtask.Title = title
	}
	return nil
}

func (p *Projection) SetCompleted(row Row, done bool) error {
	if err := p.check(row); err != nil {
		return err
	}
	switch row.Kind {
	case KindTask:
		row.Task.Completed = done
	case KindSubtask:
		row.Subtask.Completed = done
	}
	return nil
}

// ToggleComplete flips completion and returns the new state.
func (p *Projection) ToggleComplete(row Row) (bool, error) {
	if err := p.check(row); err != nil {
		return false, err
	}
	done := !row.Completed()
	if err := p.SetCompleted(row, done); err != nil {
		return false, err
	}
	return done, nil
}

// AddTask appends a task to the phase.
func (p *Projection) AddTask(in TaskInput) (*domain.Task, error) {
	if p.phase == nil {
		return nil, domain.ErrNoPhaseSelected
	}
	t, err := domain.NewTask(in.Title, in.DurationDays, in.Assignee)
	if err != nil {
		return nil, err
	}
	p.phase.AddTask(t)
	p.rebuild()
	return t, nil
}

// AddSubtask appends a subtask under the task at row. Subtask rows are
// rejected; nesting is one level deep. The parent's duration is left as is.
func (p *Projection) AddSubtask(row Row, in SubtaskInput) (*domain.Subtask, error) {
	if err := p.check(row); err != nil {
		return nil, err
	}
	if row.Kind != KindTask {
		return nil, fmt.Errorf("row %d: %w", row.Index, domain.ErrNotATaskRow)
	}
	s, err := domain.NewSubtask(in.Title, in.DurationDays)
	if err != nil {
		return nil, err
	}
	row.Task.AddSubtask(s)
	p.rebuild()
	return s, nil
}

// Delete removes the entity behind row. Deleting a task removes its
// subtasks with it.
func (p *Projection) Delete(row Row) error {
	if err := p.check(row); err != nil {
		return err
	}
	switch row.Kind {
	case KindTask:
		p.phase.RemoveTask(row.Task)
	case KindSubtask:
		row.Parent.RemoveSubtask(row.Subtask)
	}
	p.rebuild()
	return nil
}
