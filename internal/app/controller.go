package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/waterfall/internal/domain"
	"github.com/alexanderramin/waterfall/internal/plandoc"
	"github.com/alexanderramin/waterfall/internal/projection"
)

const noPhase = -1

// Header is what the detail pane shows above the rows: the selected phase,
// or the project itself when no phase is selected.
type Header struct {
	Title       string
	Description string
	IsPhase     bool
	TotalDays   int
	Progress    domain.Progress
}

// PhaseRef is one entry of the phase list.
type PhaseRef struct {
	Index       int
	Name        string
	Description string
	Tasks       int
	Progress    domain.Progress
}

// Controller owns the open project, the selected phase and its flat view.
// It is not safe for concurrent use; background work reaches it only
// through ApplyCompletion.
type Controller struct {
	project    *domain.Project
	phase      int
	view       *projection.Projection
	dispatcher *Dispatcher
	observer   UseCaseObserver
	lastSeq    uint64
}

type ControllerOption func(*Controller)

// WithDispatcher enables RequestGeneration.
func WithDispatcher(d *Dispatcher) ControllerOption {
	return func(c *Controller) { c.dispatcher = d }
}

func WithObserver(obs UseCaseObserver) ControllerOption {
	return func(c *Controller) { c.observer = UseCaseObserverOrNoop(obs) }
}

// NewController starts with the blank project.
func NewController(opts ...ControllerOption) *Controller {
	c := &Controller{observer: NoopUseCaseObserver{}}
	for _, opt := range opts {
		opt(c)
	}
	c.load(domain.NewBlankProject())
	return c
}

func (c *Controller) load(p *domain.Project) {
	c.project = p
	c.phase = noPhase
	c.view = projection.New(nil)
}

func (c *Controller) Project() *domain.Project { return c.project }

// Dispatcher returns the generation dispatcher, or nil.
func (c *Controller) Dispatcher() *Dispatcher { return c.dispatcher }

// NewProject discards the current project for a blank one.
func (c *Controller) NewProject() {
	start := time.Now()
	c.load(domain.NewBlankProject())
	observe(context.Background(), c.observer, "new_project", start, nil, nil)
}

// Open replaces the project with one decoded from doc. On failure the
// current project is kept.
func (c *Controller) Open(doc *plandoc.Document) (err error) {
	start := time.Now()
	defer func() {
		observe(context.Background(), c.observer, "open_project", start, err, nil)
	}()

	p, err := plandoc.Decode(doc)
	if err != nil {
		return err
	}
	c.load(p)
	return nil
}

// Save encodes the current project.
func (c *Controller) Save() (*plandoc.Document, error) {
	start := time.Now()
	if c.project == nil {
		observe(context.Background(), c.observer, "save_project", start, domain.ErrNoProject, nil)
		return nil, domain.ErrNoProject
	}
	doc := plandoc.Encode(c.project)
	observe(context.Background(), c.observer, "save_project", start, nil, map[string]any{
		"phases": len(c.project.Phases),
	})
	return doc, nil
}

// RequestGeneration dispatches prompt and returns its sequence number.
// Blank prompts are rejected before anything is dispatched.
func (c *Controller) RequestGeneration(ctx context.Context, prompt string) (uint64, error) {
	if strings.TrimSpace(prompt) == "" {
		return 0, domain.ErrEmptyPrompt
	}
	if c.dispatcher == nil {
		return 0, fmt.Errorf("generation is not configured")
	}
	return c.dispatcher.Dispatch(ctx, prompt), nil
}

// ApplyCompletion installs a finished generation. A completion older than
// one already applied is dropped and reports applied=false. A failed
// completion leaves the project untouched and returns its error.
func (c *Controller) ApplyCompletion(comp Completion) (applied bool, err error) {
	start := time.Now()
	fields := map[string]any{"seq": comp.Seq, "prompt": comp.Prompt}
	defer func() {
		fields["applied"] = applied
		observe(context.Background(), c.observer, "generate_plan", start, err, fields)
	}()

	if comp.Seq < c.lastSeq {
		return false, nil
	}
	c.lastSeq = comp.Seq
	if comp.Err != nil {
		return false, fmt.Errorf("generating plan: %w", comp.Err)
	}
	p, err := plandoc.Decode(comp.Document)
	if err != nil {
		return false, err
	}
	c.load(p)
	return true, nil
}

// Generate runs gen synchronously and installs the result. It does not
// take part in completion ordering.
func (c *Controller) Generate(ctx context.Context, gen PlanGenerator, prompt string) (err error) {
	start := time.Now()
	defer func() {
		observe(ctx, c.observer, "generate_plan", start, err, map[string]any{"prompt": prompt})
	}()

	if strings.TrimSpace(prompt) == "" {
		return domain.ErrEmptyPrompt
	}
	doc, err := gen.Generate(ctx, prompt)
	if err != nil {
		return fmt.Errorf("generating plan: %w", err)
	}
	p, err := plandoc.Decode(doc)
	if err != nil {
		return err
	}
	c.load(p)
	return nil
}

// AddPhase appends an empty phase to the project.
func (c *Controller) AddPhase(name, description string) (int, error) {
	start := time.Now()
	_, err := c.project.AddPhase(name, description)
	observe(context.Background(), c.observer, "add_phase", start, err, map[string]any{"name": name})
	if err != nil {
		return noPhase, err
	}
	return len(c.project.Phases) - 1, nil
}

func (c *Controller) Phases() []PhaseRef {
	out := make([]PhaseRef, len(c.project.Phases))
	for i, ph := range c.project.Phases {
		out[i] = PhaseRef{
			Index:       i,
			Name:        ph.Name,
			Description: ph.Description,
			Tasks:       len(ph.Tasks),
			Progress:    ph.Progress(),
		}
	}
	return out
}

// SelectPhase makes phase i current and rebuilds the row view.
func (c *Controller) SelectPhase(i int) error {
	ph, err := c.project.Phase(i)
	if err != nil {
		return err
	}
	c.phase = i
	c.view = projection.New(ph)
	return nil
}

// ClearSelection deselects the phase; the header falls back to the project.
func (c *Controller) ClearSelection() {
	c.phase = noPhase
	c.view = projection.New(nil)
}

// SelectedPhase returns the selected phase index.
func (c *Controller) SelectedPhase() (int, bool) {
	return c.phase, c.phase != noPhase
}

func (c *Controller) CurrentRows() []projection.Row {
	return c.view.Rows()
}

func (c *Controller) CurrentPhaseHeader() Header {
	if ph := c.view.Phase(); ph != nil {
		return Header{
			Title:       ph.Name,
			Description: ph.Description,
			IsPhase:     true,
			TotalDays:   ph.TotalDays(),
			Progress:    ph.Progress(),
		}
	}
	return Header{
		Title:       c.project.Name,
		Description: c.project.Description,
		TotalDays:   c.project.TotalDays(),
		Progress:    c.project.Progress(),
	}
}

// SelectRow resolves a row index against the current view.
func (c *Controller) SelectRow(i int) (projection.Row, error) {
	row, err := c.view.Resolve(i)
	if err != nil {
		c.reject("select_row", err, i)
	}
	return row, err
}

func (c *Controller) RenameRow(i int, title string) error {
	return c.rowUseCase("rename_row", i, func(row projection.Row) error {
		return c.view.Rename(row, title)
	})
}

// ToggleRow flips completion of row i and returns the new state.
func (c *Controller) ToggleRow(i int) (bool, error) {
	var done bool
	err := c.rowUseCase("toggle_row", i, func(row projection.Row) error {
		var err error
		done, err = c.view.ToggleComplete(row)
		return err
	})
	return done, err
}

func (c *Controller) DeleteRow(i int) error {
	return c.rowUseCase("delete_row", i, func(row projection.Row) error {
		return c.view.Delete(row)
	})
}

// SubmitSubtask adds a subtask under the task at row i.
func (c *Controller) SubmitSubtask(i int, title string, durationDays int) (*domain.Subtask, error) {
	var s *domain.Subtask
	err := c.rowUseCase("add_subtask", i, func(row projection.Row) error {
		var err error
		s, err = c.view.AddSubtask(row, projection.SubtaskInput{Title: title, DurationDays: durationDays})
		return err
	})
	return s, err
}

// Rename, Delete and AddSubtaskTo act on a row captured earlier with
// SelectRow. They fail with ErrInvalidRowSelection when the view has been
// rebuilt or replaced since, so a form left open across a structural change
// cannot hit the wrong entity.
func (c *Controller) Rename(row projection.Row, title string) error {
	return c.rowRefUseCase("rename_row", row, func() error {
		return c.view.Rename(row, title)
	})
}

func (c *Controller) Delete(row projection.Row) error {
	return c.rowRefUseCase("delete_row", row, func() error {
		return c.view.Delete(row)
	})
}

func (c *Controller) AddSubtaskTo(row projection.Row, title string, durationDays int) (*domain.Subtask, error) {
	var s *domain.Subtask
	err := c.rowRefUseCase("add_subtask", row, func() error {
		var err error
		s, err = c.view.AddSubtask(row, projection.SubtaskInput{Title: title, DurationDays: durationDays})
		return err
	})
	return s, err
}

// SubmitTask adds a task to the selected phase.
func (c *Controller) SubmitTask(title string, durationDays int, assignee string) (*domain.Task, error) {
	start := time.Now()
	t, err := c.view.AddTask(projection.TaskInput{Title: title, DurationDays: durationDays, Assignee: assignee})
	observe(context.Background(), c.observer, "add_task", start, err, map[string]any{"phase": c.phase})
	return t, err
}

func (c *Controller) rowUseCase(name string, i int, fn func(projection.Row) error) error {
	start := time.Now()
	row, err := c.view.Resolve(i)
	if err == nil {
		err = fn(row)
	}
	observe(context.Background(), c.observer, name, start, err, map[string]any{"phase": c.phase, "row": i})
	return err
}

func (c *Controller) rowRefUseCase(name string, row projection.Row, fn func() error) error {
	start := time.Now()
	err := fn()
	observe(context.Background(), c.observer, name, start, err, map[string]any{"phase": c.phase, "row": row.Index})
	return err
}

func (c *Controller) reject(name string, err error, i int) {
	observe(context.Background(), c.observer, name, time.Now(), err, map[string]any{"phase": c.phase, "row": i})
}
