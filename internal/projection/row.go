package projection

import (
	"strconv"

	"github.com/alexanderramin/waterfall/internal/domain"
)

// SubtaskPrefix marks subtask rows in the flat view.
const SubtaskPrefix = "    ↳ "

// Kind tags what a row refers to.
type Kind int

const (
	KindTask Kind = iota
	KindSubtask
)

func (k Kind) String() string {
	switch k {
	case KindTask:
		return "task"
	case KindSubtask:
		return "subtask"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Row is one line of the flattened phase view. Task rows set Task; subtask
// rows set Subtask and Parent.
type Row struct {
	Index   int
	Kind    Kind
	Task    *domain.Task
	Subtask *domain.Subtask
	Parent  *domain.Task

	gen uint64
}

func (r Row) Title() string {
	switch r.Kind {
	case KindTask:
		return r.Task.Title
	case KindSubtask:
		return r.Subtask.Title
	}
	return ""
}

// Label is the display title; subtasks are indented under their parent.
func (r Row) Label() string {
	switch r.Kind {
	case KindSubtask:
		return SubtaskPrefix + r.Subtask.Title
	default:
		return r.Title()
	}
}

func (r Row) DurationDays() int {
	switch r.Kind {
	case KindTask:
		return r.Task.DurationDays
	case KindSubtask:
		return r.Subtask.DurationDays
	}
	return 0
}

// Assignee is empty for subtask rows.
func (r Row) Assignee() string {
	if r.Kind == KindTask {
		return r.Task.Assignee
	}
	return ""
}

func (r Row) Completed() bool {
	switch r.Kind {
	case KindTask:
		return r.Task != nil && r.Task.Completed
	case KindSubtask:
		return r.Subtask != nil && r.Subtask.Completed
	}
	return false
}

// Build flattens phase into rows: each task followed by its subtasks, with
// dense zero-based indices. A nil phase has no rows.
func Build(phase *domain.Phase) []Row {
	return build(phase, 0)
}

func build(phase *domain.Phase, gen uint64) []Row {
	if phase == nil {
		return nil
	}
	rows := make([]Row, 0, len(phase.Tasks))
	for _, t := range phase.Tasks {
		rows = append(rows, Row{Index: len(rows), Kind: KindTask, Task: t, gen: gen})
		for _, s := range t.Subtasks {
			rows = append(rows, Row{Index: len(rows), Kind: KindSubtask, Subtask: s, Parent: t, gen: gen})
		}
	}
	return rows
}
