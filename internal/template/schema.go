package template

import (
	"encoding/json"
	"fmt"
	"os"
)

// Template is a named phase/task blueprint the plan generator copies from.
type Template struct {
	Key         string      `json:"key"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Phases      []PhaseSpec `json:"phases"`
}

type PhaseSpec struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Tasks       []TaskSpec `json:"tasks"`
}

// TaskSpec carries the authored duration. When Subtasks is non-empty the
// generator ignores DurationDays and uses the subtask sum instead.
type TaskSpec struct {
	Title        string        `json:"title"`
	DurationDays int           `json:"duration_days"`
	Assignee     string        `json:"assignee"`
	Subtasks     []SubtaskSpec `json:"subtasks,omitempty"`
}

type SubtaskSpec struct {
	Title        string `json:"title"`
	DurationDays int    `json:"duration_days"`
}

// Parse decodes a template definition.
func Parse(data []byte) (*Template, error) {
	var t Template
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	return &t, nil
}

// LoadFile reads and parses a template definition from disk.
func LoadFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template file: %w", err)
	}
	return Parse(data)
}

// TaskCount returns the number of tasks across all phases.
func (t *Template) TaskCount() int {
	n := 0
	for _, p := range t.Phases {
		n += len(p.Tasks)
	}
	return n
}

// Clone returns a deep copy of t.
func (t *Template) Clone() *Template {
	c := *t
	c.Phases = make([]PhaseSpec, len(t.Phases))
	for i, ph := range t.Phases {
		ph.Tasks = append(make([]TaskSpec, 0, len(ph.Tasks)), ph.Tasks...)
		for j := range ph.Tasks {
			if subs := ph.Tasks[j].Subtasks; subs != nil {
				ph.Tasks[j].Subtasks = append([]SubtaskSpec{}, subs...)
			}
		}
		c.Phases[i] = ph
	}
	return &c
}
