package plandoc

// Document is the plain, serializable form of a project plan. Pointer fields
// distinguish an absent key from a zero value so decoding can apply defaults.
type Document struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Phases      []PhaseDoc `json:"phases"`
}

type PhaseDoc struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Tasks       []TaskDoc `json:"tasks"`
}

// TaskDoc accepts the legacy "duration" key on input; Encode never writes it.
type TaskDoc struct {
	Title        *string      `json:"title,omitempty"`
	DurationDays *int         `json:"durationDays,omitempty"`
	Duration     *int         `json:"duration,omitempty"`
	Assignee     *string      `json:"assignee,omitempty"`
	Completed    *bool        `json:"completed,omitempty"`
	Subtasks     []SubtaskDoc `json:"subtasks"`
}

type SubtaskDoc struct {
	Title        *string `json:"title,omitempty"`
	DurationDays *int    `json:"durationDays,omitempty"`
	Duration     *int    `json:"duration,omitempty"`
	Completed    *bool   `json:"completed,omitempty"`
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// NameOr returns the document name, or fallback when absent.
func (d *Document) NameOr(fallback string) string {
	if d == nil || d.Name == nil {
		return fallback
	}
	return *d.Name
}
