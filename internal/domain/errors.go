package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedDocument indicates a plan document that is absent or not
	// structurally a document at all. Missing fields are not malformed; they
	// take defaults on decode.
	ErrMalformedDocument = errors.New("malformed plan document")

	// ErrEmptyTitle indicates a rename or add with a blank title.
	ErrEmptyTitle = errors.New("title must not be empty")

	// ErrInvalidDuration indicates a duration below one day.
	ErrInvalidDuration = errors.New("duration must be at least 1 day")

	// ErrInvalidRowSelection indicates a row index that is out of range or
	// belongs to an earlier rebuild of the flat view.
	ErrInvalidRowSelection = errors.New("invalid row selection")

	// ErrNotATaskRow indicates a task-only operation targeted at a subtask row.
	ErrNotATaskRow = fmt.Errorf("%w: row is not a task", ErrInvalidRowSelection)

	ErrNoPhaseSelected = errors.New("no phase selected")
	ErrNoProject       = errors.New("no project loaded")
	ErrEmptyPrompt     = errors.New("prompt must not be empty")
)

// IsUserError reports whether err is a rejected edit or selection rather
// than a failure of the program or its storage.
func IsUserError(err error) bool {
	return errors.Is(err, ErrEmptyTitle) ||
		errors.Is(err, ErrInvalidDuration) ||
		errors.Is(err, ErrInvalidRowSelection) ||
		errors.Is(err, ErrNoPhaseSelected) ||
		errors.Is(err, ErrEmptyPrompt)
}
