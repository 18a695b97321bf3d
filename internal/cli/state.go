package cli

import (
	"path/filepath"

	"github.com/alexanderramin/waterfall/internal/app"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App  *App
	Ctrl *app.Controller

	// FilePath is where 'w' writes by default; empty until the plan has
	// been opened from or written to a file.
	FilePath string

	// Generating counts dispatched generations not yet delivered.
	Generating int

	Width  int
	Height int
}

// FileLabel is the short name shown in the header.
func (s *SharedState) FileLabel() string {
	if s.FilePath == "" {
		return "unsaved"
	}
	return filepath.Base(s.FilePath)
}

// ContentHeight returns the rows left for view content after the header
// (title + separator), status line and hint bar (separator + hints).
func (s *SharedState) ContentHeight() int {
	return max(s.Height-5, 1)
}
