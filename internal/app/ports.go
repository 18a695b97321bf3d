package app

import (
	"context"

	"github.com/alexanderramin/waterfall/internal/plandoc"
)

// PlanGenerator turns a prompt into a plan document.
type PlanGenerator interface {
	Generate(ctx context.Context, prompt string) (*plandoc.Document, error)
}

// PlanSummary describes one plan stored in the library.
type PlanSummary struct {
	ID          string
	Name        string
	Description string
	Phases      int
	Revisions   int
	UpdatedAt   string
}

// LibraryUseCase stores named plans with revision history.
type LibraryUseCase interface {
	Save(ctx context.Context, name string, doc *plandoc.Document) (*PlanSummary, error)
	Open(ctx context.Context, nameOrID string) (*plandoc.Document, error)
	List(ctx context.Context) ([]PlanSummary, error)
	History(ctx context.Context, nameOrID string) ([]RevisionSummary, error)
	Remove(ctx context.Context, nameOrID string) error
}

// RevisionSummary describes one saved revision of a library plan.
type RevisionSummary struct {
	ID        string
	Number    int
	CreatedAt string
}
