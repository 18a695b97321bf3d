package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/waterfall/internal/app"
	"github.com/alexanderramin/waterfall/internal/db"
	"github.com/alexanderramin/waterfall/internal/domain"
	"github.com/alexanderramin/waterfall/internal/plandoc"
	"github.com/alexanderramin/waterfall/internal/repository"
	"github.com/google/uuid"
)

const summaryTimeLayout = "2006-01-02 15:04"

type libraryService struct {
	plans     repository.PlanRepo
	revisions repository.RevisionRepo
	uow       db.UnitOfWork
	observer  app.UseCaseObserver
	now       func() time.Time
}

// NewLibraryService stores plans by name. Every save writes the plan row and
// a new revision in one transaction.
func NewLibraryService(plans repository.PlanRepo, revisions repository.RevisionRepo, uow db.UnitOfWork, observers ...app.UseCaseObserver) app.LibraryUseCase {
	return &libraryService{
		plans:     plans,
		revisions: revisions,
		uow:       uow,
		observer:  app.UseCaseObserverOrNoop(observers...),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Save creates the plan or, when a plan of that name exists, replaces its
// document. A blank name falls back to the document's own name.
func (s *libraryService) Save(ctx context.Context, name string, doc *plandoc.Document) (summary *app.PlanSummary, err error) {
	start := time.Now()
	defer func() {
		s.observe(ctx, "library_save", start, err, map[string]any{"name": name})
	}()

	if doc == nil {
		return nil, domain.ErrMalformedDocument
	}
	name = domain.CoalesceStr(strings.TrimSpace(name), strings.TrimSpace(doc.NameOr("")))
	if name == "" {
		return nil, fmt.Errorf("plan name: %w", domain.ErrEmptyTitle)
	}

	data, err := plandoc.Marshal(doc)
	if err != nil {
		return nil, err
	}
	description := ""
	if doc.Description != nil {
		description = *doc.Description
	}
	now := s.now()

	var saved *domain.StoredPlan
	var revision int
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPlans := repository.NewSQLitePlanRepo(tx)
		txRevisions := repository.NewSQLiteRevisionRepo(tx)

		existing, err := txPlans.GetByName(ctx, name)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			saved = &domain.StoredPlan{
				ID:          uuid.New().String(),
				Name:        name,
				Description: description,
				Document:    data,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := txPlans.Create(ctx, saved); err != nil {
				return fmt.Errorf("creating plan '%s': %w", name, err)
			}
		case err != nil:
			return err
		default:
			existing.Description = description
			existing.Document = data
			existing.UpdatedAt = now
			if err := txPlans.Update(ctx, existing); err != nil {
				return fmt.Errorf("updating plan '%s': %w", name, err)
			}
			saved = existing
		}

		revision, err = txRevisions.NextNumber(ctx, saved.ID)
		if err != nil {
			return err
		}
		return txRevisions.Create(ctx, &domain.PlanRevision{
			ID:        uuid.New().String(),
			PlanID:    saved.ID,
			Number:    revision,
			Document:  data,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	return &app.PlanSummary{
		ID:          saved.ID,
		Name:        saved.Name,
		Description: saved.Description,
		Phases:      len(doc.Phases),
		Revisions:   revision,
		UpdatedAt:   saved.UpdatedAt.Format(summaryTimeLayout),
	}, nil
}

func (s *libraryService) Open(ctx context.Context, nameOrID string) (doc *plandoc.Document, err error) {
	start := time.Now()
	defer func() {
		s.observe(ctx, "library_open", start, err, map[string]any{"plan": nameOrID})
	}()

	p, err := s.resolve(ctx, nameOrID)
	if err != nil {
		return nil, err
	}
	doc, err = plandoc.Unmarshal(p.Document)
	if err != nil {
		return nil, fmt.Errorf("plan '%s': %w", p.Name, err)
	}
	return doc, nil
}

func (s *libraryService) List(ctx context.Context) ([]app.PlanSummary, error) {
	plans, err := s.plans.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]app.PlanSummary, 0, len(plans))
	for _, p := range plans {
		n, err := s.revisions.CountByPlan(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, app.PlanSummary{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Phases:      phaseCount(p.Document),
			Revisions:   n,
			UpdatedAt:   p.UpdatedAt.Format(summaryTimeLayout),
		})
	}
	return out, nil
}

func (s *libraryService) History(ctx context.Context, nameOrID string) ([]app.RevisionSummary, error) {
	p, err := s.resolve(ctx, nameOrID)
	if err != nil {
		return nil, err
	}
	revs, err := s.revisions.ListByPlan(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	out := make([]app.RevisionSummary, len(revs))
	for i, r := range revs {
		out[i] = app.RevisionSummary{
			ID:        r.ID,
			Number:    r.Number,
			CreatedAt: r.CreatedAt.Format(summaryTimeLayout),
		}
	}
	return out, nil
}

func (s *libraryService) Remove(ctx context.Context, nameOrID string) (err error) {
	start := time.Now()
	defer func() {
		s.observe(ctx, "library_remove", start, err, map[string]any{"plan": nameOrID})
	}()

	p, err := s.resolve(ctx, nameOrID)
	if err != nil {
		return err
	}
	return s.plans.Delete(ctx, p.ID)
}

// resolve accepts a plan ID or a case-insensitive name.
func (s *libraryService) resolve(ctx context.Context, nameOrID string) (*domain.StoredPlan, error) {
	input := strings.TrimSpace(nameOrID)
	if input == "" {
		return nil, fmt.Errorf("plan '%s': %w", nameOrID, repository.ErrNotFound)
	}
	p, err := s.plans.GetByID(ctx, input)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	p, err = s.plans.GetByName(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("plan '%s': %w", input, err)
	}
	return p, nil
}

func (s *libraryService) observe(ctx context.Context, name string, start time.Time, err error, fields map[string]any) {
	s.observer.ObserveUseCase(ctx, app.UseCaseEvent{
		Name:      name,
		Duration:  time.Since(start),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
		StartedAt: start,
	})
}

// phaseCount reads the phase count from a stored document; unreadable
// documents count as empty.
func phaseCount(data []byte) int {
	doc, err := plandoc.Unmarshal(data)
	if err != nil {
		return 0
	}
	return len(doc.Phases)
}
