package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/waterfall/internal/domain"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type PlanRepo interface {
	Create(ctx context.Context, p *domain.StoredPlan) error
	GetByID(ctx context.Context, id string) (*domain.StoredPlan, error)
	GetByName(ctx context.Context, name string) (*domain.StoredPlan, error)
	List(ctx context.Context) ([]*domain.StoredPlan, error)
	Update(ctx context.Context, p *domain.StoredPlan) error
	Delete(ctx context.Context, id string) error
}

type RevisionRepo interface {
	Create(ctx context.Context, r *domain.PlanRevision) error
	NextNumber(ctx context.Context, planID string) (int, error)
	ListByPlan(ctx context.Context, planID string) ([]*domain.PlanRevision, error)
	CountByPlan(ctx context.Context, planID string) (int, error)
}
