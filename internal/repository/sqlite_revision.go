package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/waterfall/internal/db"
	"github.com/alexanderramin/waterfall/internal/domain"
)

// SQLiteRevisionRepo implements RevisionRepo using a SQLite database.
type SQLiteRevisionRepo struct {
	db db.DBTX
}

func NewSQLiteRevisionRepo(conn db.DBTX) *SQLiteRevisionRepo {
	return &SQLiteRevisionRepo{db: conn}
}

func (r *SQLiteRevisionRepo) Create(ctx context.Context, rev *domain.PlanRevision) error {
	query := `INSERT INTO plan_revisions (id, plan_id, number, document, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rev.ID,
		rev.PlanID,
		rev.Number,
		string(rev.Document),
		formatTime(rev.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting plan revision: %w", err)
	}
	return nil
}

// NextNumber returns the number the next revision of planID should take.
func (r *SQLiteRevisionRepo) NextNumber(ctx context.Context, planID string) (int, error) {
	var last sql.NullInt64
	err := r.db.QueryRowContext(ctx, `SELECT MAX(number) FROM plan_revisions WHERE plan_id = ?`, planID).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("reading revision number: %w", err)
	}
	return int(last.Int64) + 1, nil
}

// ListByPlan returns revisions newest first.
func (r *SQLiteRevisionRepo) ListByPlan(ctx context.Context, planID string) ([]*domain.PlanRevision, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, plan_id, number, document, created_at FROM plan_revisions WHERE plan_id = ? ORDER BY number DESC`,
		planID)
	if err != nil {
		return nil, fmt.Errorf("listing plan revisions: %w", err)
	}
	defer rows.Close()

	var revs []*domain.PlanRevision
	for rows.Next() {
		rev, err := scanRevision(rows)
		if err != nil {
			return nil, err
		}
		revs = append(revs, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plan revisions: %w", err)
	}
	return revs, nil
}

func (r *SQLiteRevisionRepo) CountByPlan(ctx context.Context, planID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM plan_revisions WHERE plan_id = ?`, planID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting plan revisions: %w", err)
	}
	return n, nil
}

func scanRevision(s scanner) (*domain.PlanRevision, error) {
	var rev domain.PlanRevision
	var document, createdAt string
	if err := s.Scan(&rev.ID, &rev.PlanID, &rev.Number, &document, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("plan revision: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning plan revision: %w", err)
	}
	rev.Document = []byte(document)
	rev.CreatedAt = parseTime(createdAt)
	return &rev, nil
}
