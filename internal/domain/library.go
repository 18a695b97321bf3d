package domain

import "time"

// StoredPlan is a plan kept in the local library. Document holds the
// serialized plan exactly as it would be written to a file.
type StoredPlan struct {
	ID          string
	Name        string
	Description string
	Document    []byte
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PlanRevision is one saved snapshot of a stored plan. Numbers start at 1
// and increase per plan.
type PlanRevision struct {
	ID        string
	PlanID    string
	Number    int
	Document  []byte
	CreatedAt time.Time
}
