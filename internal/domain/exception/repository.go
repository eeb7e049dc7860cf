package exception

import (
	"context"
	"time"
)

type ExceptionRepository interface {
	// ExistingKeys returns the dedup keys of every stored exception whose
	// date falls in the inclusive [from, to] range, regardless of review
	// status.
	ExistingKeys(ctx context.Context, from, to time.Time) (map[string]struct{}, error)

	// Insert writes one exception row.
	Insert(ctx context.Context, exc Exception) error

	// GetByID retrieves a single exception.
	GetByID(ctx context.Context, id string) (Exception, error)

	// UpdateReview persists the review fields of an exception.
	UpdateReview(ctx context.Context, exc Exception) error

	// List retrieves exceptions with filters and pagination.
	List(ctx context.Context, filter ExceptionFilter) ([]Exception, int64, error)

	// Delete removes an exception outright. Audit-losing; privileged callers
	// only.
	Delete(ctx context.Context, id string) error
}
