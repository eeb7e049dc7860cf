package attendance

import (
	"context"
	"time"
)

// TransactionRepository reads the append-only swipe log. The engine never
// writes transactions.
type TransactionRepository interface {
	// ListByDateRange retrieves all transactions whose date falls in the
	// inclusive [from, to] range, ordered by employee, date, time.
	ListByDateRange(ctx context.Context, from, to time.Time) ([]Transaction, error)
}

// SummaryRepository stores the engine's daily summaries.
type SummaryRepository interface {
	// ExistingKeys returns the (employee_id, date) keys already stored for
	// the given dates. Used for skip-existing and overwrite decisions.
	ExistingKeys(ctx context.Context, dates []time.Time) (map[string]struct{}, error)

	// Insert writes a single summary row.
	Insert(ctx context.Context, summary DailySummary) error

	// ReplaceForDates deletes every stored summary for the given dates and
	// inserts the new batch as one atomic transaction. It must never touch
	// dates outside the given set.
	ReplaceForDates(ctx context.Context, dates []time.Time, summaries []DailySummary) (int, error)

	// GetByEmployeeAndDate retrieves the summary for one identity key.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (DailySummary, error)

	// List retrieves stored summaries with filters and pagination.
	List(ctx context.Context, filter SummaryFilter) ([]DailySummary, int64, error)
}
