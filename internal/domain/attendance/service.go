package attendance

import "context"

// ProcessService is the engine's summary-side operation surface.
type ProcessService interface {
	// Preview computes summaries for a date or range without writing
	// anything. The returned batch token is required by Commit.
	Preview(ctx context.Context, req ProcessPreviewRequest) (PreviewResponse, error)

	// Commit writes a previously previewed batch. Requires an
	// administrator-class role.
	Commit(ctx context.Context, req CommitRequest) (CommitResponse, error)

	// GetMySummary returns the calling employee's stored summary for a date.
	GetMySummary(ctx context.Context, date string) (SummaryResponse, error)

	// ListSummaries lists stored summaries for reporting consumers.
	ListSummaries(ctx context.Context, filter SummaryFilter) (ListSummariesResponse, error)
}
