package exception

import "context"

// ExceptionService is the engine's exception-side operation surface.
type ExceptionService interface {
	// Rescan detects anomalies over raw transactions and inserts only
	// exceptions whose dedup key is not yet stored.
	Rescan(ctx context.Context, req RescanRequest) (RescanResponse, error)

	// Review transitions a PENDING exception to a terminal review state.
	Review(ctx context.Context, req ReviewRequest) (ExceptionResponse, error)

	// List retrieves exceptions for the review screen.
	List(ctx context.Context, filter ExceptionFilter) (ListExceptionsResponse, error)

	// Delete removes an exception outright. Privileged and audit-losing.
	Delete(ctx context.Context, id string) error
}
