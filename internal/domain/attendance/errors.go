package attendance

import "errors"

var (
	ErrSummaryNotFound = errors.New("attendance summary not found")

	// Consistency errors: programming/integration mistakes, never silently fixed.
	ErrUnknownPreviewBatch = errors.New("commit requires a batch token from a prior preview in this session")
	ErrPreviewBatchExpired = errors.New("preview batch has expired, run the preview again")
	ErrInvalidProcessMode  = errors.New("process mode must be \"single\" or \"range\"")
)
