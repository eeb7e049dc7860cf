package exception

import "errors"

var (
	ErrExceptionNotFound     = errors.New("attendance exception not found")
	ErrAlreadyReviewed       = errors.New("exception has already been reviewed")
	ErrJustificationRequired = errors.New("a justification is required to justify an exception")
	ErrUnknownReviewAction   = errors.New("unknown review action")
)
