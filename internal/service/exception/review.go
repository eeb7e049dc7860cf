package exception

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clinixa-his/attendance-engine-go/internal/domain/exception"
	"github.com/clinixa-his/attendance-engine-go/internal/domain/user"
)

// Review implements exception.ExceptionService.
func (s *ExceptionServiceImpl) Review(ctx context.Context, req exception.ReviewRequest) (exception.ExceptionResponse, error) {
	role, userID, err := claimsFromContext(ctx)
	if err != nil {
		return exception.ExceptionResponse{}, err
	}
	if !user.HasPermission(role, user.PermissionExceptionReview) {
		return exception.ExceptionResponse{}, user.ErrPermissionDenied
	}

	if err := req.Validate(); err != nil {
		return exception.ExceptionResponse{}, err
	}

	exc, err := s.ExceptionRepository.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, exception.ErrExceptionNotFound) {
			return exception.ExceptionResponse{}, exception.ErrExceptionNotFound
		}
		return exception.ExceptionResponse{}, fmt.Errorf("failed to get exception: %w", err)
	}

	if err := exc.ApplyReview(exception.ReviewAction(req.Action), req.Justification, userID, time.Now()); err != nil {
		return exception.ExceptionResponse{}, err
	}

	if err := s.ExceptionRepository.UpdateReview(ctx, exc); err != nil {
		return exception.ExceptionResponse{}, fmt.Errorf("failed to update exception review: %w", err)
	}

	return exception.MapExceptionToResponse(exc), nil
}

// List implements exception.ExceptionService.
func (s *ExceptionServiceImpl) List(ctx context.Context, filter exception.ExceptionFilter) (exception.ListExceptionsResponse, error) {
	role, _, err := claimsFromContext(ctx)
	if err != nil {
		return exception.ListExceptionsResponse{}, err
	}
	if !user.HasPermission(role, user.PermissionExceptionView) {
		return exception.ListExceptionsResponse{}, user.ErrPermissionDenied
	}

	if err := filter.Validate(); err != nil {
		return exception.ListExceptionsResponse{}, err
	}

	exceptions, total, err := s.ExceptionRepository.List(ctx, filter)
	if err != nil {
		return exception.ListExceptionsResponse{}, fmt.Errorf("failed to list exceptions: %w", err)
	}

	responses := make([]exception.ExceptionResponse, 0, len(exceptions))
	for _, exc := range exceptions {
		responses = append(responses, exception.MapExceptionToResponse(exc))
	}

	return exception.ListExceptionsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Exceptions: responses,
	}, nil
}

// Delete implements exception.ExceptionService. Deletion loses the review
// audit trail, so only administrator-class roles may call it.
func (s *ExceptionServiceImpl) Delete(ctx context.Context, id string) error {
	role, _, err := claimsFromContext(ctx)
	if err != nil {
		return err
	}
	if !user.HasPermission(role, user.PermissionExceptionDelete) {
		return user.ErrAdminPrivilegeRequired
	}

	if err := s.ExceptionRepository.Delete(ctx, id); err != nil {
		if errors.Is(err, exception.ErrExceptionNotFound) {
			return exception.ErrExceptionNotFound
		}
		return fmt.Errorf("failed to delete exception: %w", err)
	}

	return nil
}
