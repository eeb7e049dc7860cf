package exception

import (
	"time"

	"github.com/clinixa-his/attendance-engine-go/internal/pkg/validator"
)

// RescanRequest drives a detector run. AsOfDate is explicit so the engine is
// testable without time mocking; an in-progress shift on that date is never
// flagged as a missing checkout.
type RescanRequest struct {
	AsOfDate  string `json:"as_of_date"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

func (r RescanRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.AsOfDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "as_of_date", Message: "as_of_date must be YYYY-MM-DD"})
	}
	if r.StartDate != "" {
		if _, ok := validator.IsValidDate(r.StartDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be YYYY-MM-DD"})
		}
	}
	if r.EndDate != "" {
		if _, ok := validator.IsValidDate(r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be YYYY-MM-DD"})
		}
	}
	if r.StartDate != "" && r.EndDate != "" {
		from, _ := time.Parse("2006-01-02", r.StartDate)
		to, _ := time.Parse("2006-01-02", r.EndDate)
		if to.Before(from) {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must not be before start_date"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RescanResponse struct {
	NewCount int `json:"new_count"`
}

type ReviewRequest struct {
	ID            string `json:"-"`
	Action        string `json:"action"`
	Justification string `json:"justification,omitempty"`
}

func (r ReviewRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "exception id is required"})
	}
	if !validator.IsInSlice(r.Action, []string{
		string(ActionJustify), string(ActionIssueWarning), string(ActionDismiss),
	}) {
		errs = append(errs, validator.ValidationError{Field: "action", Message: "action must be justify, issue_warning or dismiss"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ExceptionFilter struct {
	EmployeeID   *string
	ReviewStatus *string
	Severity     *string
	Type         *string
	StartDate    *string
	EndDate      *string
	Page         int
	Limit        int
}

func (f ExceptionFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.ReviewStatus != nil && !validator.IsInSlice(*f.ReviewStatus, []string{
		string(ReviewStatusPending), string(ReviewStatusJustified),
		string(ReviewStatusWarningIssued), string(ReviewStatusDismissed),
	}) {
		errs = append(errs, validator.ValidationError{Field: "review_status", Message: "unknown review status"})
	}
	if f.Severity != nil && !validator.IsInSlice(*f.Severity, []string{
		string(SeverityLow), string(SeverityMedium), string(SeverityHigh),
	}) {
		errs = append(errs, validator.ValidationError{Field: "severity", Message: "unknown severity"})
	}
	if f.Type != nil && !validator.IsInSlice(*f.Type, []string{
		string(TypeLateArrival), string(TypeEarlyDeparture), string(TypeMissingCheckout),
		string(TypeAbnormalHours), string(TypeUnauthorizedAbsence),
	}) {
		errs = append(errs, validator.ValidationError{Field: "exception_type", Message: "unknown exception type"})
	}
	if f.StartDate != nil {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be YYYY-MM-DD"})
		}
	}
	if f.EndDate != nil {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be YYYY-MM-DD"})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ExceptionResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  *string `json:"employee_name,omitempty"`
	ExceptionDate string  `json:"exception_date"`
	Type          string  `json:"exception_type"`
	Severity      string  `json:"severity"`
	Details       string  `json:"details"`
	ReviewStatus  string  `json:"review_status"`
	Justification *string `json:"justification,omitempty"`
	ReviewedBy    *string `json:"reviewed_by,omitempty"`
	ReviewDate    *string `json:"review_date,omitempty"`
}

type ListExceptionsResponse struct {
	TotalCount int64               `json:"total_count"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	Exceptions []ExceptionResponse `json:"exceptions"`
}

// MapExceptionToResponse converts an Exception entity to its response form.
func MapExceptionToResponse(e Exception) ExceptionResponse {
	var reviewDate *string
	if e.ReviewDate != nil {
		formatted := e.ReviewDate.Format("2006-01-02 15:04:05")
		reviewDate = &formatted
	}

	return ExceptionResponse{
		ID:            e.ID,
		EmployeeID:    e.EmployeeID,
		EmployeeName:  e.EmployeeName,
		ExceptionDate: e.ExceptionDate.Format("2006-01-02"),
		Type:          string(e.Type),
		Severity:      string(e.Severity),
		Details:       e.Details,
		ReviewStatus:  string(e.ReviewStatus),
		Justification: e.Justification,
		ReviewedBy:    e.ReviewedBy,
		ReviewDate:    reviewDate,
	}
}
