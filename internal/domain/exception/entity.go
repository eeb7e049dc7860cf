package exception

import (
	"time"

	"github.com/clinixa-his/attendance-engine-go/internal/domain/attendance"
	"github.com/google/uuid"
)

type ExceptionType string

const (
	TypeLateArrival     ExceptionType = "LATE_ARRIVAL"
	TypeEarlyDeparture  ExceptionType = "EARLY_DEPARTURE"
	TypeMissingCheckout ExceptionType = "MISSING_CHECKOUT"

	// Present in imported/manual records only; the detector never raises
	// these two.
	TypeAbnormalHours       ExceptionType = "ABNORMAL_HOURS"
	TypeUnauthorizedAbsence ExceptionType = "UNAUTHORIZED_ABSENCE"
)

type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// SeverityForMinutes tiers a lateness/early-departure deviation.
func SeverityForMinutes(minutes int) Severity {
	switch {
	case minutes >= 60:
		return SeverityHigh
	case minutes >= 30:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

type ReviewStatus string

const (
	ReviewStatusPending       ReviewStatus = "PENDING"
	ReviewStatusJustified     ReviewStatus = "JUSTIFIED"
	ReviewStatusWarningIssued ReviewStatus = "WARNING_ISSUED"
	ReviewStatusDismissed     ReviewStatus = "DISMISSED"
)

// Exception is a flagged deviation requiring human review. At most one
// exception of a given type per employee per day may exist.
type Exception struct {
	ID            string
	EmployeeID    string
	ExceptionDate time.Time
	Type          ExceptionType
	Severity      Severity
	Details       string
	ReviewStatus  ReviewStatus
	Justification *string
	ReviewedBy    *string
	ReviewDate    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// DTO
	EmployeeName *string
}

// idNamespace seeds the deterministic exception IDs. Stable forever; changing
// it would re-mint every stored identity.
var idNamespace = uuid.MustParse("7b1d3c52-9a41-4c78-b6de-0d2f5a8c3e19")

// DedupKey is the (employee_id, date, type) identity used to deduplicate
// re-scans against stored exceptions.
func DedupKey(employeeID string, date time.Time, t ExceptionType) string {
	return employeeID + "|" + attendance.DateKey(date) + "|" + string(t)
}

// NewID derives the exception ID from its dedup key, so identity never
// depends on wall-clock collision avoidance and re-scans cannot mint a second
// ID for the same anomaly.
func NewID(employeeID string, date time.Time, t ExceptionType) string {
	return uuid.NewSHA1(idNamespace, []byte(DedupKey(employeeID, date, t))).String()
}

// Key returns the exception's dedup key.
func (e Exception) Key() string {
	return DedupKey(e.EmployeeID, e.ExceptionDate, e.Type)
}

type ReviewAction string

const (
	ActionJustify      ReviewAction = "justify"
	ActionIssueWarning ReviewAction = "issue_warning"
	ActionDismiss      ReviewAction = "dismiss"
)

// ApplyReview transitions a PENDING exception to exactly one terminal state.
// Terminal states are not re-enterable; a justification is mandatory for the
// justify action.
func (e *Exception) ApplyReview(action ReviewAction, justification string, reviewedBy string, at time.Time) error {
	if e.ReviewStatus != ReviewStatusPending {
		return ErrAlreadyReviewed
	}

	switch action {
	case ActionJustify:
		if justification == "" {
			return ErrJustificationRequired
		}
		e.ReviewStatus = ReviewStatusJustified
		e.Justification = &justification
	case ActionIssueWarning:
		e.ReviewStatus = ReviewStatusWarningIssued
		if justification != "" {
			e.Justification = &justification
		}
	case ActionDismiss:
		e.ReviewStatus = ReviewStatusDismissed
		if justification != "" {
			e.Justification = &justification
		}
	default:
		return ErrUnknownReviewAction
	}

	e.ReviewedBy = &reviewedBy
	e.ReviewDate = &at
	return nil
}
