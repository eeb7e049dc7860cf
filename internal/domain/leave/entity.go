package leave

import "time"

type LeaveRequestStatus string

const (
	LeaveRequestStatusWaitingApproval LeaveRequestStatus = "WAITING_APPROVAL"
	LeaveRequestStatusApproved        LeaveRequestStatus = "APPROVED"
	LeaveRequestStatusRejected        LeaveRequestStatus = "REJECTED"
	LeaveRequestStatusCancelled       LeaveRequestStatus = "CANCELLED"
)

// LeaveRequest is owned by the leave module; the engine only reads APPROVED
// requests. StartDate and EndDate bounds are inclusive.
type LeaveRequest struct {
	ID         string
	EmployeeID string
	Status     LeaveRequestStatus
	StartDate  time.Time
	EndDate    time.Time
	Reason     *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Covers reports whether date falls inside the request's inclusive range.
// Only the calendar day matters; hour components are ignored.
func (r LeaveRequest) Covers(date time.Time) bool {
	day := truncateToDay(date)
	return !day.Before(truncateToDay(r.StartDate)) && !day.After(truncateToDay(r.EndDate))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
