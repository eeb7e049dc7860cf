package leave

import (
	"context"
	"time"
)

type LeaveRequestRepository interface {
	// ListApprovedOverlapping retrieves APPROVED leave requests whose
	// inclusive [start_date, end_date] range overlaps [from, to].
	ListApprovedOverlapping(ctx context.Context, from, to time.Time) ([]LeaveRequest, error)
}
