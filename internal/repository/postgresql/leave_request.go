package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/clinixa-his/attendance-engine-go/internal/domain/leave"
	"github.com/clinixa-his/attendance-engine-go/internal/pkg/database"
)

type leaveRequestRepository struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{db: db}
}

// ListApprovedOverlapping implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) ListApprovedOverlapping(ctx context.Context, from, to time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, status, start_date, end_date, reason,
			   created_at, updated_at
		FROM leave_requests
		WHERE status = $1
		  AND start_date <= $3
		  AND end_date >= $2
		ORDER BY employee_id, start_date
	`

	rows, err := q.Query(ctx, query, leave.LeaveRequestStatusApproved, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query approved leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		var req leave.LeaveRequest
		err := rows.Scan(
			&req.ID, &req.EmployeeID, &req.Status, &req.StartDate, &req.EndDate, &req.Reason,
			&req.CreatedAt, &req.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, nil
}
