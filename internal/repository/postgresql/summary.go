package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/clinixa-his/attendance-engine-go/internal/domain/attendance"
	"github.com/clinixa-his/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type summaryRepository struct {
	db *database.DB
}

func NewSummaryRepository(db *database.DB) attendance.SummaryRepository {
	return &summaryRepository{db: db}
}

// ExistingKeys implements attendance.SummaryRepository.
func (r *summaryRepository) ExistingKeys(ctx context.Context, dates []time.Time) (map[string]struct{}, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, summary_date
		FROM daily_attendance_summaries
		WHERE summary_date = ANY($1)
	`

	rows, err := q.Query(ctx, query, dates)
	if err != nil {
		return nil, fmt.Errorf("failed to query existing summary keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var employeeID string
		var date time.Time
		if err := rows.Scan(&employeeID, &date); err != nil {
			return nil, fmt.Errorf("failed to scan summary key: %w", err)
		}
		keys[attendance.SummaryKey(employeeID, date)] = struct{}{}
	}

	return keys, nil
}

const insertSummaryQuery = `
	INSERT INTO daily_attendance_summaries (
		id, employee_id, summary_date, first_in, last_out, status,
		total_hours, regular_hours, overtime_hours, late_minutes
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
	)
`

// Insert implements attendance.SummaryRepository.
func (r *summaryRepository) Insert(ctx context.Context, s attendance.DailySummary) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, insertSummaryQuery,
		s.ID, s.EmployeeID, s.Date, s.FirstIn, s.LastOut, s.Status,
		s.TotalHours, s.RegularHours, s.OvertimeHours, s.LateMinutes,
	)
	if err != nil {
		return fmt.Errorf("failed to insert summary: %w", err)
	}

	return nil
}

// ReplaceForDates implements attendance.SummaryRepository. The delete and the
// inserts are one transaction: a failure mid-commit can never leave a date
// with zero or duplicated summaries.
func (r *summaryRepository) ReplaceForDates(ctx context.Context, dates []time.Time, summaries []attendance.DailySummary) (int, error) {
	written := 0
	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		// Scoped to exactly the dates being reprocessed.
		if _, err := tx.Exec(ctx, `DELETE FROM daily_attendance_summaries WHERE summary_date = ANY($1)`, dates); err != nil {
			return fmt.Errorf("failed to delete summaries for overwrite: %w", err)
		}

		for _, s := range summaries {
			if _, err := tx.Exec(ctx, insertSummaryQuery,
				s.ID, s.EmployeeID, s.Date, s.FirstIn, s.LastOut, s.Status,
				s.TotalHours, s.RegularHours, s.OvertimeHours, s.LateMinutes,
			); err != nil {
				return fmt.Errorf("failed to insert summary %s: %w", s.Key(), err)
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return written, nil
}

// GetByEmployeeAndDate implements attendance.SummaryRepository.
func (r *summaryRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.DailySummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT s.id, s.employee_id, s.summary_date, s.first_in, s.last_out, s.status,
			   s.total_hours, s.regular_hours, s.overtime_hours, s.late_minutes,
			   s.created_at, s.updated_at,
			   e.full_name AS employee_name
		FROM daily_attendance_summaries s
		LEFT JOIN employees e ON e.id = s.employee_id
		WHERE s.employee_id = $1
		  AND s.summary_date = $2
	`

	var s attendance.DailySummary
	err := q.QueryRow(ctx, query, employeeID, date).Scan(
		&s.ID, &s.EmployeeID, &s.Date, &s.FirstIn, &s.LastOut, &s.Status,
		&s.TotalHours, &s.RegularHours, &s.OvertimeHours, &s.LateMinutes,
		&s.CreatedAt, &s.UpdatedAt,
		&s.EmployeeName,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.DailySummary{}, attendance.ErrSummaryNotFound
		}
		return attendance.DailySummary{}, fmt.Errorf("failed to get summary by employee and date: %w", err)
	}

	return s, nil
}

// List implements attendance.SummaryRepository.
func (r *summaryRepository) List(ctx context.Context, filter attendance.SummaryFilter) ([]attendance.DailySummary, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND s.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND s.summary_date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND s.summary_date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND s.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM daily_attendance_summaries s WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count summaries: %w", err)
	}

	selectQuery := strings.Join([]string{`
		SELECT s.id, s.employee_id, s.summary_date, s.first_in, s.last_out, s.status,
			   s.total_hours, s.regular_hours, s.overtime_hours, s.late_minutes,
			   s.created_at, s.updated_at,
			   e.full_name AS employee_name
		FROM daily_attendance_summaries s
		LEFT JOIN employees e ON e.id = s.employee_id
		WHERE `, baseWhere, fmt.Sprintf(`
		ORDER BY s.summary_date DESC, e.full_name ASC
		LIMIT $%d OFFSET $%d
	`, argIdx, argIdx+1)}, "")

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page == 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query summaries: %w", err)
	}
	defer rows.Close()

	var summaries []attendance.DailySummary
	for rows.Next() {
		var s attendance.DailySummary
		err := rows.Scan(
			&s.ID, &s.EmployeeID, &s.Date, &s.FirstIn, &s.LastOut, &s.Status,
			&s.TotalHours, &s.RegularHours, &s.OvertimeHours, &s.LateMinutes,
			&s.CreatedAt, &s.UpdatedAt,
			&s.EmployeeName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, total, nil
}
