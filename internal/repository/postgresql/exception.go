package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/clinixa-his/attendance-engine-go/internal/domain/exception"
	"github.com/clinixa-his/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type exceptionRepository struct {
	db *database.DB
}

func NewExceptionRepository(db *database.DB) exception.ExceptionRepository {
	return &exceptionRepository{db: db}
}

// ExistingKeys implements exception.ExceptionRepository.
func (r *exceptionRepository) ExistingKeys(ctx context.Context, from, to time.Time) (map[string]struct{}, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, exception_date, exception_type
		FROM attendance_exceptions
		WHERE exception_date >= $1
		  AND exception_date <= $2
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query existing exception keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var employeeID, excType string
		var date time.Time
		if err := rows.Scan(&employeeID, &date, &excType); err != nil {
			return nil, fmt.Errorf("failed to scan exception key: %w", err)
		}
		keys[exception.DedupKey(employeeID, date, exception.ExceptionType(excType))] = struct{}{}
	}

	return keys, nil
}

// Insert implements exception.ExceptionRepository.
func (r *exceptionRepository) Insert(ctx context.Context, exc exception.Exception) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_exceptions (
			id, employee_id, exception_date, exception_type, severity,
			details, review_status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err := q.Exec(ctx, query,
		exc.ID, exc.EmployeeID, exc.ExceptionDate, exc.Type, exc.Severity,
		exc.Details, exc.ReviewStatus,
	)
	if err != nil {
		return fmt.Errorf("failed to insert exception: %w", err)
	}

	return nil
}

// GetByID implements exception.ExceptionRepository.
func (r *exceptionRepository) GetByID(ctx context.Context, id string) (exception.Exception, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT x.id, x.employee_id, x.exception_date, x.exception_type, x.severity,
			   x.details, x.review_status, x.justification, x.reviewed_by, x.review_date,
			   x.created_at, x.updated_at,
			   e.full_name AS employee_name
		FROM attendance_exceptions x
		LEFT JOIN employees e ON e.id = x.employee_id
		WHERE x.id = $1
	`

	var exc exception.Exception
	err := q.QueryRow(ctx, query, id).Scan(
		&exc.ID, &exc.EmployeeID, &exc.ExceptionDate, &exc.Type, &exc.Severity,
		&exc.Details, &exc.ReviewStatus, &exc.Justification, &exc.ReviewedBy, &exc.ReviewDate,
		&exc.CreatedAt, &exc.UpdatedAt,
		&exc.EmployeeName,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return exception.Exception{}, exception.ErrExceptionNotFound
		}
		return exception.Exception{}, fmt.Errorf("failed to get exception by ID: %w", err)
	}

	return exc, nil
}

// UpdateReview implements exception.ExceptionRepository.
func (r *exceptionRepository) UpdateReview(ctx context.Context, exc exception.Exception) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_exceptions
		SET review_status = $1,
			justification = $2,
			reviewed_by = $3,
			review_date = $4,
			updated_at = $5
		WHERE id = $6
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		exc.ReviewStatus, exc.Justification, exc.ReviewedBy, exc.ReviewDate,
		time.Now(), exc.ID,
	).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return exception.ErrExceptionNotFound
		}
		return fmt.Errorf("failed to update exception review: %w", err)
	}

	return nil
}

// List implements exception.ExceptionRepository.
func (r *exceptionRepository) List(ctx context.Context, filter exception.ExceptionFilter) ([]exception.Exception, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND x.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.ReviewStatus != nil && *filter.ReviewStatus != "" {
		baseWhere += fmt.Sprintf(" AND x.review_status = $%d", argIdx)
		args = append(args, *filter.ReviewStatus)
		argIdx++
	}
	if filter.Severity != nil && *filter.Severity != "" {
		baseWhere += fmt.Sprintf(" AND x.severity = $%d", argIdx)
		args = append(args, *filter.Severity)
		argIdx++
	}
	if filter.Type != nil && *filter.Type != "" {
		baseWhere += fmt.Sprintf(" AND x.exception_type = $%d", argIdx)
		args = append(args, *filter.Type)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND x.exception_date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND x.exception_date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM attendance_exceptions x WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count exceptions: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT x.id, x.employee_id, x.exception_date, x.exception_type, x.severity,
			   x.details, x.review_status, x.justification, x.reviewed_by, x.review_date,
			   x.created_at, x.updated_at,
			   e.full_name AS employee_name
		FROM attendance_exceptions x
		LEFT JOIN employees e ON e.id = x.employee_id
		WHERE %s
		ORDER BY x.exception_date DESC, x.severity DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)

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
		return nil, 0, fmt.Errorf("failed to query exceptions: %w", err)
	}
	defer rows.Close()

	var exceptions []exception.Exception
	for rows.Next() {
		var exc exception.Exception
		err := rows.Scan(
			&exc.ID, &exc.EmployeeID, &exc.ExceptionDate, &exc.Type, &exc.Severity,
			&exc.Details, &exc.ReviewStatus, &exc.Justification, &exc.ReviewedBy, &exc.ReviewDate,
			&exc.CreatedAt, &exc.UpdatedAt,
			&exc.EmployeeName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan exception: %w", err)
		}
		exceptions = append(exceptions, exc)
	}

	return exceptions, total, nil
}

// Delete implements exception.ExceptionRepository.
func (r *exceptionRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM attendance_exceptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete exception: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return exception.ErrExceptionNotFound
	}

	return nil
}
