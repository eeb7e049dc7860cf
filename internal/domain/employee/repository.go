package employee

import "context"

type EmployeeRepository interface {
	// ListActive retrieves all employees with ACTIVE employment status.
	ListActive(ctx context.Context) ([]Employee, error)

	// GetByID retrieves an employee regardless of status.
	GetByID(ctx context.Context, id string) (Employee, error)
}
