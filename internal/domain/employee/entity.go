package employee

import "time"

// Employee is owned by the HR roster module and is read-only to the
// attendance engine.
type Employee struct {
	ID               string
	EmployeeCode     string
	FullName         string
	Department       string
	Position         *string
	EmploymentStatus EmploymentStatus
	HireDate         time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "ACTIVE"
	EmploymentStatusResigned   EmploymentStatus = "RESIGNED"
	EmploymentStatusTerminated EmploymentStatus = "TERMINATED"
)

// IsActive reports whether the engine should process this employee at all.
func (e Employee) IsActive() bool {
	return e.EmploymentStatus == EmploymentStatusActive
}
