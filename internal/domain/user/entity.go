package user

import "time"

// User is an account on the hospital administrative system. The attendance
// engine only cares about the role carried in its token claims.
type User struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	Role         Role
	EmployeeID   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Role string

const (
	// RoleAdmin is administrator-class: may commit batches and delete
	// exception records.
	RoleAdmin Role = "admin"
	// RoleHRManager runs previews, rescans and reviews exceptions.
	RoleHRManager Role = "hr_manager"
	// RoleStaff can only see their own attendance.
	RoleStaff Role = "staff"
)
