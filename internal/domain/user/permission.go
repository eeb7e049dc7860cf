package user

type Permission string

const (
	// Attendance processing
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendancePreview Permission = "attendance.process_preview"
	PermissionAttendanceCommit  Permission = "attendance.process_commit"

	// Exception handling
	PermissionExceptionRescan Permission = "exception.rescan"
	PermissionExceptionView   Permission = "exception.view"
	PermissionExceptionReview Permission = "exception.review"
	PermissionExceptionDelete Permission = "exception.delete"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionAttendancePreview,
		PermissionAttendanceCommit,
		PermissionExceptionRescan,
		PermissionExceptionView,
		PermissionExceptionReview,
		PermissionExceptionDelete,
	},
	RoleHRManager: {
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionAttendancePreview,
		PermissionExceptionRescan,
		PermissionExceptionView,
		PermissionExceptionReview,
	},
	RoleStaff: {
		PermissionAttendanceViewOwn,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
