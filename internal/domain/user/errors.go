package user

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrAdminPrivilegeRequired = errors.New("administrator privilege required")
	ErrPermissionDenied       = errors.New("insufficient permission for this action")
)
