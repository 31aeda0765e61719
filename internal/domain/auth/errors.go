package auth

import "errors"

var (
	ErrInvalidToken           = errors.New("invalid or missing access token")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
	ErrCompanyIDRequired      = errors.New("company_id claim is required")
)
