package user

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserExists        = errors.New("user already exists with this email")
	ErrBanReasonRequired = errors.New("ban reason is required")
)
