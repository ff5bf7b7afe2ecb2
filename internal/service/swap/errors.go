package swap

import "errors"

var (
	ErrRequestNotFound  = errors.New("swap request not found")
	ErrReceiverNotFound = errors.New("receiver not found or unavailable")

	// Invalid input
	ErrSelfRequest    = errors.New("cannot send a swap request to yourself")
	ErrSkillsRequired = errors.New("both offered and wanted skills are required")
	ErrInvalidStatus  = errors.New("invalid target status")

	// Conflict
	ErrDuplicateRequest = errors.New("a pending request for these skills with this user already exists")

	// Invalid state: the request has already been resolved. Wrapped with the
	// current status so callers can report it.
	ErrNotPending = errors.New("request is no longer pending")
)
