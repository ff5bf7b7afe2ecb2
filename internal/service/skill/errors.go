package skill

import "errors"

var (
	ErrSkillNotFound = errors.New("skill not found")
	ErrSkillExists   = errors.New("skill already exists")

	// Invalid input
	ErrNameRequired   = errors.New("skill name is required")
	ErrReasonRequired = errors.New("rejection reason is required")
)
