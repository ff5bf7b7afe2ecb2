package skill

import "time"

// Status is the moderation state of a skill. New skills start pending; any
// edit by the creator sends an approved or rejected skill back to pending
// for re-review.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Field caps, matching the storage schema.
const (
	maxNameLen        = 100
	maxDescriptionLen = 500
	maxCategoryLen    = 50
	maxReasonLen      = 500
)

// Domain Models
type Skill struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Category        string    `json:"category,omitempty"`
	Status          Status    `json:"status"`
	RejectionReason string    `json:"rejection_reason,omitempty"`
	CreatedBy       int64     `json:"created_by,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DTOs
type CreateSkillRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type UpdateSkillRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

type RejectSkillRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ListFilter struct {
	Category string `form:"category"`
	Search   string `form:"search"`
}

type ListResponse struct {
	Skills []*Skill `json:"skills"`
	Total  int      `json:"total"`
}
