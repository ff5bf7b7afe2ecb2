package swap

import "time"

// Status is the lifecycle state of a swap request. A request starts pending
// and moves exactly once to accepted, rejected or cancelled.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is defined from s.
func (s Status) Terminal() bool {
	return s.Valid() && s != StatusPending
}

// Field caps, matching the storage schema.
const (
	maxSkillLen   = 100
	maxMessageLen = 500
)

// Domain Models
type SwapRequest struct {
	ID                int64     `json:"id"`
	RequesterID       int64     `json:"requester_id"`
	ReceiverID        int64     `json:"receiver_id"`
	SkillOffered      string    `json:"skill_offered"`
	SkillWanted       string    `json:"skill_wanted"`
	Message           string    `json:"message,omitempty"`
	AcceptanceMessage string    `json:"acceptance_message,omitempty"`
	Status            Status    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// DTOs
type CreateRequest struct {
	ReceiverID   int64  `json:"receiver_id" binding:"required"`
	SkillOffered string `json:"skill_offered" binding:"required"`
	SkillWanted  string `json:"skill_wanted" binding:"required"`
	Message      string `json:"message"`
}

type UpdateRequest struct {
	Status            string `json:"status" binding:"required"`
	AcceptanceMessage string `json:"acceptance_message"`
}

type ListFilter struct {
	Status string `form:"status"`
}

type ListResponse struct {
	Requests []*SwapRequest `json:"requests"`
	Total    int            `json:"total"`
}
