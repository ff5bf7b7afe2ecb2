package user

import "time"

// Field caps, matching the storage schema.
const (
	maxNameLen         = 100
	maxLocationLen     = 100
	maxAvailabilityLen = 50
	maxBanReasonLen    = 500
	maxSkillLen        = 100
)

// Domain Models
type User struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email,omitempty"`
	PasswordHash  string    `json:"-"`
	Location      string    `json:"location,omitempty"`
	Availability  string    `json:"availability"`
	IsPublic      bool      `json:"is_public"`
	IsBanned      bool      `json:"is_banned"`
	BanReason     string    `json:"ban_reason,omitempty"`
	SkillsOffered []string  `json:"skills_offered"`
	SkillsWanted  []string  `json:"skills_wanted"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Public returns a copy safe for public listings: no email, no ban details.
func (u *User) Public() *User {
	out := *u
	out.Email = ""
	out.BanReason = ""
	return &out
}

// DTOs
type UpdateProfileRequest struct {
	Name          string   `json:"name"`
	Email         string   `json:"email" binding:"omitempty,email"`
	Location      *string  `json:"location"`
	Availability  string   `json:"availability"`
	IsPublic      *bool    `json:"is_public"`
	SkillsOffered []string `json:"skills_offered"`
	SkillsWanted  []string `json:"skills_wanted"`
}

type BanRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type BrowseFilter struct {
	Skill  string `form:"skill"`
	Search string `form:"search"`
}

type ListResponse struct {
	Users []*User `json:"users"`
	Total int     `json:"total"`
}
