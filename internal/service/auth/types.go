package auth

import "skillswap/internal/service/user"

// DTOs
type RegisterRequest struct {
	Name          string   `json:"name" binding:"required"`
	Email         string   `json:"email" binding:"required,email"`
	Password      string   `json:"password" binding:"required,min=6"`
	Location      string   `json:"location"`
	Availability  string   `json:"availability"`
	SkillsOffered []string `json:"skills_offered" binding:"required,min=1"`
	SkillsWanted  []string `json:"skills_wanted" binding:"required,min=1"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

type TokenResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}
