package user

import (
	"errors"
	"net/http"
	"strconv"

	"skillswap/internal/policy"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// Browse handles GET /users
func (h *Handler) Browse(c *gin.Context) {
	var filter BrowseFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	users, err := h.service.Browse(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Users: users, Total: len(users)})
}

// Skills handles GET /users/skills — distinct skill names across public profiles.
func (h *Handler) Skills(c *gin.Context) {
	names, err := h.service.SkillNames(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"skills": names})
}

// Get handles GET /users/:id — public profiles only.
func (h *Handler) Get(c *gin.Context) {
	userID, err := userParam(c)
	if err != nil {
		return
	}

	user, err := h.service.GetPublic(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetProfile handles GET /profile
func (h *Handler) GetProfile(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}

	user, err := h.service.GetProfile(c.Request.Context(), actorID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), actorID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListAll handles GET /admin/users
func (h *Handler) ListAll(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}

	users, err := h.service.ListAll(c.Request.Context(), actorID, c.Query("search"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Users: users, Total: len(users)})
}

// Ban handles POST /admin/users/:id/ban
func (h *Handler) Ban(c *gin.Context) {
	userID, err := userParam(c)
	if err != nil {
		return
	}

	var req BanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, ok := actor(c)
	if !ok {
		return
	}

	user, err := h.service.Ban(c.Request.Context(), userID, actorID, req.Reason)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Unban handles POST /admin/users/:id/unban
func (h *Handler) Unban(c *gin.Context) {
	userID, err := userParam(c)
	if err != nil {
		return
	}

	actorID, ok := actor(c)
	if !ok {
		return
	}

	user, err := h.service.Unban(c.Request.Context(), userID, actorID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func userParam(c *gin.Context) (int64, error) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, err
	}
	return userID, nil
}

func actor(c *gin.Context) (int64, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, false
	}
	return userID.(int64), true
}

// handleError maps domain errors to HTTP status codes
func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, policy.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ErrBanReasonRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
