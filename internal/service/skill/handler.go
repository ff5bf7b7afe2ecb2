package skill

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

// List handles GET /skills — approved skills only.
func (h *Handler) List(c *gin.Context) {
	var filter ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	skills, err := h.service.ListApproved(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Skills: skills, Total: len(skills)})
}

// Get handles GET /skills/:id — approved skills only.
func (h *Handler) Get(c *gin.Context) {
	skillID, err := skillParam(c)
	if err != nil {
		return
	}

	skill, err := h.service.GetApproved(c.Request.Context(), skillID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, skill)
}

// Categories handles GET /skills/categories
func (h *Handler) Categories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Create handles POST /skills
func (h *Handler) Create(c *gin.Context) {
	var req CreateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, ok := actor(c)
	if !ok {
		return
	}

	skill, err := h.service.Propose(c.Request.Context(), actorID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, skill)
}

// Update handles PUT /skills/:id
func (h *Handler) Update(c *gin.Context) {
	skillID, err := skillParam(c)
	if err != nil {
		return
	}

	var req UpdateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, ok := actor(c)
	if !ok {
		return
	}

	skill, err := h.service.Edit(c.Request.Context(), skillID, actorID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, skill)
}

// Delete handles DELETE /skills/:id
func (h *Handler) Delete(c *gin.Context) {
	skillID, err := skillParam(c)
	if err != nil {
		return
	}

	actorID, ok := actor(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), skillID, actorID); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "skill deleted"})
}

// ListPending handles GET /admin/skills/pending
func (h *Handler) ListPending(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}

	skills, err := h.service.ListPending(c.Request.Context(), actorID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Skills: skills, Total: len(skills)})
}

// Approve handles POST /admin/skills/:id/approve
func (h *Handler) Approve(c *gin.Context) {
	skillID, err := skillParam(c)
	if err != nil {
		return
	}

	actorID, ok := actor(c)
	if !ok {
		return
	}

	skill, err := h.service.Approve(c.Request.Context(), skillID, actorID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, skill)
}

// Reject handles POST /admin/skills/:id/reject
func (h *Handler) Reject(c *gin.Context) {
	skillID, err := skillParam(c)
	if err != nil {
		return
	}

	var req RejectSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, ok := actor(c)
	if !ok {
		return
	}

	skill, err := h.service.Reject(c.Request.Context(), skillID, actorID, req.Reason)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, skill)
}

func skillParam(c *gin.Context) (int64, error) {
	skillID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid skill id"})
		return 0, err
	}
	return skillID, nil
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
	case errors.Is(err, ErrSkillNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrSkillExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, policy.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNameRequired), errors.Is(err, ErrReasonRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
