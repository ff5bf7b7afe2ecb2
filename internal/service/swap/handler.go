package swap

import (
	"context"
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

// Create handles POST /swap-requests
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, ok := actor(c)
	if !ok {
		return
	}

	request, err := h.service.Create(c.Request.Context(), actorID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// Update handles PUT /swap-requests/:id — accept, reject or cancel.
func (h *Handler) Update(c *gin.Context) {
	requestID, err := requestParam(c)
	if err != nil {
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, ok := actor(c)
	if !ok {
		return
	}

	request, err := h.service.Transition(c.Request.Context(), requestID, actorID, Status(req.Status), req.AcceptanceMessage)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// Get handles GET /swap-requests/:id
func (h *Handler) Get(c *gin.Context) {
	requestID, err := requestParam(c)
	if err != nil {
		return
	}

	actorID, ok := actor(c)
	if !ok {
		return
	}

	request, err := h.service.Get(c.Request.Context(), requestID, actorID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// Delete handles DELETE /swap-requests/:id
func (h *Handler) Delete(c *gin.Context) {
	requestID, err := requestParam(c)
	if err != nil {
		return
	}

	actorID, ok := actor(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), requestID, actorID); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "swap request deleted"})
}

// ListSent handles GET /swap-requests/my-requests
func (h *Handler) ListSent(c *gin.Context) {
	h.list(c, h.service.ListSent)
}

// ListReceived handles GET /swap-requests/received
func (h *Handler) ListReceived(c *gin.Context) {
	h.list(c, h.service.ListReceived)
}

func (h *Handler) list(c *gin.Context, fn func(ctx context.Context, userID int64, status string) ([]*SwapRequest, error)) {
	var filter ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, ok := actor(c)
	if !ok {
		return
	}

	requests, err := fn(c.Request.Context(), actorID, filter.Status)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Requests: requests, Total: len(requests)})
}

func requestParam(c *gin.Context) (int64, error) {
	requestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return 0, err
	}
	return requestID, nil
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
	case errors.Is(err, ErrRequestNotFound), errors.Is(err, ErrReceiverNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrDuplicateRequest):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, policy.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotPending), errors.Is(err, ErrSelfRequest),
		errors.Is(err, ErrSkillsRequired), errors.Is(err, ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
