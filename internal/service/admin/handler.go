package admin

import (
	"errors"
	"net/http"

	"skillswap/internal/service/swap"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo  Repository
	swaps *swap.Service
}

func NewHandler(repo Repository, swaps *swap.Service) *Handler {
	return &Handler{
		repo:  repo,
		swaps: swaps,
	}
}

// Stats handles GET /admin/stats
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.repo.PlatformStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListRequests handles GET /admin/requests
func (h *Handler) ListRequests(c *gin.Context) {
	requests, err := h.swaps.ListAll(c.Request.Context(), c.Query("status"))
	if err != nil {
		if errors.Is(err, swap.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, swap.ListResponse{Requests: requests, Total: len(requests)})
}
