package swap

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"skillswap/internal/policy"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHandleErrorStatusCodes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"request not found", ErrRequestNotFound, http.StatusNotFound},
		{"receiver not found", ErrReceiverNotFound, http.StatusNotFound},
		{"duplicate is a conflict", ErrDuplicateRequest, http.StatusConflict},
		{"already resolved is a bad request", fmt.Errorf("%w (status: accepted)", ErrNotPending), http.StatusBadRequest},
		{"forbidden", policy.ErrForbidden, http.StatusForbidden},
		{"self request", ErrSelfRequest, http.StatusBadRequest},
		{"skills required", ErrSkillsRequired, http.StatusBadRequest},
		{"invalid status", ErrInvalidStatus, http.StatusBadRequest},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError},
	}

	handler := NewHandler(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)

			handler.handleError(c, tt.err)

			assert.Equal(t, tt.want, recorder.Code)
		})
	}
}
