package httputil

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/errors"
)

func respond(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	RespondWithError(c, err)
	return w
}

func TestRespondWithErrorMapsAppErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{apperrors.NotFound("doctor", nil), http.StatusNotFound},
		{apperrors.Conflict("slot taken", nil), http.StatusConflict},
		{apperrors.RateLimited("slow down"), http.StatusTooManyRequests},
		{apperrors.QuotaExhausted("no credits"), http.StatusPaymentRequired},
		{apperrors.Unavailable("processor down", nil), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		w := respond(tt.err)
		assert.Equal(t, tt.status, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"error"`)
	}
}

func TestRespondWithErrorUnwrapsWrappedAppError(t *testing.T) {
	wrapped := fmt.Errorf("loading appointment: %w", apperrors.NotFound("appointment", nil))
	w := respond(wrapped)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRespondWithErrorHidesInternalDetail(t *testing.T) {
	w := respond(errors.New("pq: connection refused"))
	assert.NotContains(t, w.Body.String(), "connection refused")
	assert.Contains(t, w.Body.String(), "internal server error")
}
