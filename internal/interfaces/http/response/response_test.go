package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "bitwill.backend/internal/domain/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func runError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Error(c, err)
	return w
}

func TestError_AppError(t *testing.T) {
	w := runError(t, domainerrors.NotFound("will not found"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "will not found")
}

func TestError_SentinelMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domainerrors.ErrNotFound, http.StatusNotFound},
		{domainerrors.ErrAlreadyExists, http.StatusConflict},
		{domainerrors.ErrInvalidInput, http.StatusBadRequest},
		{domainerrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{domainerrors.ErrSubscriptionRequired, http.StatusForbidden},
		{domainerrors.ErrGenerationFailed, http.StatusBadGateway},
	}
	for _, tc := range cases {
		w := runError(t, tc.err)
		assert.Equal(t, tc.status, w.Code, "error %v", tc.err)
	}
}

func TestError_WrappedSentinelWins(t *testing.T) {
	w := runError(t, domainerrors.NewError("document generation failed", domainerrors.ErrGenerationFailed))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "document generation failed")
}

func TestError_UnknownHidesDetail(t *testing.T) {
	w := runError(t, errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "pq:")
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Success(c, http.StatusCreated, gin.H{"id": "abc"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "abc")
}
