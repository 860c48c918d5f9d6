package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeCommentNotFound, http.StatusNotFound},
		{CodeInvalidIdentifier, http.StatusNotFound},
		{CodeAlreadyExists, http.StatusConflict},
		{CodeAlreadyLiked, http.StatusBadRequest},
		{CodeNotLiked, http.StatusBadRequest},
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeInvalidCredentials, http.StatusUnauthorized},
		{CodeTokenExpired, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeUnavailable, http.StatusServiceUnavailable},
		{CodeInternal, http.StatusInternalServerError},
		{Code("UNKNOWN"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestError_Is_MatchesByCode(t *testing.T) {
	err := AlreadyLiked("list already liked")
	assert.True(t, Is(err, ErrAlreadyLiked))
	assert.False(t, Is(err, ErrNotLiked))
	assert.False(t, Is(err, ErrNotFound))
}

func TestError_WrapPreservesCause(t *testing.T) {
	cause := stderrors.New("disk gone")
	err := Wrap(cause, CodeUnavailable, "store unavailable")

	assert.Equal(t, http.StatusServiceUnavailable, err.HTTPStatus())
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk gone")
}

func TestError_WithDetails(t *testing.T) {
	err := ValidationWithDetails("validation failed", map[string]string{"name": "is required"})
	assert.Equal(t, CodeValidation, err.Code)
	assert.NotNil(t, err.Details)
}

func TestInvalidIdentifier_DistinctFromNotFound(t *testing.T) {
	// Both map to 404 at the transport edge but must stay distinguishable.
	malformed := InvalidIdentifier("malformed list id")
	missing := NotFound("list not found")

	assert.Equal(t, malformed.HTTPStatus(), missing.HTTPStatus())
	assert.False(t, Is(malformed, ErrNotFound))
	assert.False(t, Is(missing, ErrInvalidIdentifier))
}
