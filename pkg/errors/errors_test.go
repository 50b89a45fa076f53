package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	cases := map[*AppError]int{
		NewNotFoundError("x"):          http.StatusNotFound,
		NewValidationError("x"):        http.StatusBadRequest,
		NewConflictError("x"):          http.StatusConflict,
		NewUnauthorizedError("x"):      http.StatusUnauthorized,
		NewInternalError("x", nil):     http.StatusInternalServerError,
		NewExternalError("x", nil):     http.StatusBadGateway,
		NewUnavailableError("x"):       http.StatusServiceUnavailable,
		{Type: ErrorType("SOMETHING")}: http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, err.StatusCode(), string(err.Type))
	}
}

func TestAsAndIsType(t *testing.T) {
	wrapped := fmt.Errorf("loading user: %w", NewNotFoundError("user not found"))

	appErr, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "user not found", appErr.Message)
	assert.True(t, IsType(wrapped, ErrorTypeNotFound))
	assert.False(t, IsType(wrapped, ErrorTypeConflict))

	_, ok = As(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestErrorString(t *testing.T) {
	err := NewInternalError("failed to list users", fmt.Errorf("connection reset"))
	assert.Equal(t, "INTERNAL: failed to list users: connection reset", err.Error())
	assert.Equal(t, "VALIDATION: email is required", NewValidationError("email is required").Error())
}
