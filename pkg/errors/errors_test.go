package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	e := NotFound("testimonial", "abc-123")
	assert.Contains(t, e.Error(), "NOT_FOUND")
	assert.Contains(t, e.Error(), "abc-123")

	wrapped := &AppError{Code: "X", Message: "msg", Err: errors.New("cause")}
	assert.Contains(t, wrapped.Error(), "cause")
}

func TestAppError_Unwrap(t *testing.T) {
	e := DuplicateEmail("jane@example.com")
	assert.ErrorIs(t, e, ErrDuplicateEmail)
}

func TestDuplicateEmail(t *testing.T) {
	e := DuplicateEmail("jane@example.com")
	assert.Equal(t, "DUPLICATE_EMAIL", e.Code)
	assert.Equal(t, http.StatusConflict, e.Status)
	assert.Contains(t, e.Message, "jane@example.com")
}

func TestHTTPStatus_AppError(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("customer", "1")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(DuplicateEmail("a@x.com")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(InvalidInput("bad")))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(Unauthorized("nope")))
}

func TestHTTPStatus_Sentinels(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrAlreadyExists, http.StatusConflict},
		{ErrDuplicateEmail, http.StatusConflict},
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrServiceUnavail, http.StatusServiceUnavailable},
		{errors.New("anything else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, HTTPStatus(tt.err), "for error %v", tt.err)
	}
}

func TestHTTPStatus_WrappedSentinel(t *testing.T) {
	err := fmt.Errorf("resolve customer: %w", ErrDuplicateEmail)
	assert.Equal(t, http.StatusConflict, HTTPStatus(err))
}

func TestWrap(t *testing.T) {
	base := errors.New("boom")
	err := Wrap(base, "load testimonial")
	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "load testimonial")
}
