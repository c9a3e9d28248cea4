package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"wrapped unauthorized", fmt.Errorf("fetch cart: %w", ErrUnauthorized), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"invalid credentials", ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"duplicate user", ErrUserAlreadyExists, http.StatusConflict, "USER_ALREADY_EXISTS"},
		{"conflict", ErrConflict, http.StatusConflict, "CONFLICT"},
		{"out of stock", ErrOutOfStock, http.StatusUnprocessableEntity, "OUT_OF_STOCK"},
		{"unavailable", fmt.Errorf("list books: %w", ErrUnavailable), http.StatusBadGateway, "BACKEND_UNAVAILABLE"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.ToErrorResponse().Code)
		})
	}
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "not_found", Outcome(fmt.Errorf("profile: %w", ErrNotFound)))
	assert.Equal(t, "unauthorized", Outcome(ErrInvalidCredentials))
	assert.Equal(t, "conflict", Outcome(ErrUserAlreadyExists))
	assert.Equal(t, "unavailable", Outcome(ErrUnavailable))
	assert.Equal(t, "error", Outcome(fmt.Errorf("other")))
}
