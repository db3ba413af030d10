package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPError(t *testing.T) {
	code := "MOD_NOT_FOUND"
	err := NewNotFoundError("mod not found", true, &code)
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Equal(t, "MOD_NOT_FOUND", err.Code)

	wrapped := fmt.Errorf("lookup: %w", err)
	assert.True(t, errors.Is(wrapped, &HTTPError{}))

	var he *HTTPError
	assert.True(t, errors.As(wrapped, &he))
	assert.Equal(t, "mod not found", he.Error())
}

func TestStatusCodes(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", NewBadRequestError("x", false, nil, nil, nil).Code)
	assert.Equal(t, "SERVICE_UNAVAILABLE", NewServiceUnavailableError("busy").Code)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", NewInternalServerError().Code)
	assert.Equal(t, http.StatusTooManyRequests, NewTooManyRequestsError("slow down").Status)
	assert.Equal(t, "TOO_MANY_REQUESTS", NewTooManyRequestsError("slow down").Code)
}
