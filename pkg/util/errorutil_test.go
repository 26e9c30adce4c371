package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassThrough(t *testing.T) {
	original := NewConflict("points balance changed", map[string]any{"user_id": "u1"})
	mapped := ToDomainError(original)
	assert.Equal(t, "CONFLICT", mapped.Code)
	assert.Equal(t, http.StatusConflict, mapped.HTTPStatus)
	assert.Equal(t, "u1", mapped.Details["user_id"])
}

func TestToDomainErrorWrapped(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewForbidden("transaction belongs to another user"))
	mapped := ToDomainError(wrapped)
	assert.Equal(t, "FORBIDDEN", mapped.Code)
	assert.Equal(t, http.StatusForbidden, mapped.HTTPStatus)
}

func TestToDomainErrorNoRows(t *testing.T) {
	mapped := ToDomainError(fmt.Errorf("query: %w", pgx.ErrNoRows))
	assert.Equal(t, "NOT_FOUND", mapped.Code)
	assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
}

func TestToDomainErrorContextFailures(t *testing.T) {
	mapped := ToDomainError(context.DeadlineExceeded)
	assert.Equal(t, "STORE_UNAVAILABLE", mapped.Code)
	assert.Equal(t, http.StatusServiceUnavailable, mapped.HTTPStatus)

	mapped = ToDomainError(context.Canceled)
	assert.Equal(t, "STORE_UNAVAILABLE", mapped.Code)
}

func TestToDomainErrorUnknown(t *testing.T) {
	mapped := ToDomainError(errors.New("boom"))
	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
}

func TestToDomainErrorNil(t *testing.T) {
	require.Nil(t, ToDomainError(nil))
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := NewStoreUnavailable(cause)
	assert.True(t, errors.Is(err, cause))
}
