package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsCarryStatusAndCode(t *testing.T) {
	cases := []struct {
		err    error
		code   string
		status int
	}{
		{NewValidationError("bad", nil), "VALIDATION_FAILED", http.StatusBadRequest},
		{NewUnauthorized("nope"), "UNAUTHORIZED", http.StatusUnauthorized},
		{NewForbidden("nope"), "FORBIDDEN", http.StatusForbidden},
		{NewNotFound("book", nil), "NOT_FOUND", http.StatusNotFound},
		{NewAssetMissing("cover"), "ASSET_MISSING", http.StatusNotFound},
		{NewConflict("dup", nil), "CONFLICT", http.StatusConflict},
		{NewInternalError(errors.New("boom")), "INTERNAL_ERROR", http.StatusInternalServerError},
		{NewBadGateway("upstream", errors.New("boom")), "BAD_GATEWAY", http.StatusBadGateway},
		{NewServiceUnavailable("down", errors.New("boom")), "SERVICE_UNAVAILABLE", http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		var de *DomainError
		require.ErrorAs(t, tc.err, &de)
		assert.Equal(t, tc.code, de.Code)
		assert.Equal(t, tc.status, de.HTTPStatus)
	}
}

func TestToDomainErrorPassesThrough(t *testing.T) {
	original := NewForbidden("mine")
	converted := ToDomainError(original)
	assert.Equal(t, "FORBIDDEN", converted.Code)
	assert.Equal(t, "mine", converted.Message)
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	converted := ToDomainError(errors.New("mystery"))
	assert.Equal(t, "INTERNAL_ERROR", converted.Code)
	assert.Equal(t, http.StatusInternalServerError, converted.HTTPStatus)
	// internal details never leak into the client message
	assert.Equal(t, "internal server error", converted.Message)
}

func TestToDomainErrorMapsNoRows(t *testing.T) {
	converted := ToDomainError(fmt.Errorf("load book: %w", pgx.ErrNoRows))
	assert.Equal(t, "NOT_FOUND", converted.Code)
	assert.Equal(t, http.StatusNotFound, converted.HTTPStatus)
}

func TestToDomainErrorMapsFiberErrors(t *testing.T) {
	converted := ToDomainError(fiber.ErrMethodNotAllowed)
	assert.Equal(t, http.StatusMethodNotAllowed, converted.HTTPStatus)

	converted = ToDomainError(fiber.ErrNotFound)
	assert.Equal(t, "NOT_FOUND", converted.Code)
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("socket closed")
	err := NewBadGateway("storage unreachable", cause)
	assert.True(t, errors.Is(err, cause))
}

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}
