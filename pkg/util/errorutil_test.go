package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshFailedWrapsCause(t *testing.T) {
	cause := errors.New("refresh rejected")
	err := NewRefreshFailed(cause)

	assert.True(t, IsRefreshFailed(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "refresh rejected")
}

func TestHasCodeSeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("load profile: %w", NewUnauthenticated("no credential"))

	assert.True(t, IsUnauthenticated(err))
	assert.False(t, IsRefreshFailed(err))
	assert.False(t, HasCode(errors.New("plain"), CodeUnauthenticated))
	assert.False(t, HasCode(nil, CodeUnauthenticated))
}

func TestToDomainError(t *testing.T) {
	domain := ToDomainError(NewForbidden("owner role required"))
	require.NotNil(t, domain)
	assert.Equal(t, CodeForbidden, domain.Code)
	assert.Equal(t, http.StatusForbidden, domain.HTTPStatus)

	// Unknown errors default to the transport bucket.
	wrapped := ToDomainError(errors.New("connection reset"))
	require.NotNil(t, wrapped)
	assert.Equal(t, CodeNetworkError, wrapped.Code)

	assert.Nil(t, ToDomainError(nil))
}

func TestAPIErrorDefaultsMessage(t *testing.T) {
	err := NewAPIError(http.StatusBadGateway, "", nil)
	domain := ToDomainError(err)
	require.NotNil(t, domain)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), domain.Message)
	assert.Equal(t, http.StatusBadGateway, domain.HTTPStatus)
}

func TestValidationErrorCarriesDetails(t *testing.T) {
	err := NewValidationError("email required", map[string]any{"field": "email"})
	domain := ToDomainError(err)
	require.NotNil(t, domain)
	assert.Equal(t, CodeValidation, domain.Code)
	assert.Equal(t, "email", domain.Details["field"])
}
