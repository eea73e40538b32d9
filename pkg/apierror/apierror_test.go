package apierror

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAPIErrorMessage(t *testing.T) {
	t.Parallel()

	require.Equal(t, "NOT_FOUND: recipe not found", New(CodeNotFound, "recipe not found", "", http.StatusNotFound).Error())
	require.Equal(t, "VALIDATION_ERROR: title is required (title)", Validation("title is required", "title").Error())

	var nilErr *APIError
	require.Empty(t, nilErr.Error())
}

func TestHasCode(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("login: %w", New(CodeAuthenticationFailed, "invalid credentials", "", http.StatusUnauthorized))
	require.True(t, HasCode(wrapped, CodeAuthenticationFailed))
	require.False(t, HasCode(wrapped, CodeRevokedToken))
	require.False(t, HasCode(fmt.Errorf("plain"), CodeAuthenticationFailed))
}
