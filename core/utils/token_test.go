package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legacy-sukawarna/rsvp-app/core/config"
	"github.com/legacy-sukawarna/rsvp-app/core/constants"
)

func setTestSecret(t *testing.T, secret string) {
	t.Helper()
	config.Set(&config.Config{JWT: config.JWTConfig{Secret: secret}})
}

func TestTokenRoundTrip(t *testing.T) {
	setTestSecret(t, "test-secret")

	userID := uuid.New()
	token, err := GenerateToken(userID, "ana@example.com", "ana", constants.ScopeTokenAccess)
	require.NoError(t, err)

	claims, err := ValidateAndParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, constants.ScopeTokenAccess, claims.Scope)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestTokenScopeIsPreserved(t *testing.T) {
	setTestSecret(t, "test-secret")

	token, err := GenerateToken(uuid.New(), "ana@example.com", "ana", constants.ScopeTokenRefresh)
	require.NoError(t, err)

	claims, err := ValidateAndParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, constants.ScopeTokenRefresh, claims.Scope)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	setTestSecret(t, "first-secret")
	token, err := GenerateToken(uuid.New(), "ana@example.com", "ana", constants.ScopeTokenAccess)
	require.NoError(t, err)

	setTestSecret(t, "second-secret")
	_, err = ValidateAndParseToken(token)
	assert.Error(t, err)
}

func TestTokenRejectsGarbage(t *testing.T) {
	setTestSecret(t, "test-secret")

	_, err := ValidateAndParseToken("not.a.jwt")
	assert.Error(t, err)
}
