package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	session := UserSession{
		ID:        "user-1",
		Name:      "Dana",
		Email:     "dana@example.com",
		TenantID:  "tenant-1",
		ProfileID: "standard",
	}

	token, err := GenerateToken(session)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, session, claims.User)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestValidateTokenRejectsMissingTenant(t *testing.T) {
	token, err := GenerateToken(UserSession{ID: "user-1", Name: "Dana"})
	require.NoError(t, err)

	_, err = ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tenant")
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, UserSession{ProfileID: "admin"}.IsAdmin())
	assert.False(t, UserSession{ProfileID: "standard"}.IsAdmin())
	assert.False(t, UserSession{}.IsAdmin())
}
