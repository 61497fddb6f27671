package jwt

import (
	"testing"
	"time"

	"mon-mentale-api/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(secret string) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:        secret,
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	s := newTestJWTService("test-secret")
	userID := uuid.New()

	token, tokenID, err := s.GenerateAccessToken(userID, "jane@example.com", "psychologue")
	require.NoError(t, err)
	require.NotEmpty(t, tokenID)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "psychologue", claims.Role)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.Equal(t, tokenID, claims.TokenID)
}

func TestRefreshTokenType(t *testing.T) {
	s := newTestJWTService("test-secret")

	token, _, err := s.GenerateRefreshToken(uuid.New(), "jane@example.com", "patient")
	require.NoError(t, err)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, RefreshToken, claims.TokenType)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	s := newTestJWTService("test-secret")
	token, _, err := s.GenerateAccessToken(uuid.New(), "jane@example.com", "patient")
	require.NoError(t, err)

	other := newTestJWTService("other-secret")
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	s := newTestJWTService("test-secret")
	_, err := s.ValidateToken("not-a-jwt")
	assert.Error(t, err)
}
