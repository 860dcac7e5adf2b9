package service

import (
	"testing"
	"time"

	"github.com/prepwise/quizmaster-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testAuthService() *AuthService {
	cfg := &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
	return NewAuthService(cfg, nil, nil)
}

func TestHashAndCheckPassword(t *testing.T) {
	svc := testAuthService()

	hash, err := svc.HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.NoError(t, svc.CheckPassword(hash, "hunter22"))
	assert.ErrorIs(t, svc.CheckPassword(hash, "wrong"), ErrInvalidCredentials)
}

func TestTokenRoundTrip(t *testing.T) {
	svc := testAuthService()

	token, err := svc.generateToken(TokenTypeUser, 42)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeUser, claims.TokenType)
	assert.Equal(t, 42, claims.UserID)
	assert.NotEmpty(t, claims.ID, "token carries a JTI")
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := testAuthService()

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc := testAuthService()
	token, err := svc.generateToken(TokenTypeAdmin, 1)
	require.NoError(t, err)

	other := NewAuthService(&config.Config{
		JWTSecret: "different-secret",
		JWTExpiry: time.Hour,
	}, nil, nil)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestAdminTokenKeepsType(t *testing.T) {
	svc := testAuthService()

	token, err := svc.generateToken(TokenTypeAdmin, 7)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeAdmin, claims.TokenType)
}
