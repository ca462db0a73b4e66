package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"finquest/internal/middleware"
)

func TestHashPasswordUsesCost12(t *testing.T) {
	svc := NewAuthService("secret", time.Hour)

	hash, err := svc.HashPassword("NewPass!23")
	require.NoError(t, err)
	assert.NotEqual(t, "NewPass!23", hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 12, cost)
}

func TestCheckPassword(t *testing.T) {
	svc := NewAuthService("secret", time.Hour)

	hash, err := svc.HashPassword("correct horse")
	require.NoError(t, err)

	assert.NoError(t, svc.CheckPassword(hash, "correct horse"))
	assert.Error(t, svc.CheckPassword(hash, "wrong horse"))
}

func TestIssueTokenRoundTrip(t *testing.T) {
	secret := "test-signing-key"
	svc := NewAuthService(secret, time.Hour)

	signed, err := svc.IssueToken(42)
	require.NoError(t, err)

	claims := &middleware.Claims{}
	token, err := jwt.ParseWithClaims(signed, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, 42, claims.UserID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestIssueTokenRejectedWithWrongKey(t *testing.T) {
	svc := NewAuthService("right-key", time.Hour)

	signed, err := svc.IssueToken(42)
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(signed, &middleware.Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte("wrong-key"), nil
	})
	assert.Error(t, err)
}
