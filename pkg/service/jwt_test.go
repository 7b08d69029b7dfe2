package service

import (
	"testing"
	"time"

	apperrors "inventory-system/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestGenerateAndValidateTokens(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour, time.Hour*24)

	access, refresh, err := svc.GenerateTokens(7, "team_lead")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), claims.UserID)
	assert.Equal(t, "team_lead", claims.Role)
	assert.False(t, claims.IsRefreshToken)

	claims, err = svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.True(t, claims.IsRefreshToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour, time.Hour)
	other := NewJWTService("another-secret", time.Hour, time.Hour)

	access, _, err := svc.GenerateTokens(1, "user")
	require.NoError(t, err)

	_, err = other.ValidateToken(access)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := NewJWTService(testSecret, -time.Minute, -time.Minute)

	access, _, err := svc.GenerateTokens(1, "user")
	require.NoError(t, err)

	_, err = svc.ValidateToken(access)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour, time.Hour)

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
