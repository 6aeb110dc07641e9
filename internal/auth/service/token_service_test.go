package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/userhub/internal/auth/domain"
	apperrors "github.com/allisson/userhub/internal/errors"
)

func newTestTokenService() TokenService {
	return NewTokenService("test-secret", 15*time.Minute, 7*24*time.Hour, 24*time.Hour)
}

func TestTokenService_AccessToken(t *testing.T) {
	svc := newTestTokenService()
	userID := uuid.Must(uuid.NewV7())

	t.Run("Success_IssueAndVerify", func(t *testing.T) {
		token, err := svc.IssueAccessToken(userID, "john.doe", "John Doe", []string{"DASHBOARD", "USER-MANAGEMENT"})
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := svc.VerifyToken(token, authDomain.AccessTokenType)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.Subject)
		assert.Equal(t, "john.doe", claims.Login)
		assert.Equal(t, "John Doe", claims.Name)
		assert.Equal(t, []string{"DASHBOARD", "USER-MANAGEMENT"}, claims.Permissions)
		assert.Equal(t, authDomain.AccessTokenType, claims.TokenType)
	})

	t.Run("Failure_WrongTokenType", func(t *testing.T) {
		token, err := svc.IssueAccessToken(userID, "john.doe", "John Doe", nil)
		require.NoError(t, err)

		_, err = svc.VerifyToken(token, authDomain.RefreshTokenType)
		assert.ErrorIs(t, err, authDomain.ErrWrongTokenType)
	})

	t.Run("Failure_TamperedToken", func(t *testing.T) {
		token, err := svc.IssueAccessToken(userID, "john.doe", "John Doe", nil)
		require.NoError(t, err)

		_, err = svc.VerifyToken(token+"x", authDomain.AccessTokenType)
		assert.ErrorIs(t, err, authDomain.ErrInvalidToken)
		assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
	})

	t.Run("Failure_WrongSecret", func(t *testing.T) {
		other := NewTokenService("other-secret", 15*time.Minute, time.Hour, time.Hour)
		token, err := other.IssueAccessToken(userID, "john.doe", "John Doe", nil)
		require.NoError(t, err)

		_, err = svc.VerifyToken(token, authDomain.AccessTokenType)
		assert.ErrorIs(t, err, authDomain.ErrInvalidToken)
	})

	t.Run("Failure_ExpiredToken", func(t *testing.T) {
		expired := NewTokenService("test-secret", -time.Minute, time.Hour, time.Hour)
		token, err := expired.IssueAccessToken(userID, "john.doe", "John Doe", nil)
		require.NoError(t, err)

		_, err = svc.VerifyToken(token, authDomain.AccessTokenType)
		assert.ErrorIs(t, err, authDomain.ErrInvalidToken)
	})

	t.Run("Failure_GarbageToken", func(t *testing.T) {
		_, err := svc.VerifyToken("not-a-token", authDomain.AccessTokenType)
		assert.ErrorIs(t, err, authDomain.ErrInvalidToken)
	})
}

func TestTokenService_RefreshToken(t *testing.T) {
	svc := newTestTokenService()
	userID := uuid.Must(uuid.NewV7())

	t.Run("Success_IssueAndVerify", func(t *testing.T) {
		token, err := svc.IssueRefreshToken(userID, "john.doe")
		require.NoError(t, err)

		claims, err := svc.VerifyToken(token, authDomain.RefreshTokenType)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.Subject)
		assert.Equal(t, "john.doe", claims.Login)
		assert.Empty(t, claims.Permissions)
	})

	t.Run("Failure_NotAcceptedAsAccessToken", func(t *testing.T) {
		token, err := svc.IssueRefreshToken(userID, "john.doe")
		require.NoError(t, err)

		_, err = svc.VerifyToken(token, authDomain.AccessTokenType)
		assert.ErrorIs(t, err, authDomain.ErrWrongTokenType)
	})
}

func TestTokenService_PasswordSetupToken(t *testing.T) {
	svc := newTestTokenService()
	userID := uuid.Must(uuid.NewV7())

	t.Run("Success_IssueAndVerify", func(t *testing.T) {
		token, err := svc.IssuePasswordSetupToken(userID, "john.doe")
		require.NoError(t, err)

		claims, err := svc.VerifyToken(token, authDomain.PasswordSetupTokenType)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.Subject)
		assert.Equal(t, authDomain.PasswordSetupTokenType, claims.TokenType)
	})

	t.Run("Failure_NotAcceptedAsRefreshToken", func(t *testing.T) {
		token, err := svc.IssuePasswordSetupToken(userID, "john.doe")
		require.NoError(t, err)

		_, err = svc.VerifyToken(token, authDomain.RefreshTokenType)
		assert.ErrorIs(t, err, authDomain.ErrWrongTokenType)
	})
}
