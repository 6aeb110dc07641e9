package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/userhub/internal/auth/domain"
	authService "github.com/allisson/userhub/internal/auth/service"
	"github.com/allisson/userhub/internal/config"
	apperrors "github.com/allisson/userhub/internal/errors"
	userDomain "github.com/allisson/userhub/internal/user/domain"
)

// fakeUserReader serves users from an in-memory map keyed by login.
type fakeUserReader struct {
	users map[string]*userDomain.User
}

func (f *fakeUserReader) GetByLogin(_ context.Context, login string) (*userDomain.User, error) {
	if user, ok := f.users[login]; ok {
		return user, nil
	}
	return nil, userDomain.ErrUserNotFound
}

func (f *fakeUserReader) GetByEmail(_ context.Context, email string) (*userDomain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, userDomain.ErrUserNotFound
}

func (f *fakeUserReader) GetByID(_ context.Context, id uuid.UUID) (*userDomain.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, userDomain.ErrUserNotFound
}

// fakeGroupReader resolves group IDs to capability keys.
type fakeGroupReader struct {
	features map[uuid.UUID][]string
}

func (f *fakeGroupReader) ListFeaturesByGroupIDs(
	_ context.Context,
	groupIDs []uuid.UUID,
) (map[uuid.UUID][]string, error) {
	result := make(map[uuid.UUID][]string)
	for _, id := range groupIDs {
		if features, ok := f.features[id]; ok {
			result[id] = features
		}
	}
	return result, nil
}

type authFixture struct {
	useCase      AuthUseCase
	tokenService authService.TokenService
	users        *fakeUserReader
	financeGroup uuid.UUID
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:               "test-secret",
		AccessTokenExpiration:   15 * time.Minute,
		RefreshTokenExpiration:  7 * 24 * time.Hour,
		PasswordTokenExpiration: 24 * time.Hour,
	}

	passwordService, err := authService.NewPasswordService()
	require.NoError(t, err)
	hashed, err := passwordService.HashPassword("Str0ngPass!")
	require.NoError(t, err)

	financeGroup := uuid.Must(uuid.NewV7())
	groupReader := &fakeGroupReader{
		features: map[uuid.UUID][]string{
			financeGroup: {"FINANCEIRO"},
		},
	}

	users := &fakeUserReader{
		users: map[string]*userDomain.User{
			"john.doe": {
				ID:             uuid.Must(uuid.NewV7()),
				Name:           "John Doe",
				Login:          "john.doe",
				Email:          "john.doe@example.com",
				Password:       hashed,
				IsActive:       true,
				GroupIDs:       []uuid.UUID{financeGroup},
				AllowFeatures:  []string{"DASHBOARD"},
				DeniedFeatures: []string{"FINANCEIRO"},
			},
			"inactive.user": {
				ID:       uuid.Must(uuid.NewV7()),
				Login:    "inactive.user",
				Password: hashed,
				IsActive: false,
			},
			"no.password": {
				ID:       uuid.Must(uuid.NewV7()),
				Login:    "no.password",
				IsActive: true,
			},
		},
	}

	tokenService := authService.NewTokenService(
		cfg.JWTSecret,
		cfg.AccessTokenExpiration,
		cfg.RefreshTokenExpiration,
		cfg.PasswordTokenExpiration,
	)

	useCase := NewAuthUseCase(
		cfg,
		users,
		tokenService,
		passwordService,
		authService.NewPermissionResolver(groupReader),
	)

	return &authFixture{
		useCase:      useCase,
		tokenService: tokenService,
		users:        users,
		financeGroup: financeGroup,
	}
}

func TestAuthUseCase_Login(t *testing.T) {
	ctx := context.Background()
	fixture := newAuthFixture(t)

	t.Run("Success_DenyOverridesGroupGrant", func(t *testing.T) {
		output, err := fixture.useCase.Login(ctx, &authDomain.LoginInput{
			Login:    "john.doe",
			Password: "Str0ngPass!",
		})
		require.NoError(t, err)

		// Group grants FINANCEIRO, allow list adds DASHBOARD, deny list
		// removes FINANCEIRO.
		assert.Equal(t, []string{"DASHBOARD"}, output.Permissions)
		assert.Equal(t, int64(900), output.ExpiresIn)
		assert.NotEmpty(t, output.AccessToken)
		assert.NotEmpty(t, output.RefreshToken)

		claims, err := fixture.tokenService.VerifyToken(output.AccessToken, authDomain.AccessTokenType)
		require.NoError(t, err)
		assert.Equal(t, []string{"DASHBOARD"}, claims.Permissions)
		assert.Equal(t, "john.doe", claims.Login)
	})

	t.Run("Success_EmailAsIdentifier", func(t *testing.T) {
		output, err := fixture.useCase.Login(ctx, &authDomain.LoginInput{
			Login:    "john.doe@example.com",
			Password: "Str0ngPass!",
		})
		require.NoError(t, err)
		assert.Equal(t, "john.doe", output.User.Login)
	})

	t.Run("Success_MixedCaseIdentifier", func(t *testing.T) {
		output, err := fixture.useCase.Login(ctx, &authDomain.LoginInput{
			Login:    "  John.Doe ",
			Password: "Str0ngPass!",
		})
		require.NoError(t, err)
		assert.Equal(t, "john.doe", output.User.Login)
	})

	t.Run("Failure_WrongPassword", func(t *testing.T) {
		_, err := fixture.useCase.Login(ctx, &authDomain.LoginInput{
			Login:    "john.doe",
			Password: "WrongPass1",
		})
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
	})

	t.Run("Failure_UnknownLoginSameError", func(t *testing.T) {
		_, err := fixture.useCase.Login(ctx, &authDomain.LoginInput{
			Login:    "nobody",
			Password: "Str0ngPass!",
		})
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
	})

	t.Run("Failure_InactiveUser", func(t *testing.T) {
		_, err := fixture.useCase.Login(ctx, &authDomain.LoginInput{
			Login:    "inactive.user",
			Password: "Str0ngPass!",
		})
		assert.ErrorIs(t, err, authDomain.ErrUserInactive)
	})

	t.Run("Failure_PasswordNotSet", func(t *testing.T) {
		_, err := fixture.useCase.Login(ctx, &authDomain.LoginInput{
			Login:    "no.password",
			Password: "Str0ngPass!",
		})
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
	})

	t.Run("Failure_MissingFields", func(t *testing.T) {
		_, err := fixture.useCase.Login(ctx, &authDomain.LoginInput{})
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})
}

func TestAuthUseCase_Refresh(t *testing.T) {
	ctx := context.Background()
	fixture := newAuthFixture(t)

	login := func(t *testing.T) *authDomain.LoginOutput {
		t.Helper()
		output, err := fixture.useCase.Login(ctx, &authDomain.LoginInput{
			Login:    "john.doe",
			Password: "Str0ngPass!",
		})
		require.NoError(t, err)
		return output
	}

	t.Run("Success_NewPairIssued", func(t *testing.T) {
		output := login(t)

		refreshed, err := fixture.useCase.Refresh(ctx, output.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, refreshed.AccessToken)
		assert.Equal(t, []string{"DASHBOARD"}, refreshed.Permissions)
	})

	t.Run("Success_PermissionChangesPickedUp", func(t *testing.T) {
		output := login(t)

		// Lift the deny override between login and refresh.
		user := fixture.users.users["john.doe"]
		original := user.DeniedFeatures
		user.DeniedFeatures = nil
		defer func() { user.DeniedFeatures = original }()

		refreshed, err := fixture.useCase.Refresh(ctx, output.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, []string{"DASHBOARD", "FINANCEIRO"}, refreshed.Permissions)
	})

	t.Run("Failure_AccessTokenRejected", func(t *testing.T) {
		output := login(t)

		_, err := fixture.useCase.Refresh(ctx, output.AccessToken)
		assert.ErrorIs(t, err, authDomain.ErrWrongTokenType)
	})

	t.Run("Failure_GarbageToken", func(t *testing.T) {
		_, err := fixture.useCase.Refresh(ctx, "garbage")
		assert.ErrorIs(t, err, authDomain.ErrInvalidToken)
	})

	t.Run("Failure_UserDeactivatedAfterIssue", func(t *testing.T) {
		output := login(t)

		user := fixture.users.users["john.doe"]
		user.IsActive = false
		defer func() { user.IsActive = true }()

		_, err := fixture.useCase.Refresh(ctx, output.RefreshToken)
		assert.ErrorIs(t, err, authDomain.ErrUserInactive)
	})
}

func TestAuthUseCase_Logout(t *testing.T) {
	ctx := context.Background()
	fixture := newAuthFixture(t)

	t.Run("Success_ValidRefreshToken", func(t *testing.T) {
		output, err := fixture.useCase.Login(ctx, &authDomain.LoginInput{
			Login:    "john.doe",
			Password: "Str0ngPass!",
		})
		require.NoError(t, err)

		assert.NoError(t, fixture.useCase.Logout(ctx, output.RefreshToken))

		// No revocation: the same refresh token still works afterwards.
		_, err = fixture.useCase.Refresh(ctx, output.RefreshToken)
		assert.NoError(t, err)
	})

	t.Run("Failure_InvalidToken", func(t *testing.T) {
		err := fixture.useCase.Logout(ctx, "garbage")
		assert.ErrorIs(t, err, authDomain.ErrInvalidToken)
	})
}
