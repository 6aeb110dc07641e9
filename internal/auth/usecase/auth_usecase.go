// Package usecase implements business logic orchestration for authentication.
package usecase

import (
	"context"
	"errors"
	"strings"

	validation "github.com/jellydator/validation"

	authDomain "github.com/allisson/userhub/internal/auth/domain"
	authService "github.com/allisson/userhub/internal/auth/service"
	"github.com/allisson/userhub/internal/config"
	userDomain "github.com/allisson/userhub/internal/user/domain"
	appValidation "github.com/allisson/userhub/internal/validation"
)

// authUseCase implements AuthUseCase.
type authUseCase struct {
	config             *config.Config
	userReader         UserReader
	tokenService       authService.TokenService
	passwordService    authService.PasswordService
	permissionResolver authService.PermissionResolver
}

// NewAuthUseCase creates an AuthUseCase with the provided dependencies.
func NewAuthUseCase(
	cfg *config.Config,
	userReader UserReader,
	tokenService authService.TokenService,
	passwordService authService.PasswordService,
	permissionResolver authService.PermissionResolver,
) AuthUseCase {
	return &authUseCase{
		config:             cfg,
		userReader:         userReader,
		tokenService:       tokenService,
		passwordService:    passwordService,
		permissionResolver: permissionResolver,
	}
}

func validateLoginInput(input *authDomain.LoginInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.Login,
			validation.Required.Error("login is required"),
			appValidation.NotBlank,
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// Login authenticates a user and issues a credential pair. The identifier
// may be either a login or an email address.
//
// Returns ErrInvalidCredentials for unknown identifiers, accounts without a
// password, and wrong passwords alike to prevent account enumeration.
// Returns ErrUserInactive for deactivated accounts.
func (a *authUseCase) Login(
	ctx context.Context,
	input *authDomain.LoginInput,
) (*authDomain.LoginOutput, error) {
	if err := validateLoginInput(input); err != nil {
		return nil, err
	}

	user, err := a.findByLoginOrEmail(ctx, input.Login)
	if err != nil {
		if errors.Is(err, userDomain.ErrUserNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, authDomain.ErrUserInactive
	}

	if !user.HasPassword() {
		return nil, authDomain.ErrInvalidCredentials
	}

	if !a.passwordService.ComparePassword(input.Password, user.Password) {
		return nil, authDomain.ErrInvalidCredentials
	}

	return a.issuePair(ctx, user)
}

// findByLoginOrEmail resolves the login identifier. Logins and emails are
// stored lowercased, so the identifier is canonicalized the same way before
// lookup; an identifier missing as a login is retried as an email.
func (a *authUseCase) findByLoginOrEmail(
	ctx context.Context,
	identifier string,
) (*userDomain.User, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))

	user, err := a.userReader.GetByLogin(ctx, identifier)
	if errors.Is(err, userDomain.ErrUserNotFound) {
		return a.userReader.GetByEmail(ctx, identifier)
	}
	return user, err
}

// Refresh exchanges a valid refresh token for a fresh credential pair.
// Permissions are re-resolved against the current group and override state,
// so a refresh picks up permission changes made since the last issuance.
func (a *authUseCase) Refresh(
	ctx context.Context,
	refreshToken string,
) (*authDomain.LoginOutput, error) {
	claims, err := a.tokenService.VerifyToken(refreshToken, authDomain.RefreshTokenType)
	if err != nil {
		return nil, err
	}

	userID, err := claims.SubjectUserID()
	if err != nil {
		return nil, err
	}

	user, err := a.userReader.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userDomain.ErrUserNotFound) {
			return nil, authDomain.ErrInvalidToken
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, authDomain.ErrUserInactive
	}

	return a.issuePair(ctx, user)
}

// Logout validates the refresh token and returns. Issued credentials remain
// valid until expiration.
func (a *authUseCase) Logout(ctx context.Context, refreshToken string) error {
	_, err := a.tokenService.VerifyToken(refreshToken, authDomain.RefreshTokenType)
	return err
}

func (a *authUseCase) issuePair(
	ctx context.Context,
	user *userDomain.User,
) (*authDomain.LoginOutput, error) {
	permissions, err := a.permissionResolver.Resolve(
		ctx, user.GroupIDs, user.AllowFeatures, user.DeniedFeatures,
	)
	if err != nil {
		return nil, err
	}

	accessToken, err := a.tokenService.IssueAccessToken(user.ID, user.Login, user.Name, permissions)
	if err != nil {
		return nil, err
	}

	refreshToken, err := a.tokenService.IssueRefreshToken(user.ID, user.Login)
	if err != nil {
		return nil, err
	}

	return &authDomain.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(a.config.AccessTokenExpiration.Seconds()),
		User:         user,
		Permissions:  permissions,
	}, nil
}
