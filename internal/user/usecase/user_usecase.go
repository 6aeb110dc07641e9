// Package usecase implements the user business logic: account lifecycle,
// group assignment, permission overrides, and the password setup flow.
package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	authDomain "github.com/allisson/userhub/internal/auth/domain"
	authService "github.com/allisson/userhub/internal/auth/service"
	"github.com/allisson/userhub/internal/database"
	apperrors "github.com/allisson/userhub/internal/errors"
	featureDomain "github.com/allisson/userhub/internal/feature/domain"
	"github.com/allisson/userhub/internal/mail"
	"github.com/allisson/userhub/internal/user/domain"
	appValidation "github.com/allisson/userhub/internal/validation"
)

// CreateUserInput contains the input data for user creation. New accounts
// have no password; a password setup email is sent on creation.
type CreateUserInput struct {
	Name           string      `json:"name"`
	Login          string      `json:"login"`
	Email          string      `json:"email"`
	GroupIDs       []uuid.UUID `json:"group_ids"`
	AllowFeatures  []string    `json:"allow_features"`
	DeniedFeatures []string    `json:"denied_features"`
}

// UpdateUserInput contains the input data for user profile updates.
type UpdateUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

// UpdatePermissionsInput replaces a user's individual capability overrides.
type UpdatePermissionsInput struct {
	AllowFeatures  []string `json:"allow_features"`
	DeniedFeatures []string `json:"denied_features"`
}

// UseCase defines the user business operations.
type UseCase interface {
	Create(ctx context.Context, input *CreateUserInput) (*domain.User, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]*domain.User, error)
	Update(ctx context.Context, id uuid.UUID, input *UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateGroups(ctx context.Context, id uuid.UUID, groupIDs []uuid.UUID) (*domain.User, error)
	UpdatePermissions(ctx context.Context, id uuid.UUID, input *UpdatePermissionsInput) (*domain.User, error)
	GetPermissions(ctx context.Context, id uuid.UUID) ([]string, error)
	RequestPasswordReset(ctx context.Context, email string) error
	SetPassword(ctx context.Context, token, password string) error
}

// UserRepository defines user persistence operations. Group assignments are
// persisted together with the user row.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// GroupChecker verifies that group IDs resolve to existing groups.
// Implemented by the group repository.
type GroupChecker interface {
	ListFeaturesByGroupIDs(ctx context.Context, groupIDs []uuid.UUID) (map[uuid.UUID][]string, error)
}

// UserUseCase handles user-related business logic.
type UserUseCase struct {
	txManager          database.TxManager
	userRepo           UserRepository
	groupChecker       GroupChecker
	catalog            *featureDomain.Catalog
	tokenService       authService.TokenService
	passwordService    authService.PasswordService
	permissionResolver authService.PermissionResolver
	mailer             mail.Mailer
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(
	txManager database.TxManager,
	userRepo UserRepository,
	groupChecker GroupChecker,
	catalog *featureDomain.Catalog,
	tokenService authService.TokenService,
	passwordService authService.PasswordService,
	permissionResolver authService.PermissionResolver,
	mailer mail.Mailer,
) *UserUseCase {
	return &UserUseCase{
		txManager:          txManager,
		userRepo:           userRepo,
		groupChecker:       groupChecker,
		catalog:            catalog,
		tokenService:       tokenService,
		passwordService:    passwordService,
		permissionResolver: permissionResolver,
		mailer:             mailer,
	}
}

func validateCreateUserInput(input *CreateUserInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&input.Login,
			validation.Required.Error("login is required"),
			appValidation.Login,
		),
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

func validateUpdateUserInput(input *UpdateUserInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// normalizeFeatures canonicalizes capability keys and validates them against
// the catalog. Keys are validated at the write boundary so stored data is
// always canonical and known.
func (uc *UserUseCase) normalizeFeatures(features []string) ([]string, error) {
	seen := make(map[string]struct{}, len(features))
	normalized := make([]string, 0, len(features))
	for _, feature := range features {
		key := featureDomain.NormalizeKey(feature)
		if key == "" {
			continue
		}
		if !uc.catalog.IsValidKey(key) {
			return nil, apperrors.Wrap(domain.ErrUnknownFeature, key)
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		normalized = append(normalized, key)
	}
	sort.Strings(normalized)
	return normalized, nil
}

// checkGroupsExist fails with ErrGroupNotAssignable when any group ID does
// not resolve to an existing group.
func (uc *UserUseCase) checkGroupsExist(ctx context.Context, groupIDs []uuid.UUID) error {
	if len(groupIDs) == 0 {
		return nil
	}
	found, err := uc.groupChecker.ListFeaturesByGroupIDs(ctx, groupIDs)
	if err != nil {
		return err
	}
	for _, id := range groupIDs {
		if _, ok := found[id]; !ok {
			return apperrors.Wrap(domain.ErrGroupNotAssignable, id.String())
		}
	}
	return nil
}

// Create registers a new user without a password and sends the password
// setup email. The email is sent after the transaction commits; a delivery
// failure is not a creation failure, the user can request a reset later.
func (uc *UserUseCase) Create(ctx context.Context, input *CreateUserInput) (*domain.User, error) {
	if err := validateCreateUserInput(input); err != nil {
		return nil, err
	}

	allow, err := uc.normalizeFeatures(input.AllowFeatures)
	if err != nil {
		return nil, err
	}
	deny, err := uc.normalizeFeatures(input.DeniedFeatures)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:             uuid.Must(uuid.NewV7()),
		Name:           strings.TrimSpace(input.Name),
		Login:          strings.TrimSpace(strings.ToLower(input.Login)),
		Email:          strings.TrimSpace(strings.ToLower(input.Email)),
		IsActive:       true,
		GroupIDs:       input.GroupIDs,
		AllowFeatures:  allow,
		DeniedFeatures: deny,
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.checkGroupsExist(ctx, user.GroupIDs); err != nil {
			return err
		}
		return uc.userRepo.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	uc.sendPasswordSetupMail(ctx, user)

	return user, nil
}

func (uc *UserUseCase) sendPasswordSetupMail(ctx context.Context, user *domain.User) {
	token, err := uc.tokenService.IssuePasswordSetupToken(user.ID, user.Login)
	if err != nil {
		return
	}
	_ = uc.mailer.SendPasswordSetup(ctx, user.Email, user.Name, token)
}

// Get retrieves a user by ID.
func (uc *UserUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

// GetByLogin retrieves a user by login.
func (uc *UserUseCase) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	return uc.userRepo.GetByLogin(ctx, login)
}

// List retrieves users with pagination.
func (uc *UserUseCase) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	return uc.userRepo.List(ctx, offset, limit)
}

// Update modifies a user's profile and active flag. Login is immutable.
func (uc *UserUseCase) Update(
	ctx context.Context,
	id uuid.UUID,
	input *UpdateUserInput,
) (*domain.User, error) {
	if err := validateUpdateUserInput(input); err != nil {
		return nil, err
	}

	var user *domain.User
	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = uc.userRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		user.Name = strings.TrimSpace(input.Name)
		user.Email = strings.TrimSpace(strings.ToLower(input.Email))
		user.IsActive = input.IsActive

		return uc.userRepo.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Delete removes a user.
func (uc *UserUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	return uc.userRepo.Delete(ctx, id)
}

// UpdateGroups replaces a user's group assignments. Every referenced group
// must exist.
func (uc *UserUseCase) UpdateGroups(
	ctx context.Context,
	id uuid.UUID,
	groupIDs []uuid.UUID,
) (*domain.User, error) {
	var user *domain.User
	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.checkGroupsExist(ctx, groupIDs); err != nil {
			return err
		}

		var err error
		user, err = uc.userRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		user.GroupIDs = groupIDs
		return uc.userRepo.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// UpdatePermissions replaces a user's individual allow and deny lists. Keys
// are normalized and must exist in the catalog.
func (uc *UserUseCase) UpdatePermissions(
	ctx context.Context,
	id uuid.UUID,
	input *UpdatePermissionsInput,
) (*domain.User, error) {
	allow, err := uc.normalizeFeatures(input.AllowFeatures)
	if err != nil {
		return nil, err
	}
	deny, err := uc.normalizeFeatures(input.DeniedFeatures)
	if err != nil {
		return nil, err
	}

	var user *domain.User
	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = uc.userRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		user.AllowFeatures = allow
		user.DeniedFeatures = deny
		return uc.userRepo.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetPermissions returns a user's effective capability keys, resolved from
// groups and individual overrides.
func (uc *UserUseCase) GetPermissions(ctx context.Context, id uuid.UUID) ([]string, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.permissionResolver.Resolve(ctx, user.GroupIDs, user.AllowFeatures, user.DeniedFeatures)
}

// RequestPasswordReset sends a password setup email to the account with the
// given email address. Unknown addresses are silently accepted to prevent
// account enumeration.
func (uc *UserUseCase) RequestPasswordReset(ctx context.Context, email string) error {
	err := validation.Validate(email, validation.Required, appValidation.Email)
	if err != nil {
		return appValidation.WrapValidationError(err)
	}

	user, err := uc.userRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}

	if !user.IsActive {
		return nil
	}

	uc.sendPasswordSetupMail(ctx, user)
	return nil
}

// SetPassword completes the password setup flow: verifies the setup token,
// hashes the password, and stores it.
func (uc *UserUseCase) SetPassword(ctx context.Context, token, password string) error {
	err := validation.Validate(password,
		validation.Required.Error("password is required"),
		validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
		appValidation.PasswordStrength{
			MinLength:     8,
			RequireUpper:  true,
			RequireLower:  true,
			RequireNumber: true,
		},
	)
	if err != nil {
		return appValidation.WrapValidationError(err)
	}

	claims, err := uc.tokenService.VerifyToken(token, authDomain.PasswordSetupTokenType)
	if err != nil {
		return err
	}

	userID, err := claims.SubjectUserID()
	if err != nil {
		return err
	}

	hashed, err := uc.passwordService.HashPassword(password)
	if err != nil {
		return err
	}

	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		user, err := uc.userRepo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return authDomain.ErrInvalidToken
			}
			return err
		}

		if !user.IsActive {
			return authDomain.ErrUserInactive
		}

		user.Password = hashed
		return uc.userRepo.Update(ctx, user)
	})
}
