// Package usecase implements the access group business logic.
package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	"github.com/allisson/userhub/internal/database"
	apperrors "github.com/allisson/userhub/internal/errors"
	featureDomain "github.com/allisson/userhub/internal/feature/domain"
	"github.com/allisson/userhub/internal/group/domain"
	appValidation "github.com/allisson/userhub/internal/validation"
)

// GroupInput contains the input data for group creation and update.
type GroupInput struct {
	Name        string   `json:"name"`
	Code        string   `json:"code"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
}

// UseCase defines the group business operations.
type UseCase interface {
	Create(ctx context.Context, input *GroupInput) (*domain.Group, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Group, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Group, error)
	Update(ctx context.Context, id uuid.UUID, input *GroupInput) (*domain.Group, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// GroupRepository defines group persistence operations.
type GroupRepository interface {
	Create(ctx context.Context, group *domain.Group) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error)
	GetByCode(ctx context.Context, code string) (*domain.Group, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Group, error)
	Update(ctx context.Context, group *domain.Group) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// GroupUseCase handles group-related business logic.
type GroupUseCase struct {
	txManager database.TxManager
	groupRepo GroupRepository
	catalog   *featureDomain.Catalog
}

// NewGroupUseCase creates a new GroupUseCase.
func NewGroupUseCase(
	txManager database.TxManager,
	groupRepo GroupRepository,
	catalog *featureDomain.Catalog,
) *GroupUseCase {
	return &GroupUseCase{
		txManager: txManager,
		groupRepo: groupRepo,
		catalog:   catalog,
	}
}

func validateGroupInput(input *GroupInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&input.Code,
			validation.Required.Error("code is required"),
			appValidation.NotBlank,
			validation.Length(1, 128).Error("code must be between 1 and 128 characters"),
		),
		validation.Field(&input.Description,
			validation.Length(0, 1024).Error("description must be at most 1024 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// normalizeFeatures canonicalizes capability keys, validates them against
// the catalog, and returns them deduplicated and sorted.
func (uc *GroupUseCase) normalizeFeatures(features []string) ([]string, error) {
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

// Create registers a new access group. The code is normalized to canonical
// form before the uniqueness check; the database constraint backs up the
// check under concurrent creates.
func (uc *GroupUseCase) Create(ctx context.Context, input *GroupInput) (*domain.Group, error) {
	if err := validateGroupInput(input); err != nil {
		return nil, err
	}

	features, err := uc.normalizeFeatures(input.Features)
	if err != nil {
		return nil, err
	}

	group := &domain.Group{
		ID:          uuid.Must(uuid.NewV7()),
		Name:        strings.TrimSpace(input.Name),
		Code:        featureDomain.NormalizeKey(input.Code),
		Description: strings.TrimSpace(input.Description),
		Features:    features,
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		_, err := uc.groupRepo.GetByCode(ctx, group.Code)
		if err == nil {
			return domain.ErrGroupCodeTaken
		}
		if !errors.Is(err, domain.ErrGroupNotFound) {
			return err
		}

		return uc.groupRepo.Create(ctx, group)
	})
	if err != nil {
		return nil, err
	}

	return group, nil
}

// Get retrieves a group by ID.
func (uc *GroupUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	return uc.groupRepo.GetByID(ctx, id)
}

// List retrieves groups with pagination.
func (uc *GroupUseCase) List(ctx context.Context, offset, limit int) ([]*domain.Group, error) {
	return uc.groupRepo.List(ctx, offset, limit)
}

// Update modifies an existing group. Changing the code re-checks uniqueness
// against other groups.
func (uc *GroupUseCase) Update(
	ctx context.Context,
	id uuid.UUID,
	input *GroupInput,
) (*domain.Group, error) {
	if err := validateGroupInput(input); err != nil {
		return nil, err
	}

	features, err := uc.normalizeFeatures(input.Features)
	if err != nil {
		return nil, err
	}

	var group *domain.Group
	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		group, err = uc.groupRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		code := featureDomain.NormalizeKey(input.Code)
		if code != group.Code {
			existing, err := uc.groupRepo.GetByCode(ctx, code)
			if err == nil && existing.ID != id {
				return domain.ErrGroupCodeTaken
			}
			if err != nil && !errors.Is(err, domain.ErrGroupNotFound) {
				return err
			}
		}

		group.Name = strings.TrimSpace(input.Name)
		group.Code = code
		group.Description = strings.TrimSpace(input.Description)
		group.Features = features

		return uc.groupRepo.Update(ctx, group)
	})
	if err != nil {
		return nil, err
	}

	return group, nil
}

// Delete removes a group. User assignments referencing it are removed by the
// schema's cascade; users keep their individual allow and deny lists.
func (uc *GroupUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	return uc.groupRepo.Delete(ctx, id)
}
