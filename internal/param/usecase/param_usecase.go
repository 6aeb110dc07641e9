// Package usecase implements the parameterization business logic.
package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	"github.com/allisson/userhub/internal/database"
	apperrors "github.com/allisson/userhub/internal/errors"
	featureDomain "github.com/allisson/userhub/internal/feature/domain"
	"github.com/allisson/userhub/internal/param/domain"
	appValidation "github.com/allisson/userhub/internal/validation"
)

// ParameterizationInput contains the input data for creation and update.
type ParameterizationInput struct {
	FriendlyName   string   `json:"friendly_name"`
	TechnicalKey   string   `json:"technical_key"`
	DataType       string   `json:"data_type"`
	Value          string   `json:"value"`
	ScopeType      string   `json:"scope_type"`
	ScopeTargetIDs []string `json:"scope_target_ids"`
	Editable       *bool    `json:"editable"`
}

// UseCase defines the parameterization business operations.
type UseCase interface {
	Create(ctx context.Context, input *ParameterizationInput) (*domain.Parameterization, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Parameterization, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Parameterization, error)
	Update(ctx context.Context, id uuid.UUID, input *ParameterizationInput) (*domain.Parameterization, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ParameterizationRepository defines parameterization persistence operations.
type ParameterizationRepository interface {
	Create(ctx context.Context, param *domain.Parameterization) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Parameterization, error)
	GetByTechnicalKey(ctx context.Context, key string) (*domain.Parameterization, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Parameterization, error)
	Update(ctx context.Context, param *domain.Parameterization) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ParameterizationUseCase handles parameterization business logic.
type ParameterizationUseCase struct {
	txManager database.TxManager
	paramRepo ParameterizationRepository
}

// NewParameterizationUseCase creates a new ParameterizationUseCase.
func NewParameterizationUseCase(
	txManager database.TxManager,
	paramRepo ParameterizationRepository,
) *ParameterizationUseCase {
	return &ParameterizationUseCase{
		txManager: txManager,
		paramRepo: paramRepo,
	}
}

func validateParameterizationInput(input *ParameterizationInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.FriendlyName,
			validation.Required.Error("friendly_name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("friendly_name must be between 1 and 255 characters"),
		),
		validation.Field(&input.TechnicalKey,
			validation.Required.Error("technical_key is required"),
			appValidation.NotBlank,
			validation.Length(1, 128).Error("technical_key must be between 1 and 128 characters"),
		),
		validation.Field(&input.DataType,
			validation.Required.Error("data_type is required"),
			validation.In(
				string(domain.DataTypeString),
				string(domain.DataTypeNumber),
				string(domain.DataTypeBoolean),
				string(domain.DataTypeJSON),
			).Error("data_type must be one of: string, number, boolean, json"),
		),
		validation.Field(&input.ScopeType,
			validation.Required.Error("scope_type is required"),
			validation.In(
				string(domain.ScopeGlobal),
				string(domain.ScopeGroup),
				string(domain.ScopeUser),
			).Error("scope_type must be one of: global, group, user"),
		),
	)
	if err != nil {
		return appValidation.WrapValidationError(err)
	}

	return validateValue(domain.DataType(input.DataType), input.Value)
}

// validateValue checks that the value parses under the declared data type.
func validateValue(dataType domain.DataType, value string) error {
	switch dataType {
	case domain.DataTypeNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return apperrors.Wrap(apperrors.ErrInvalidInput, "value is not a valid number")
		}
	case domain.DataTypeBoolean:
		if _, err := strconv.ParseBool(value); err != nil {
			return apperrors.Wrap(apperrors.ErrInvalidInput, "value is not a valid boolean")
		}
	case domain.DataTypeJSON:
		if !json.Valid([]byte(value)) {
			return apperrors.Wrap(apperrors.ErrInvalidInput, "value is not valid JSON")
		}
	}
	return nil
}

// Create registers a new parameterization. The technical key is normalized
// to canonical form before the uniqueness check.
func (uc *ParameterizationUseCase) Create(
	ctx context.Context,
	input *ParameterizationInput,
) (*domain.Parameterization, error) {
	if err := validateParameterizationInput(input); err != nil {
		return nil, err
	}

	editable := true
	if input.Editable != nil {
		editable = *input.Editable
	}

	param := &domain.Parameterization{
		ID:             uuid.Must(uuid.NewV7()),
		FriendlyName:   strings.TrimSpace(input.FriendlyName),
		TechnicalKey:   featureDomain.NormalizeKey(input.TechnicalKey),
		DataType:       domain.DataType(input.DataType),
		Value:          input.Value,
		ScopeType:      domain.ScopeType(input.ScopeType),
		ScopeTargetIDs: input.ScopeTargetIDs,
		Editable:       editable,
	}

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		_, err := uc.paramRepo.GetByTechnicalKey(ctx, param.TechnicalKey)
		if err == nil {
			return domain.ErrTechnicalKeyTaken
		}
		if !errors.Is(err, domain.ErrParameterizationNotFound) {
			return err
		}

		return uc.paramRepo.Create(ctx, param)
	})
	if err != nil {
		return nil, err
	}

	return param, nil
}

// Get retrieves a parameterization by ID.
func (uc *ParameterizationUseCase) Get(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Parameterization, error) {
	return uc.paramRepo.GetByID(ctx, id)
}

// List retrieves parameterizations with pagination.
func (uc *ParameterizationUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.Parameterization, error) {
	return uc.paramRepo.List(ctx, offset, limit)
}

// Update modifies an existing parameterization. Entries marked not editable
// reject value changes; their metadata stays frozen too since the key and
// type define how consumers read the value.
func (uc *ParameterizationUseCase) Update(
	ctx context.Context,
	id uuid.UUID,
	input *ParameterizationInput,
) (*domain.Parameterization, error) {
	if err := validateParameterizationInput(input); err != nil {
		return nil, err
	}

	var param *domain.Parameterization
	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		param, err = uc.paramRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if !param.Editable {
			return domain.ErrParameterizationLocked
		}

		key := featureDomain.NormalizeKey(input.TechnicalKey)
		if key != param.TechnicalKey {
			existing, err := uc.paramRepo.GetByTechnicalKey(ctx, key)
			if err == nil && existing.ID != id {
				return domain.ErrTechnicalKeyTaken
			}
			if err != nil && !errors.Is(err, domain.ErrParameterizationNotFound) {
				return err
			}
		}

		param.FriendlyName = strings.TrimSpace(input.FriendlyName)
		param.TechnicalKey = key
		param.DataType = domain.DataType(input.DataType)
		param.Value = input.Value
		param.ScopeType = domain.ScopeType(input.ScopeType)
		param.ScopeTargetIDs = input.ScopeTargetIDs
		if input.Editable != nil {
			param.Editable = *input.Editable
		}

		return uc.paramRepo.Update(ctx, param)
	})
	if err != nil {
		return nil, err
	}

	return param, nil
}

// Delete removes a parameterization. Locked entries cannot be deleted.
func (uc *ParameterizationUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		param, err := uc.paramRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if !param.Editable {
			return domain.ErrParameterizationLocked
		}

		return uc.paramRepo.Delete(ctx, id)
	})
}
