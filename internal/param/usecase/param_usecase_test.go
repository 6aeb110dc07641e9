package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/userhub/internal/database/mocks"
	apperrors "github.com/allisson/userhub/internal/errors"
	"github.com/allisson/userhub/internal/param/domain"
)

// fakeParamRepository is an in-memory ParameterizationRepository.
type fakeParamRepository struct {
	params map[uuid.UUID]*domain.Parameterization
}

func newFakeParamRepository() *fakeParamRepository {
	return &fakeParamRepository{params: make(map[uuid.UUID]*domain.Parameterization)}
}

func (f *fakeParamRepository) Create(_ context.Context, param *domain.Parameterization) error {
	f.params[param.ID] = param
	return nil
}

func (f *fakeParamRepository) GetByID(
	_ context.Context,
	id uuid.UUID,
) (*domain.Parameterization, error) {
	if param, ok := f.params[id]; ok {
		copied := *param
		return &copied, nil
	}
	return nil, domain.ErrParameterizationNotFound
}

func (f *fakeParamRepository) GetByTechnicalKey(
	_ context.Context,
	key string,
) (*domain.Parameterization, error) {
	for _, param := range f.params {
		if param.TechnicalKey == key {
			copied := *param
			return &copied, nil
		}
	}
	return nil, domain.ErrParameterizationNotFound
}

func (f *fakeParamRepository) List(
	_ context.Context,
	_, _ int,
) ([]*domain.Parameterization, error) {
	params := make([]*domain.Parameterization, 0, len(f.params))
	for _, param := range f.params {
		params = append(params, param)
	}
	return params, nil
}

func (f *fakeParamRepository) Update(_ context.Context, param *domain.Parameterization) error {
	if _, ok := f.params[param.ID]; !ok {
		return domain.ErrParameterizationNotFound
	}
	f.params[param.ID] = param
	return nil
}

func (f *fakeParamRepository) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.params[id]; !ok {
		return domain.ErrParameterizationNotFound
	}
	delete(f.params, id)
	return nil
}

func boolPtr(b bool) *bool { return &b }

func validInput() *ParameterizationInput {
	return &ParameterizationInput{
		FriendlyName: "Session Timeout",
		TechnicalKey: "session timeout",
		DataType:     "number",
		Value:        "3600",
		ScopeType:    "global",
	}
}

func TestParameterizationUseCase_Create(t *testing.T) {
	ctx := context.Background()

	newUseCase := func(t *testing.T) *ParameterizationUseCase {
		t.Helper()
		return NewParameterizationUseCase(mocks.NewMockTxManager(t), newFakeParamRepository())
	}

	t.Run("Success_KeyNormalized", func(t *testing.T) {
		useCase := newUseCase(t)

		param, err := useCase.Create(ctx, validInput())
		require.NoError(t, err)
		assert.Equal(t, "SESSION-TIMEOUT", param.TechnicalKey)
		assert.True(t, param.Editable)
	})

	t.Run("Failure_KeyTaken", func(t *testing.T) {
		useCase := newUseCase(t)

		_, err := useCase.Create(ctx, validInput())
		require.NoError(t, err)

		_, err = useCase.Create(ctx, validInput())
		assert.ErrorIs(t, err, domain.ErrTechnicalKeyTaken)
	})

	t.Run("Failure_BadNumberValue", func(t *testing.T) {
		useCase := newUseCase(t)

		input := validInput()
		input.Value = "not-a-number"
		_, err := useCase.Create(ctx, input)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("Failure_BadJSONValue", func(t *testing.T) {
		useCase := newUseCase(t)

		input := validInput()
		input.DataType = "json"
		input.Value = "{broken"
		_, err := useCase.Create(ctx, input)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("Failure_UnknownDataType", func(t *testing.T) {
		useCase := newUseCase(t)

		input := validInput()
		input.DataType = "date"
		_, err := useCase.Create(ctx, input)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("Failure_UnknownScopeType", func(t *testing.T) {
		useCase := newUseCase(t)

		input := validInput()
		input.ScopeType = "tenant"
		_, err := useCase.Create(ctx, input)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})
}

func TestParameterizationUseCase_Update(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, editable bool) (*ParameterizationUseCase, *domain.Parameterization) {
		t.Helper()
		useCase := NewParameterizationUseCase(mocks.NewMockTxManager(t), newFakeParamRepository())

		input := validInput()
		input.Editable = boolPtr(editable)
		param, err := useCase.Create(ctx, input)
		require.NoError(t, err)
		return useCase, param
	}

	t.Run("Success_ValueChanged", func(t *testing.T) {
		useCase, param := setup(t, true)

		input := validInput()
		input.Value = "7200"
		updated, err := useCase.Update(ctx, param.ID, input)
		require.NoError(t, err)
		assert.Equal(t, "7200", updated.Value)
	})

	t.Run("Failure_LockedEntry", func(t *testing.T) {
		useCase, param := setup(t, false)

		input := validInput()
		input.Value = "7200"
		_, err := useCase.Update(ctx, param.ID, input)
		assert.ErrorIs(t, err, domain.ErrParameterizationLocked)
		assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
	})

	t.Run("Failure_NotFound", func(t *testing.T) {
		useCase, _ := setup(t, true)

		_, err := useCase.Update(ctx, uuid.Must(uuid.NewV7()), validInput())
		assert.ErrorIs(t, err, domain.ErrParameterizationNotFound)
	})
}

func TestParameterizationUseCase_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Failure_LockedEntry", func(t *testing.T) {
		useCase := NewParameterizationUseCase(mocks.NewMockTxManager(t), newFakeParamRepository())

		input := validInput()
		input.Editable = boolPtr(false)
		param, err := useCase.Create(ctx, input)
		require.NoError(t, err)

		err = useCase.Delete(ctx, param.ID)
		assert.ErrorIs(t, err, domain.ErrParameterizationLocked)
	})

	t.Run("Success_EditableEntry", func(t *testing.T) {
		useCase := NewParameterizationUseCase(mocks.NewMockTxManager(t), newFakeParamRepository())

		param, err := useCase.Create(ctx, validInput())
		require.NoError(t, err)

		require.NoError(t, useCase.Delete(ctx, param.ID))
		_, err = useCase.Get(ctx, param.ID)
		assert.ErrorIs(t, err, domain.ErrParameterizationNotFound)
	})
}
