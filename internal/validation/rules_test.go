package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/userhub/internal/errors"
)

func TestWrapValidationError(t *testing.T) {
	t.Run("Success_WrapsAsInvalidInput", func(t *testing.T) {
		err := WrapValidationError(assert.AnError)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("Success_NilStaysNil", func(t *testing.T) {
		assert.Nil(t, WrapValidationError(nil))
	})
}

func TestEmail(t *testing.T) {
	assert.NoError(t, Email.Validate("user@example.com"))
	assert.Error(t, Email.Validate("not-an-email"))
	assert.Error(t, Email.Validate("user@"))
}

func TestLogin(t *testing.T) {
	assert.NoError(t, Login.Validate("john.doe"))
	assert.NoError(t, Login.Validate("maria-42"))
	assert.Error(t, Login.Validate("ab"))
	assert.Error(t, Login.Validate("John"))
	assert.Error(t, Login.Validate("has space"))
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, NotBlank.Validate("x"))
	assert.Error(t, NotBlank.Validate("   "))
	assert.Error(t, NotBlank.Validate(""))
}

func TestPasswordStrength(t *testing.T) {
	rule := PasswordStrength{MinLength: 8, RequireUpper: true, RequireLower: true, RequireNumber: true}

	assert.NoError(t, rule.Validate("Str0ngPass"))
	assert.Error(t, rule.Validate("short1A"))
	assert.Error(t, rule.Validate("alllower1"))
	assert.Error(t, rule.Validate("ALLUPPER1"))
	assert.Error(t, rule.Validate("NoNumbers"))
	assert.Error(t, rule.Validate(12345678))
}
