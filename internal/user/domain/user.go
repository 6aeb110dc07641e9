// Package domain defines the core user entities and types.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/userhub/internal/errors"
)

// User represents a user account. Password holds the encoded hash and is
// empty until the user completes the password setup flow. GroupIDs,
// AllowFeatures, and DeniedFeatures feed permission resolution: the user
// holds the union of group capabilities and AllowFeatures, minus
// DeniedFeatures.
type User struct {
	ID             uuid.UUID
	Name           string
	Login          string
	Email          string
	Password       string
	IsActive       bool
	GroupIDs       []uuid.UUID
	AllowFeatures  []string
	DeniedFeatures []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasPassword reports whether the user has completed password setup.
func (u *User) HasPassword() bool {
	return u.Password != ""
}

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates a user with the same login or email
	// already exists.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrUnknownFeature indicates a permission update references a capability
	// key absent from the catalog.
	ErrUnknownFeature = errors.Wrap(errors.ErrInvalidInput, "unknown capability key")

	// ErrGroupNotAssignable indicates a group update references a group that
	// does not exist.
	ErrGroupNotAssignable = errors.Wrap(errors.ErrInvalidInput, "group does not exist")
)
