// Package domain defines the access group entities and types.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/userhub/internal/errors"
)

// Group is a named bundle of capability keys assignable to users. Code is
// the canonical identifier, normalized the same way capability keys are, and
// unique across groups.
type Group struct {
	ID          uuid.UUID
	Name        string
	Code        string
	Description string
	Features    []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Domain-specific errors for group operations.
var (
	// ErrGroupNotFound indicates the requested group does not exist.
	ErrGroupNotFound = errors.Wrap(errors.ErrNotFound, "group not found")

	// ErrGroupCodeTaken indicates another group already uses the code.
	ErrGroupCodeTaken = errors.Wrap(errors.ErrConflict, "group code already in use")

	// ErrUnknownFeature indicates the group references a capability key
	// absent from the catalog.
	ErrUnknownFeature = errors.Wrap(errors.ErrInvalidInput, "unknown capability key")
)
