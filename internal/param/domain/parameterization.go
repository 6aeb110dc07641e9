// Package domain defines the parameterization entities and types.
// Parameterizations are typed configuration entries scoped globally or to
// specific groups or users.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/userhub/internal/errors"
)

// DataType constrains how a parameterization value is interpreted.
type DataType string

// Supported value data types.
const (
	DataTypeString  DataType = "string"
	DataTypeNumber  DataType = "number"
	DataTypeBoolean DataType = "boolean"
	DataTypeJSON    DataType = "json"
)

// ScopeType constrains who a parameterization applies to.
type ScopeType string

// Supported scopes.
const (
	ScopeGlobal ScopeType = "global"
	ScopeGroup  ScopeType = "group"
	ScopeUser   ScopeType = "user"
)

// Parameterization is a single configuration entry. TechnicalKey is the
// canonical identifier and unique across entries. Entries with Editable set
// to false lock their value after creation.
type Parameterization struct {
	ID             uuid.UUID
	FriendlyName   string
	TechnicalKey   string
	DataType       DataType
	Value          string
	ScopeType      ScopeType
	ScopeTargetIDs []string
	Editable       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Domain-specific errors for parameterization operations.
var (
	// ErrParameterizationNotFound indicates the requested entry does not exist.
	ErrParameterizationNotFound = errors.Wrap(errors.ErrNotFound, "parameterization not found")

	// ErrTechnicalKeyTaken indicates another entry already uses the key.
	ErrTechnicalKeyTaken = errors.Wrap(errors.ErrConflict, "technical key already in use")

	// ErrParameterizationLocked indicates the entry is not editable.
	ErrParameterizationLocked = errors.Wrap(errors.ErrForbidden, "parameterization is not editable")
)
