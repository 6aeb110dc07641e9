package service

import (
	"context"

	"github.com/google/uuid"

	authDomain "github.com/allisson/userhub/internal/auth/domain"
)

// TokenService issues and verifies signed credentials.
type TokenService interface {
	// IssueAccessToken creates a short-lived credential embedding the
	// caller's resolved capability keys.
	IssueAccessToken(userID uuid.UUID, login, name string, permissions []string) (string, error)

	// IssueRefreshToken creates a long-lived credential carrying identity only.
	IssueRefreshToken(userID uuid.UUID, login string) (string, error)

	// IssuePasswordSetupToken creates a credential authorizing a password
	// definition for the given user.
	IssuePasswordSetupToken(userID uuid.UUID, login string) (string, error)

	// VerifyToken validates signature, expiration, and purpose, returning the
	// embedded claims. Returns ErrInvalidToken or ErrWrongTokenType on failure.
	VerifyToken(token string, tokenType authDomain.TokenType) (*authDomain.Claims, error)
}

// PasswordService hashes and verifies user passwords.
type PasswordService interface {
	// HashPassword produces an encoded hash for storage.
	HashPassword(plainPassword string) (string, error)

	// ComparePassword checks a plain password against a stored hash.
	// Supports both the current Argon2id format and legacy bcrypt hashes.
	ComparePassword(plainPassword, hashedPassword string) bool
}

// GroupFeatureReader resolves access group IDs to their granted capability
// keys. Implemented by the group repository.
type GroupFeatureReader interface {
	// ListFeaturesByGroupIDs returns the capability keys granted by each of
	// the given groups. IDs that resolve to no group are absent from the
	// result rather than reported as errors.
	ListFeaturesByGroupIDs(ctx context.Context, groupIDs []uuid.UUID) (map[uuid.UUID][]string, error)
}

// PermissionResolver computes a user's effective capability keys.
type PermissionResolver interface {
	// Resolve unions the capabilities granted by the given groups with the
	// individual allow list, subtracts the deny list, and returns the result
	// deduplicated and sorted. Group IDs that no longer resolve are ignored.
	Resolve(ctx context.Context, groupIDs []uuid.UUID, allow, deny []string) ([]string, error)
}
