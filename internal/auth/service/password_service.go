package service

import (
	"strings"

	"github.com/allisson/go-pwdhash"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/allisson/userhub/internal/errors"
)

// passwordService implements PasswordService using Argon2id for new hashes.
// Legacy bcrypt hashes imported from earlier systems still verify, so
// existing accounts keep working until their next password change.
type passwordService struct {
	hasher *pwdhash.PasswordHasher
}

// NewPasswordService creates a PasswordService using the Argon2id
// interactive policy for user passwords.
func NewPasswordService() (PasswordService, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}
	return &passwordService{hasher: hasher}, nil
}

// HashPassword produces an Argon2id encoded hash for storage.
func (s *passwordService) HashPassword(plainPassword string) (string, error) {
	hashed, err := s.hasher.Hash([]byte(plainPassword))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return hashed, nil
}

// ComparePassword checks a plain password against a stored hash, detecting
// the hash format from its prefix.
func (s *passwordService) ComparePassword(plainPassword, hashedPassword string) bool {
	if isBcryptHash(hashedPassword) {
		return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword)) == nil
	}

	ok, err := s.hasher.Verify([]byte(plainPassword), hashedPassword)
	if err != nil {
		return false
	}
	return ok
}

// isBcryptHash reports whether the encoded hash uses one of the bcrypt
// version prefixes.
func isBcryptHash(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") ||
		strings.HasPrefix(hash, "$2b$") ||
		strings.HasPrefix(hash, "$2y$")
}
