// Package domain defines authentication entities: signed credential claims,
// token types, and authentication errors.
package domain

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/allisson/userhub/internal/errors"
)

// TokenType discriminates the purpose a signed credential was issued for.
// Verification rejects credentials presented for the wrong purpose.
type TokenType string

const (
	// AccessTokenType authenticates API requests and embeds the caller's
	// resolved capability keys.
	AccessTokenType TokenType = "access"

	// RefreshTokenType exchanges for a fresh credential pair.
	RefreshTokenType TokenType = "refresh"

	// PasswordSetupTokenType authorizes a first-time password definition
	// or a password reset.
	PasswordSetupTokenType TokenType = "password_setup"
)

// Claims is the JWT payload for every credential the service issues.
// Subject carries the user ID. Permissions is only populated on access
// tokens; refresh and password setup tokens carry identity alone.
type Claims struct {
	Login       string    `json:"login,omitempty"`
	Name        string    `json:"name,omitempty"`
	Permissions []string  `json:"permissions,omitempty"`
	TokenType   TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// SubjectUserID parses the Subject claim as a user ID.
func (c *Claims) SubjectUserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// Authentication errors.
var (
	// ErrInvalidCredentials covers unknown logins and wrong passwords with a
	// single error to prevent account enumeration.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrInvalidToken indicates the credential is missing, malformed, expired,
	// or carries a bad signature.
	ErrInvalidToken = errors.Wrap(errors.ErrUnauthorized, "invalid token")

	// ErrWrongTokenType indicates a valid credential was presented for a
	// purpose it was not issued for.
	ErrWrongTokenType = errors.Wrap(errors.ErrUnauthorized, "wrong token type")

	// ErrUserInactive indicates the account exists but has been deactivated.
	ErrUserInactive = errors.Wrap(errors.ErrForbidden, "user is inactive")
)
