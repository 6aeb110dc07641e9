// Package service provides authentication services: signed credential
// issuance and verification, password hashing, and permission resolution.
package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	authDomain "github.com/allisson/userhub/internal/auth/domain"
	apperrors "github.com/allisson/userhub/internal/errors"
)

// jwtTokenService implements TokenService using HMAC-SHA256 signed JWTs.
type jwtTokenService struct {
	secret                  []byte
	accessExpiration        time.Duration
	refreshExpiration       time.Duration
	passwordSetupExpiration time.Duration
}

// NewTokenService creates a TokenService signing with the given secret.
func NewTokenService(
	secret string,
	accessExpiration time.Duration,
	refreshExpiration time.Duration,
	passwordSetupExpiration time.Duration,
) TokenService {
	return &jwtTokenService{
		secret:                  []byte(secret),
		accessExpiration:        accessExpiration,
		refreshExpiration:       refreshExpiration,
		passwordSetupExpiration: passwordSetupExpiration,
	}
}

// IssueAccessToken creates a short-lived credential embedding the caller's
// resolved capability keys.
func (s *jwtTokenService) IssueAccessToken(
	userID uuid.UUID,
	login, name string,
	permissions []string,
) (string, error) {
	claims := &authDomain.Claims{
		Login:       login,
		Name:        name,
		Permissions: permissions,
		TokenType:   authDomain.AccessTokenType,
	}
	return s.sign(claims, userID, s.accessExpiration)
}

// IssueRefreshToken creates a long-lived credential carrying identity only.
func (s *jwtTokenService) IssueRefreshToken(userID uuid.UUID, login string) (string, error) {
	claims := &authDomain.Claims{
		Login:     login,
		TokenType: authDomain.RefreshTokenType,
	}
	return s.sign(claims, userID, s.refreshExpiration)
}

// IssuePasswordSetupToken creates a credential authorizing a password
// definition for the given user.
func (s *jwtTokenService) IssuePasswordSetupToken(userID uuid.UUID, login string) (string, error) {
	claims := &authDomain.Claims{
		Login:     login,
		TokenType: authDomain.PasswordSetupTokenType,
	}
	return s.sign(claims, userID, s.passwordSetupExpiration)
}

func (s *jwtTokenService) sign(
	claims *authDomain.Claims,
	userID uuid.UUID,
	expiration time.Duration,
) (string, error) {
	now := time.Now().UTC()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

// VerifyToken validates signature, expiration, and purpose, returning the
// embedded claims.
func (s *jwtTokenService) VerifyToken(
	tokenString string,
	tokenType authDomain.TokenType,
) (*authDomain.Claims, error) {
	claims := &authDomain.Claims{}

	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, authDomain.ErrInvalidToken
	}

	if claims.TokenType != tokenType {
		return nil, authDomain.ErrWrongTokenType
	}

	return claims, nil
}
