package http

import (
	"context"

	"github.com/google/uuid"

	authDomain "github.com/allisson/userhub/internal/auth/domain"
)

// Principal is the authenticated caller stored in the request context after
// credential verification. Permissions holds the capability keys embedded in
// the access token at issuance time.
type Principal struct {
	UserID      uuid.UUID
	Login       string
	Name        string
	Permissions []string
}

// principalKey is the context key for the authenticated principal.
type principalKey struct{}

// WithPrincipal returns a context carrying the authenticated principal.
func WithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// GetPrincipal retrieves the authenticated principal from the context.
func GetPrincipal(ctx context.Context) (*Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(*Principal)
	return principal, ok
}

// principalFromClaims builds a Principal from verified access token claims.
func principalFromClaims(claims *authDomain.Claims) (*Principal, error) {
	userID, err := claims.SubjectUserID()
	if err != nil {
		return nil, err
	}
	return &Principal{
		UserID:      userID,
		Login:       claims.Login,
		Name:        claims.Name,
		Permissions: claims.Permissions,
	}, nil
}
