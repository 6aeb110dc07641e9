package usecase

import (
	"context"

	"github.com/google/uuid"

	authDomain "github.com/allisson/userhub/internal/auth/domain"
	userDomain "github.com/allisson/userhub/internal/user/domain"
)

// AuthUseCase defines authentication business operations.
type AuthUseCase interface {
	// Login authenticates a user by login or email plus password and issues
	// a credential pair with the user's resolved capabilities embedded in
	// the access token.
	Login(ctx context.Context, input *authDomain.LoginInput) (*authDomain.LoginOutput, error)

	// Refresh exchanges a valid refresh token for a fresh credential pair.
	// Capabilities are re-resolved so permission changes take effect.
	Refresh(ctx context.Context, refreshToken string) (*authDomain.LoginOutput, error)

	// Logout validates the refresh token. Credentials stay valid until they
	// expire; there is no server-side revocation list.
	Logout(ctx context.Context, refreshToken string) error
}

// UserReader provides the user lookups authentication needs.
// Implemented by the user repository.
type UserReader interface {
	GetByLogin(ctx context.Context, login string) (*userDomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userDomain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error)
}
