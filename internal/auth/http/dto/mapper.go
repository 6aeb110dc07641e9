package dto

import (
	authDomain "github.com/allisson/userhub/internal/auth/domain"
)

// ToLoginInput converts a LoginRequest DTO to a use case input.
func ToLoginInput(req LoginRequest) *authDomain.LoginInput {
	return &authDomain.LoginInput{
		Login:    req.Login,
		Password: req.Password,
	}
}

// MapLoginOutputToResponse converts a login or refresh result to its API
// representation.
func MapLoginOutputToResponse(output *authDomain.LoginOutput) LoginResponse {
	permissions := output.Permissions
	if permissions == nil {
		permissions = []string{}
	}
	return LoginResponse{
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    output.ExpiresIn,
		User: AuthUserResponse{
			ID:    output.User.ID,
			Name:  output.User.Name,
			Login: output.User.Login,
			Email: output.User.Email,
		},
		Permissions: permissions,
	}
}
