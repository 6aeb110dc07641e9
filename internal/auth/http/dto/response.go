package dto

import (
	"github.com/google/uuid"
)

// AuthUserResponse is the user summary embedded in login and refresh
// responses.
type AuthUserResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Login string    `json:"login"`
	Email string    `json:"email"`
}

// LoginResponse represents the API response for login and refresh.
// Permissions lists the capability keys embedded in the access token.
type LoginResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	TokenType    string           `json:"token_type"`
	ExpiresIn    int64            `json:"expires_in"`
	User         AuthUserResponse `json:"user"`
	Permissions  []string         `json:"permissions"`
}
