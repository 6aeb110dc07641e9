package domain

import (
	userDomain "github.com/allisson/userhub/internal/user/domain"
)

// LoginInput carries the credentials presented at login.
type LoginInput struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// LoginOutput is the result of a successful login or refresh. Permissions
// holds the capability keys resolved at issuance time, the same set embedded
// in the access token.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	User         *userDomain.User
	Permissions  []string
}
