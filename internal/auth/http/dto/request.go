// Package dto provides data transfer objects for the auth HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	appValidation "github.com/allisson/userhub/internal/validation"
)

// LoginRequest represents the API request for user login.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Validate validates the LoginRequest.
func (r *LoginRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Login,
			validation.Required.Error("login is required"),
			appValidation.NotBlank,
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// RefreshTokenRequest represents the API request for token refresh and logout.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Validate validates the RefreshTokenRequest.
func (r *RefreshTokenRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.RefreshToken,
			validation.Required.Error("refresh_token is required"),
			appValidation.NotBlank,
		),
	)
	return appValidation.WrapValidationError(err)
}
