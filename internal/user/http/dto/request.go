// Package dto provides data transfer objects for the user HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	"github.com/allisson/userhub/internal/user/usecase"
	appValidation "github.com/allisson/userhub/internal/validation"
)

// CreateUserRequest represents the API request for user creation.
type CreateUserRequest struct {
	Name           string      `json:"name"`
	Login          string      `json:"login"`
	Email          string      `json:"email"`
	GroupIDs       []uuid.UUID `json:"group_ids"`
	AllowFeatures  []string    `json:"allow_features"`
	DeniedFeatures []string    `json:"denied_features"`
}

// Validate validates the CreateUserRequest.
func (r *CreateUserRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&r.Login,
			validation.Required.Error("login is required"),
			appValidation.Login,
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// ToCreateUserInput converts the request DTO to a use case input.
func ToCreateUserInput(req CreateUserRequest) *usecase.CreateUserInput {
	return &usecase.CreateUserInput{
		Name:           req.Name,
		Login:          req.Login,
		Email:          req.Email,
		GroupIDs:       req.GroupIDs,
		AllowFeatures:  req.AllowFeatures,
		DeniedFeatures: req.DeniedFeatures,
	}
}

// UpdateUserRequest represents the API request for user profile updates.
type UpdateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

// Validate validates the UpdateUserRequest.
func (r *UpdateUserRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// ToUpdateUserInput converts the request DTO to a use case input.
func ToUpdateUserInput(req UpdateUserRequest) *usecase.UpdateUserInput {
	return &usecase.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		IsActive: req.IsActive,
	}
}

// UpdateGroupsRequest replaces a user's group assignments.
type UpdateGroupsRequest struct {
	GroupIDs []uuid.UUID `json:"group_ids"`
}

// UpdatePermissionsRequest replaces a user's capability overrides.
type UpdatePermissionsRequest struct {
	AllowFeatures  []string `json:"allow_features"`
	DeniedFeatures []string `json:"denied_features"`
}

// ToUpdatePermissionsInput converts the request DTO to a use case input.
func ToUpdatePermissionsInput(req UpdatePermissionsRequest) *usecase.UpdatePermissionsInput {
	return &usecase.UpdatePermissionsInput{
		AllowFeatures:  req.AllowFeatures,
		DeniedFeatures: req.DeniedFeatures,
	}
}

// RequestPasswordResetRequest asks for a password setup email.
type RequestPasswordResetRequest struct {
	Email string `json:"email"`
}

// Validate validates the RequestPasswordResetRequest.
func (r *RequestPasswordResetRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			appValidation.Email,
		),
	)
	return appValidation.WrapValidationError(err)
}

// SetPasswordRequest completes the password setup flow.
type SetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Validate validates the SetPasswordRequest. Password strength is enforced
// by the use case.
func (r *SetPasswordRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Token,
			validation.Required.Error("token is required"),
			appValidation.NotBlank,
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
		),
	)
	return appValidation.WrapValidationError(err)
}
