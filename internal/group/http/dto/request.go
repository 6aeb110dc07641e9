// Package dto provides data transfer objects for the group HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/allisson/userhub/internal/group/usecase"
	appValidation "github.com/allisson/userhub/internal/validation"
)

// GroupRequest represents the API request for group creation and update.
type GroupRequest struct {
	Name        string   `json:"name"`
	Code        string   `json:"code"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
}

// Validate validates the GroupRequest.
func (r *GroupRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&r.Code,
			validation.Required.Error("code is required"),
			appValidation.NotBlank,
			validation.Length(1, 128).Error("code must be between 1 and 128 characters"),
		),
		validation.Field(&r.Description,
			validation.Length(0, 1024).Error("description must be at most 1024 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// ToGroupInput converts a GroupRequest DTO to a use case input.
func ToGroupInput(req GroupRequest) *usecase.GroupInput {
	return &usecase.GroupInput{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Features:    req.Features,
	}
}
