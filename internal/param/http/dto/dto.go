// Package dto provides data transfer objects for the parameterization HTTP
// layer.
package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/userhub/internal/param/domain"
	"github.com/allisson/userhub/internal/param/usecase"
)

// ParameterizationRequest represents the API request for parameterization
// creation and update. Field validation lives in the use case since the
// valid data type and scope combinations are business rules.
type ParameterizationRequest struct {
	FriendlyName   string   `json:"friendly_name"`
	TechnicalKey   string   `json:"technical_key"`
	DataType       string   `json:"data_type"`
	Value          string   `json:"value"`
	ScopeType      string   `json:"scope_type"`
	ScopeTargetIDs []string `json:"scope_target_ids"`
	Editable       *bool    `json:"editable"`
}

// ToParameterizationInput converts the request DTO to a use case input.
func ToParameterizationInput(req ParameterizationRequest) *usecase.ParameterizationInput {
	return &usecase.ParameterizationInput{
		FriendlyName:   req.FriendlyName,
		TechnicalKey:   req.TechnicalKey,
		DataType:       req.DataType,
		Value:          req.Value,
		ScopeType:      req.ScopeType,
		ScopeTargetIDs: req.ScopeTargetIDs,
		Editable:       req.Editable,
	}
}

// ParameterizationResponse represents the API response for a
// parameterization.
type ParameterizationResponse struct {
	ID             uuid.UUID `json:"id"`
	FriendlyName   string    `json:"friendly_name"`
	TechnicalKey   string    `json:"technical_key"`
	DataType       string    `json:"data_type"`
	Value          string    `json:"value"`
	ScopeType      string    `json:"scope_type"`
	ScopeTargetIDs []string  `json:"scope_target_ids"`
	Editable       bool      `json:"editable"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ParameterizationListResponse represents a paginated parameterization list.
type ParameterizationListResponse struct {
	Parameterizations []ParameterizationResponse `json:"parameterizations"`
}

// ToParameterizationResponse converts a domain parameterization to its API
// representation.
func ToParameterizationResponse(param *domain.Parameterization) ParameterizationResponse {
	targets := param.ScopeTargetIDs
	if targets == nil {
		targets = []string{}
	}
	return ParameterizationResponse{
		ID:             param.ID,
		FriendlyName:   param.FriendlyName,
		TechnicalKey:   param.TechnicalKey,
		DataType:       string(param.DataType),
		Value:          param.Value,
		ScopeType:      string(param.ScopeType),
		ScopeTargetIDs: targets,
		Editable:       param.Editable,
		CreatedAt:      param.CreatedAt,
		UpdatedAt:      param.UpdatedAt,
	}
}

// ToParameterizationListResponse converts a parameterization slice to its
// API representation.
func ToParameterizationListResponse(params []*domain.Parameterization) ParameterizationListResponse {
	response := ParameterizationListResponse{
		Parameterizations: make([]ParameterizationResponse, 0, len(params)),
	}
	for _, param := range params {
		response.Parameterizations = append(response.Parameterizations, ToParameterizationResponse(param))
	}
	return response
}
