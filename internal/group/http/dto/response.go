package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/userhub/internal/group/domain"
)

// GroupResponse represents the API response for an access group.
type GroupResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Features    []string  `json:"features"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GroupListResponse represents a paginated group list.
type GroupListResponse struct {
	Groups []GroupResponse `json:"groups"`
}

// ToGroupResponse converts a domain group to its API representation.
func ToGroupResponse(group *domain.Group) GroupResponse {
	features := group.Features
	if features == nil {
		features = []string{}
	}
	return GroupResponse{
		ID:          group.ID,
		Name:        group.Name,
		Code:        group.Code,
		Description: group.Description,
		Features:    features,
		CreatedAt:   group.CreatedAt,
		UpdatedAt:   group.UpdatedAt,
	}
}

// ToGroupListResponse converts a group slice to its API representation.
func ToGroupListResponse(groups []*domain.Group) GroupListResponse {
	response := GroupListResponse{Groups: make([]GroupResponse, 0, len(groups))}
	for _, group := range groups {
		response.Groups = append(response.Groups, ToGroupResponse(group))
	}
	return response
}
