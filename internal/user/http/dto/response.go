package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/userhub/internal/user/domain"
)

// UserResponse represents the API response for a user. The password hash is
// never exposed.
type UserResponse struct {
	ID             uuid.UUID   `json:"id"`
	Name           string      `json:"name"`
	Login          string      `json:"login"`
	Email          string      `json:"email"`
	IsActive       bool        `json:"is_active"`
	GroupIDs       []uuid.UUID `json:"group_ids"`
	AllowFeatures  []string    `json:"allow_features"`
	DeniedFeatures []string    `json:"denied_features"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// UserListResponse represents a paginated user list.
type UserListResponse struct {
	Users []UserResponse `json:"users"`
}

// PermissionsResponse lists a user's effective capability keys.
type PermissionsResponse struct {
	Permissions []string `json:"permissions"`
}

// ToUserResponse converts a domain user to its API representation.
func ToUserResponse(user *domain.User) UserResponse {
	groupIDs := user.GroupIDs
	if groupIDs == nil {
		groupIDs = []uuid.UUID{}
	}
	allow := user.AllowFeatures
	if allow == nil {
		allow = []string{}
	}
	deny := user.DeniedFeatures
	if deny == nil {
		deny = []string{}
	}
	return UserResponse{
		ID:             user.ID,
		Name:           user.Name,
		Login:          user.Login,
		Email:          user.Email,
		IsActive:       user.IsActive,
		GroupIDs:       groupIDs,
		AllowFeatures:  allow,
		DeniedFeatures: deny,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}

// ToUserListResponse converts a user slice to its API representation.
func ToUserListResponse(users []*domain.User) UserListResponse {
	response := UserListResponse{Users: make([]UserResponse, 0, len(users))}
	for _, user := range users {
		response.Users = append(response.Users, ToUserResponse(user))
	}
	return response
}

// ToPermissionsResponse wraps resolved capability keys.
func ToPermissionsResponse(permissions []string) PermissionsResponse {
	if permissions == nil {
		permissions = []string{}
	}
	return PermissionsResponse{Permissions: permissions}
}
