// Package http provides HTTP handlers for user management.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/userhub/internal/httputil"
	"github.com/allisson/userhub/internal/user/http/dto"
	"github.com/allisson/userhub/internal/user/usecase"
)

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	userUseCase usecase.UseCase
	logger      *slog.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userUseCase usecase.UseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		logger:      logger,
	}
}

func parseUserID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}

// CreateHandler creates a new user and sends a password setup email.
// POST /v1/users
// Returns 201 Created with the user, 409 Conflict on duplicate login or email.
func (h *UserHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateUserRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	user, err := h.userUseCase.Create(c.Request.Context(), dto.ToCreateUserInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// GetHandler retrieves a user by ID.
// GET /v1/users/:id
func (h *UserHandler) GetHandler(c *gin.Context) {
	id, err := parseUserID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	user, err := h.userUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// ListHandler retrieves users with pagination.
// GET /v1/users?offset=0&limit=50
func (h *UserHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	users, err := h.userUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserListResponse(users))
}

// UpdateHandler modifies a user's profile.
// PUT /v1/users/:id
func (h *UserHandler) UpdateHandler(c *gin.Context) {
	id, err := parseUserID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.UpdateUserRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	user, err := h.userUseCase.Update(c.Request.Context(), id, dto.ToUpdateUserInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// DeleteHandler removes a user.
// DELETE /v1/users/:id
// Returns 204 No Content.
func (h *UserHandler) DeleteHandler(c *gin.Context) {
	id, err := parseUserID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.userUseCase.Delete(c.Request.Context(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// UpdateGroupsHandler replaces a user's group assignments.
// PUT /v1/users/:id/groups
func (h *UserHandler) UpdateGroupsHandler(c *gin.Context) {
	id, err := parseUserID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.UpdateGroupsRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	user, err := h.userUseCase.UpdateGroups(c.Request.Context(), id, req.GroupIDs)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// UpdatePermissionsHandler replaces a user's capability overrides.
// PUT /v1/users/:id/permissions
func (h *UserHandler) UpdatePermissionsHandler(c *gin.Context) {
	id, err := parseUserID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.UpdatePermissionsRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	user, err := h.userUseCase.UpdatePermissions(c.Request.Context(), id, dto.ToUpdatePermissionsInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// GetPermissionsHandler returns a user's effective capability keys after
// group union and deny overrides.
// GET /v1/users/:id/permissions
func (h *UserHandler) GetPermissionsHandler(c *gin.Context) {
	id, err := parseUserID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	permissions, err := h.userUseCase.GetPermissions(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToPermissionsResponse(permissions))
}

// RequestPasswordResetHandler sends a password setup email. The response is
// the same whether or not the email belongs to a known active user.
// POST /v1/users/password/reset-request
// Returns 204 No Content.
func (h *UserHandler) RequestPasswordResetHandler(c *gin.Context) {
	var req dto.RequestPasswordResetRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if err := h.userUseCase.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// SetPasswordHandler sets a password using a password setup token.
// POST /v1/users/password/setup
// Returns 204 No Content, 401 Unauthorized on an invalid or expired token.
func (h *UserHandler) SetPasswordHandler(c *gin.Context) {
	var req dto.SetPasswordRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if err := h.userUseCase.SetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
