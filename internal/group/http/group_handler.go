// Package http provides HTTP handlers for access group management.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/userhub/internal/group/http/dto"
	"github.com/allisson/userhub/internal/group/usecase"
	"github.com/allisson/userhub/internal/httputil"
)

// GroupHandler handles HTTP requests for access group operations.
type GroupHandler struct {
	groupUseCase usecase.UseCase
	logger       *slog.Logger
}

// NewGroupHandler creates a new group handler.
func NewGroupHandler(groupUseCase usecase.UseCase, logger *slog.Logger) *GroupHandler {
	return &GroupHandler{
		groupUseCase: groupUseCase,
		logger:       logger,
	}
}

func parseGroupID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}

// CreateHandler creates a new access group.
// POST /v1/groups
// Returns 201 Created with the group, 409 Conflict when the code is taken.
func (h *GroupHandler) CreateHandler(c *gin.Context) {
	var req dto.GroupRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	group, err := h.groupUseCase.Create(c.Request.Context(), dto.ToGroupInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ToGroupResponse(group))
}

// GetHandler retrieves a group by ID.
// GET /v1/groups/:id
func (h *GroupHandler) GetHandler(c *gin.Context) {
	id, err := parseGroupID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	group, err := h.groupUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupResponse(group))
}

// ListHandler retrieves groups with pagination.
// GET /v1/groups?offset=0&limit=50
func (h *GroupHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	groups, err := h.groupUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupListResponse(groups))
}

// UpdateHandler modifies an existing group.
// PUT /v1/groups/:id
func (h *GroupHandler) UpdateHandler(c *gin.Context) {
	id, err := parseGroupID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.GroupRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	group, err := h.groupUseCase.Update(c.Request.Context(), id, dto.ToGroupInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupResponse(group))
}

// DeleteHandler removes a group.
// DELETE /v1/groups/:id
// Returns 204 No Content.
func (h *GroupHandler) DeleteHandler(c *gin.Context) {
	id, err := parseGroupID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.groupUseCase.Delete(c.Request.Context(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
