// Package http provides HTTP handlers for parameterization management.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/userhub/internal/httputil"
	"github.com/allisson/userhub/internal/param/http/dto"
	"github.com/allisson/userhub/internal/param/usecase"
)

// ParameterizationHandler handles HTTP requests for parameterization
// operations.
type ParameterizationHandler struct {
	paramUseCase usecase.UseCase
	logger       *slog.Logger
}

// NewParameterizationHandler creates a new parameterization handler.
func NewParameterizationHandler(
	paramUseCase usecase.UseCase,
	logger *slog.Logger,
) *ParameterizationHandler {
	return &ParameterizationHandler{
		paramUseCase: paramUseCase,
		logger:       logger,
	}
}

// CreateHandler creates a new parameterization.
// POST /v1/parameterizations
// Returns 201 Created, 409 Conflict when the technical key is taken.
func (h *ParameterizationHandler) CreateHandler(c *gin.Context) {
	var req dto.ParameterizationRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	param, err := h.paramUseCase.Create(c.Request.Context(), dto.ToParameterizationInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ToParameterizationResponse(param))
}

// GetHandler retrieves a parameterization by ID.
// GET /v1/parameterizations/:id
func (h *ParameterizationHandler) GetHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	param, err := h.paramUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToParameterizationResponse(param))
}

// ListHandler retrieves parameterizations with pagination.
// GET /v1/parameterizations?offset=0&limit=50
func (h *ParameterizationHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	params, err := h.paramUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToParameterizationListResponse(params))
}

// UpdateHandler modifies an existing parameterization.
// PUT /v1/parameterizations/:id
// Returns 403 Forbidden when the entry is locked.
func (h *ParameterizationHandler) UpdateHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.ParameterizationRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	param, err := h.paramUseCase.Update(c.Request.Context(), id, dto.ToParameterizationInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToParameterizationResponse(param))
}

// DeleteHandler removes a parameterization.
// DELETE /v1/parameterizations/:id
// Returns 204 No Content, 403 Forbidden when the entry is locked.
func (h *ParameterizationHandler) DeleteHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.paramUseCase.Delete(c.Request.Context(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
