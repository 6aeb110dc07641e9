package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/userhub/internal/auth/http/dto"
	authUseCase "github.com/allisson/userhub/internal/auth/usecase"
	"github.com/allisson/userhub/internal/httputil"
)

// AuthHandler handles HTTP requests for authentication operations.
type AuthHandler struct {
	authUseCase authUseCase.AuthUseCase
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(useCase authUseCase.AuthUseCase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase: useCase,
		logger:      logger,
	}
}

// LoginHandler authenticates a user and issues a credential pair.
// POST /v1/auth/login
// Returns 200 OK with the token pair and resolved capabilities.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	output, err := h.authUseCase.Login(c.Request.Context(), dto.ToLoginInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapLoginOutputToResponse(output))
}

// RefreshTokenHandler exchanges a refresh token for a fresh credential pair.
// POST /v1/auth/refresh-token
// Returns 200 OK with the new token pair.
func (h *AuthHandler) RefreshTokenHandler(c *gin.Context) {
	var req dto.RefreshTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	output, err := h.authUseCase.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapLoginOutputToResponse(output))
}

// LogoutHandler validates the refresh token and acknowledges the logout.
// POST /v1/auth/logout
// Returns 204 No Content.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	var req dto.RefreshTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if err := h.authUseCase.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
