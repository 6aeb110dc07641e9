// Package http exposes the navigation menu endpoint.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/allisson/userhub/internal/auth/http"
	apperrors "github.com/allisson/userhub/internal/errors"
	"github.com/allisson/userhub/internal/httputil"
	"github.com/allisson/userhub/internal/menu/domain"
)

// MenuResponse represents a navigation menu entry in the API.
type MenuResponse struct {
	Key      string         `json:"key"`
	Label    string         `json:"label"`
	Icon     string         `json:"icon,omitempty"`
	Path     string         `json:"path,omitempty"`
	Children []MenuResponse `json:"children,omitempty"`
}

// MenuListResponse represents the caller's visible menu tree.
type MenuListResponse struct {
	Menus []MenuResponse `json:"menus"`
}

// MenuHandler handles HTTP requests for navigation menus.
type MenuHandler struct {
	catalog *domain.Catalog
	logger  *slog.Logger
}

// NewMenuHandler creates a new menu handler.
func NewMenuHandler(catalog *domain.Catalog, logger *slog.Logger) *MenuHandler {
	return &MenuHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// ListHandler returns the menu entries visible to the authenticated caller,
// filtered by the capability keys in the access token.
// GET /v1/menus
func (h *MenuHandler) ListHandler(c *gin.Context) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	menus := h.catalog.VisibleTo(principal.Permissions)
	c.JSON(http.StatusOK, MenuListResponse{Menus: toMenuResponses(menus)})
}

func toMenuResponses(menus []domain.Menu) []MenuResponse {
	responses := make([]MenuResponse, 0, len(menus))
	for _, menu := range menus {
		responses = append(responses, MenuResponse{
			Key:      menu.Key,
			Label:    menu.Label,
			Icon:     menu.Icon,
			Path:     menu.Path,
			Children: toMenuResponses(menu.Children),
		})
	}
	return responses
}
