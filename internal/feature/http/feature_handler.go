// Package http exposes the read-only capability catalog endpoint.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/userhub/internal/feature/domain"
)

// FeatureResponse represents a catalog entry in the API.
type FeatureResponse struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	APIRoutes   []string `json:"api_routes"`
}

// FeatureListResponse represents the full catalog.
type FeatureListResponse struct {
	Features []FeatureResponse `json:"features"`
}

// FeatureHandler handles HTTP requests for the capability catalog.
type FeatureHandler struct {
	catalog *domain.Catalog
	logger  *slog.Logger
}

// NewFeatureHandler creates a new feature handler.
func NewFeatureHandler(catalog *domain.Catalog, logger *slog.Logger) *FeatureHandler {
	return &FeatureHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// ListHandler returns every registered capability. The catalog is static per
// deployment, so there is no pagination.
// GET /v1/features
func (h *FeatureHandler) ListHandler(c *gin.Context) {
	features := h.catalog.Features()

	response := FeatureListResponse{Features: make([]FeatureResponse, 0, len(features))}
	for _, feature := range features {
		routes := feature.APIRoutes
		if routes == nil {
			routes = []string{}
		}
		response.Features = append(response.Features, FeatureResponse{
			Key:         feature.Key,
			Name:        feature.Name,
			Description: feature.Description,
			APIRoutes:   routes,
		})
	}

	c.JSON(http.StatusOK, response)
}
