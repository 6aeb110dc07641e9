// Package http assembles the API server: the gin router, the ambient
// middleware chain, and the route table with its public and protected groups.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/userhub/internal/auth/http"
	authService "github.com/allisson/userhub/internal/auth/service"
	"github.com/allisson/userhub/internal/config"
	featureDomain "github.com/allisson/userhub/internal/feature/domain"
	featureHTTP "github.com/allisson/userhub/internal/feature/http"
	groupHTTP "github.com/allisson/userhub/internal/group/http"
	menuHTTP "github.com/allisson/userhub/internal/menu/http"
	"github.com/allisson/userhub/internal/metrics"
	paramHTTP "github.com/allisson/userhub/internal/param/http"
	userHTTP "github.com/allisson/userhub/internal/user/http"
)

// Handlers groups the per-domain HTTP handlers wired into the router.
type Handlers struct {
	Auth    *authHTTP.AuthHandler
	User    *userHTTP.UserHandler
	Group   *groupHTTP.GroupHandler
	Param   *paramHTTP.ParameterizationHandler
	Feature *featureHTTP.FeatureHandler
	Menu    *menuHTTP.MenuHandler
}

// Server represents the API HTTP server.
type Server struct {
	cfg             *config.Config
	logger          *slog.Logger
	db              *sql.DB
	handlers        Handlers
	tokenService    authService.TokenService
	catalog         *featureDomain.Catalog
	surfaces        *featureDomain.SurfaceTable
	metricsProvider *metrics.Provider

	router *gin.Engine
	server *http.Server
}

// NewServer creates a new API server. The router is built lazily on Start so
// tests can call GetHandler without binding a socket.
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	handlers Handlers,
	tokenService authService.TokenService,
	catalog *featureDomain.Catalog,
	surfaces *featureDomain.SurfaceTable,
	metricsProvider *metrics.Provider,
) *Server {
	return &Server{
		cfg:             cfg,
		logger:          logger,
		db:              db,
		handlers:        handlers,
		tokenService:    tokenService,
		catalog:         catalog,
		surfaces:        surfaces,
		metricsProvider: metricsProvider,
	}
}

// GetHandler returns the configured router, building it if needed.
func (s *Server) GetHandler() http.Handler {
	if s.router == nil {
		s.router = s.buildRouter()
	}
	return s.router
}

func (s *Server) buildRouter() *gin.Engine {
	gin.SetMode(s.cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(
		s.cfg.CORSEnabled,
		s.cfg.CORSAllowOrigins,
		s.logger,
	); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if s.metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(
			s.metricsProvider.MeterProvider(),
			s.cfg.MetricsNamespace,
		))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	s.registerPublicRoutes(router)
	s.registerProtectedRoutes(router)

	return router
}

// registerPublicRoutes registers the endpoints reachable without an access
// token: login, token exchange, and the password setup flow.
func (s *Server) registerPublicRoutes(router *gin.Engine) {
	public := router.Group("/v1")

	login := public.Group("")
	if s.cfg.RateLimitLoginEnabled {
		login.Use(authHTTP.LoginRateLimitMiddleware(
			s.cfg.RateLimitLoginRequestsPerSec,
			s.cfg.RateLimitLoginBurst,
			s.logger,
		))
	}
	login.POST("/auth/login", s.handlers.Auth.LoginHandler)

	public.POST("/auth/refresh-token", s.handlers.Auth.RefreshTokenHandler)
	public.POST("/auth/logout", s.handlers.Auth.LogoutHandler)
	public.POST("/users/password/reset-request", s.handlers.User.RequestPasswordResetHandler)
	public.POST("/users/password/setup", s.handlers.User.SetPasswordHandler)
}

// registerProtectedRoutes registers the endpoints behind authentication and
// catalog-driven route authorization.
func (s *Server) registerProtectedRoutes(router *gin.Engine) {
	protected := router.Group("/v1")
	protected.Use(authHTTP.AuthenticationMiddleware(s.tokenService, s.logger))
	protected.Use(authHTTP.RouteAuthorizationMiddleware(s.catalog, s.surfaces, s.logger))

	protected.POST("/users", s.handlers.User.CreateHandler)
	protected.GET("/users", s.handlers.User.ListHandler)
	protected.GET("/users/:id", s.handlers.User.GetHandler)
	protected.PUT("/users/:id", s.handlers.User.UpdateHandler)
	protected.DELETE("/users/:id", s.handlers.User.DeleteHandler)
	protected.PUT("/users/:id/groups", s.handlers.User.UpdateGroupsHandler)
	protected.PUT("/users/:id/permissions", s.handlers.User.UpdatePermissionsHandler)
	protected.GET("/users/:id/permissions", s.handlers.User.GetPermissionsHandler)

	protected.POST("/groups", s.handlers.Group.CreateHandler)
	protected.GET("/groups", s.handlers.Group.ListHandler)
	protected.GET("/groups/:id", s.handlers.Group.GetHandler)
	protected.PUT("/groups/:id", s.handlers.Group.UpdateHandler)
	protected.DELETE("/groups/:id", s.handlers.Group.DeleteHandler)

	protected.POST("/parameterizations", s.handlers.Param.CreateHandler)
	protected.GET("/parameterizations", s.handlers.Param.ListHandler)
	protected.GET("/parameterizations/:id", s.handlers.Param.GetHandler)
	protected.PUT("/parameterizations/:id", s.handlers.Param.UpdateHandler)
	protected.DELETE("/parameterizations/:id", s.handlers.Param.DeleteHandler)

	protected.GET("/features", s.handlers.Feature.ListHandler)
	protected.GET("/menus", s.handlers.Menu.ListHandler)
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve traffic, checking
// the database connection.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{"database": "ok"}

	if s.db == nil {
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.ServerHost, s.cfg.ServerPort),
		Handler:      s.GetHandler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
