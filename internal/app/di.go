// Package app provides the dependency injection container assembling the
// application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	authService "github.com/allisson/userhub/internal/auth/service"
	authUseCase "github.com/allisson/userhub/internal/auth/usecase"
	"github.com/allisson/userhub/internal/config"
	"github.com/allisson/userhub/internal/database"
	featureDomain "github.com/allisson/userhub/internal/feature/domain"
	groupUsecase "github.com/allisson/userhub/internal/group/usecase"
	"github.com/allisson/userhub/internal/http"
	"github.com/allisson/userhub/internal/mail"
	menuDomain "github.com/allisson/userhub/internal/menu/domain"
	"github.com/allisson/userhub/internal/metrics"
	paramUsecase "github.com/allisson/userhub/internal/param/usecase"
	userUsecase "github.com/allisson/userhub/internal/user/usecase"
)

// groupRepository joins the group persistence operations with the bulk
// feature lookup used by permission resolution. Both database-specific
// repositories implement it.
type groupRepository interface {
	groupUsecase.GroupRepository
	authService.GroupFeatureReader
}

// Container holds all application dependencies and provides methods to
// access them. Components are created lazily on first access.
type Container struct {
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	txManager       database.TxManager
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	mailer          mail.Mailer

	// Catalogs, loaded once at startup
	featureCatalog *featureDomain.Catalog
	menuCatalog    *menuDomain.Catalog
	surfaceTable   *featureDomain.SurfaceTable

	// Services
	tokenService       authService.TokenService
	passwordService    authService.PasswordService
	permissionResolver authService.PermissionResolver

	// Repositories
	userRepo  userUsecase.UserRepository
	groupRepo groupRepository
	paramRepo paramUsecase.ParameterizationRepository

	// Use cases
	authUseCase  authUseCase.AuthUseCase
	userUseCase  userUsecase.UseCase
	groupUseCase groupUsecase.UseCase
	paramUseCase paramUsecase.UseCase

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	mu                     sync.Mutex
	loggerInit             sync.Once
	dbInit                 sync.Once
	txManagerInit          sync.Once
	metricsProviderInit    sync.Once
	businessMetricsInit    sync.Once
	mailerInit             sync.Once
	featureCatalogInit     sync.Once
	menuCatalogInit        sync.Once
	surfaceTableInit       sync.Once
	tokenServiceInit       sync.Once
	passwordServiceInit    sync.Once
	permissionResolverInit sync.Once
	userRepoInit           sync.Once
	groupRepoInit          sync.Once
	paramRepoInit          sync.Once
	authUseCaseInit        sync.Once
	userUseCaseInit        sync.Once
	groupUseCaseInit       sync.Once
	paramUseCaseInit       sync.Once
	httpServerInit         sync.Once
	metricsServerInit      sync.Once
	initErrors             map[string]error
}

// NewContainer creates a new dependency injection container with the
// provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := c.initDB()
		if err != nil {
			c.initErrors["db"] = err
			return
		}
		c.db = db
	})
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	c.txManagerInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["txManager"] = fmt.Errorf("failed to get database for tx manager: %w", err)
			return
		}
		c.txManager = database.NewTxManager(db)
	})
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the OpenTelemetry metrics provider, or nil when
// metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = fmt.Errorf("failed to create metrics provider: %w", err)
			return
		}
		c.metricsProvider = provider
	})
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. A no-op recorder is
// returned when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}
		bm, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = fmt.Errorf("failed to create business metrics: %w", err)
			return
		}
		c.businessMetrics = bm
	})
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// Mailer returns the configured mail backend.
func (c *Container) Mailer() mail.Mailer {
	c.mailerInit.Do(func() {
		c.mailer = c.initMailer()
	})
	return c.mailer
}

// FeatureCatalog returns the capability catalog embedded in the binary. A
// catalog that fails validation aborts startup.
func (c *Container) FeatureCatalog() (*featureDomain.Catalog, error) {
	c.featureCatalogInit.Do(func() {
		catalog, err := featureDomain.DefaultCatalog(c.Logger())
		if err != nil {
			c.initErrors["featureCatalog"] = fmt.Errorf("failed to load feature catalog: %w", err)
			return
		}
		c.featureCatalog = catalog
	})
	if storedErr, exists := c.initErrors["featureCatalog"]; exists {
		return nil, storedErr
	}
	return c.featureCatalog, nil
}

// MenuCatalog returns the navigation menu catalog embedded in the binary.
func (c *Container) MenuCatalog() (*menuDomain.Catalog, error) {
	c.menuCatalogInit.Do(func() {
		catalog, err := c.FeatureCatalog()
		if err != nil {
			c.initErrors["menuCatalog"] = err
			return
		}
		menuCatalog, err := menuDomain.DefaultCatalog(catalog, c.Logger())
		if err != nil {
			c.initErrors["menuCatalog"] = fmt.Errorf("failed to load menu catalog: %w", err)
			return
		}
		c.menuCatalog = menuCatalog
	})
	if storedErr, exists := c.initErrors["menuCatalog"]; exists {
		return nil, storedErr
	}
	return c.menuCatalog, nil
}

// SurfaceTable returns the host-to-surface mapping used by route
// authorization.
func (c *Container) SurfaceTable() *featureDomain.SurfaceTable {
	c.surfaceTableInit.Do(func() {
		c.surfaceTable = featureDomain.NewSurfaceTable(
			c.config.DefaultSurface,
			featureDomain.ParseSurfaceEntries(c.config.SurfaceHosts),
		)
	})
	return c.surfaceTable
}

// HTTPServer returns the API HTTP server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		c.httpServer = server
	})
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the Prometheus metrics server, or nil when metrics
// are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates a structured logger based on the configured log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initMailer selects the mail backend. The dev backend logs the password
// setup link instead of sending mail.
func (c *Container) initMailer() mail.Mailer {
	switch c.config.MailProvider {
	case "postmark":
		return mail.NewPostmarkMailer(
			c.config.PostmarkServerToken,
			c.config.PostmarkAccountToken,
			c.config.MailSenderEmail,
			c.config.AppBaseURL,
		)
	default:
		return mail.NewDevMailer(c.config.AppBaseURL, c.Logger())
	}
}

// initHTTPServer assembles the API server with every handler and middleware
// dependency.
func (c *Container) initHTTPServer() (*http.Server, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	catalog, err := c.FeatureCatalog()
	if err != nil {
		return nil, err
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}

	authHandler, err := c.AuthHandler()
	if err != nil {
		return nil, err
	}
	userHandler, err := c.UserHandler()
	if err != nil {
		return nil, err
	}
	groupHandler, err := c.GroupHandler()
	if err != nil {
		return nil, err
	}
	paramHandler, err := c.ParameterizationHandler()
	if err != nil {
		return nil, err
	}
	featureHandler, err := c.FeatureHandler()
	if err != nil {
		return nil, err
	}
	menuHandler, err := c.MenuHandler()
	if err != nil {
		return nil, err
	}

	handlers := http.Handlers{
		Auth:    authHandler,
		User:    userHandler,
		Group:   groupHandler,
		Param:   paramHandler,
		Feature: featureHandler,
		Menu:    menuHandler,
	}

	return http.NewServer(
		c.config,
		c.Logger(),
		db,
		handlers,
		c.TokenService(),
		catalog,
		c.SurfaceTable(),
		provider,
	), nil
}
