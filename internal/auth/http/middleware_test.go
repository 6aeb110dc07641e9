package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authService "github.com/allisson/userhub/internal/auth/service"
	featureDomain "github.com/allisson/userhub/internal/feature/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testTokenService() authService.TokenService {
	return authService.NewTokenService("test-secret", 15*time.Minute, time.Hour, time.Hour)
}

func testCatalog(t *testing.T) *featureDomain.Catalog {
	t.Helper()
	catalog, err := featureDomain.LoadCatalog([]featureDomain.Feature{
		{
			Key:       "FINANCEIRO",
			Name:      "Finance",
			APIRoutes: []string{"api-users:get:/finance", "api-users:get:/finance/:id"},
		},
		{
			Key:       "DASHBOARD",
			Name:      "Dashboard",
			APIRoutes: []string{"api-users:get:/dashboard"},
		},
	}, testLogger())
	require.NoError(t, err)
	return catalog
}

func newAuthorizedRouter(t *testing.T, tokenService authService.TokenService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	surfaces := featureDomain.NewSurfaceTable("", nil)
	logger := testLogger()

	router := gin.New()
	router.Use(
		AuthenticationMiddleware(tokenService, logger),
		RouteAuthorizationMiddleware(testCatalog(t), surfaces, logger),
	)
	handler := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) }
	router.GET("/finance", handler)
	router.GET("/dashboard", handler)
	router.GET("/open-route", handler)
	return router
}

func issueAccessToken(t *testing.T, svc authService.TokenService, permissions []string) string {
	t.Helper()
	token, err := svc.IssueAccessToken(uuid.Must(uuid.NewV7()), "john.doe", "John Doe", permissions)
	require.NoError(t, err)
	return token
}

func TestAuthenticationMiddleware(t *testing.T) {
	svc := testTokenService()
	router := newAuthorizedRouter(t, svc)

	t.Run("Failure_MissingHeader", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Failure_MalformedHeader", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.Header.Set("Authorization", "Token abc")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Failure_GarbageToken", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Failure_RefreshTokenRejected", func(t *testing.T) {
		refresh, err := svc.IssueRefreshToken(uuid.Must(uuid.NewV7()), "john.doe")
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.Header.Set("Authorization", "Bearer "+refresh)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Success_CaseInsensitiveBearer", func(t *testing.T) {
		token := issueAccessToken(t, svc, []string{"DASHBOARD"})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.Header.Set("Authorization", "bearer "+token)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRouteAuthorizationMiddleware(t *testing.T) {
	svc := testTokenService()
	router := newAuthorizedRouter(t, svc)

	get := func(t *testing.T, path string, permissions []string) *httptest.ResponseRecorder {
		t.Helper()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+issueAccessToken(t, svc, permissions))
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("Success_HoldsRequiredCapability", func(t *testing.T) {
		w := get(t, "/finance", []string{"FINANCEIRO"})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Failure_MissingCapability", func(t *testing.T) {
		w := get(t, "/finance", []string{"DASHBOARD"})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "FINANCEIRO")
	})

	t.Run("Failure_EmptyPermissionSetOnGatedRoute", func(t *testing.T) {
		w := get(t, "/finance", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Success_UnclaimedRouteAllowed", func(t *testing.T) {
		w := get(t, "/open-route", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Success_WildcardSegmentMatch", func(t *testing.T) {
		router.GET("/finance/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := get(t, "/finance/42", []string{"FINANCEIRO"})
		assert.Equal(t, http.StatusOK, w.Code)

		w = get(t, "/finance/42", []string{"DASHBOARD"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Success_QueryStringIgnored", func(t *testing.T) {
		w := get(t, "/finance?page=2", []string{"FINANCEIRO"})
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRouteAuthorizationMiddleware_SurfaceIdentification(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := testTokenService()
	logger := testLogger()

	catalog, err := featureDomain.LoadCatalog([]featureDomain.Feature{
		{Key: "NOTIFICATIONS", APIRoutes: []string{"api-comms:get:/inbox"}},
	}, logger)
	require.NoError(t, err)

	surfaces := featureDomain.NewSurfaceTable("", []featureDomain.SurfaceEntry{
		{HostContains: "comms.", Surface: "api-comms"},
	})

	router := gin.New()
	router.Use(
		AuthenticationMiddleware(svc, logger),
		RouteAuthorizationMiddleware(catalog, surfaces, logger),
	)
	router.GET("/inbox", func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func(t *testing.T, host string, permissions []string) *httptest.ResponseRecorder {
		t.Helper()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/inbox", nil)
		req.Host = host
		req.Header.Set("Authorization", "Bearer "+issueAccessToken(t, svc, permissions))
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("Failure_CommsHostRequiresCapability", func(t *testing.T) {
		w := get(t, "comms.example.com", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Success_CommsHostWithCapability", func(t *testing.T) {
		w := get(t, "comms.example.com", []string{"NOTIFICATIONS"})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Success_DefaultSurfaceUnclaimed", func(t *testing.T) {
		// On the default surface no pattern claims /inbox, so the request
		// passes with no capabilities at all.
		w := get(t, "users.example.com", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
