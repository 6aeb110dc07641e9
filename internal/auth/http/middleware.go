// Package http provides HTTP handlers and middleware for authentication and
// route authorization.
package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/userhub/internal/auth/domain"
	authService "github.com/allisson/userhub/internal/auth/service"
	apperrors "github.com/allisson/userhub/internal/errors"
	featureDomain "github.com/allisson/userhub/internal/feature/domain"
	"github.com/allisson/userhub/internal/httputil"
)

// AuthenticationMiddleware authenticates requests via a Bearer access token
// in the Authorization header.
//
// The middleware verifies the credential's signature, expiration, and
// purpose, then stores the caller as a Principal in the request context for
// downstream handlers and the authorization middleware.
//
// Error handling:
//   - Missing or malformed Authorization header: 401 Unauthorized
//   - Invalid, expired, or wrong-purpose credential: 401 Unauthorized
func AuthenticationMiddleware(
	tokenService authService.TokenService,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		plainToken := authHeader[len(bearerPrefix):]
		if plainToken == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		claims, err := tokenService.VerifyToken(plainToken, authDomain.AccessTokenType)
		if err != nil {
			logger.Debug("authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		principal, err := principalFromClaims(claims)
		if err != nil {
			logger.Debug("authentication failed: bad subject claim")
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		ctx := WithPrincipal(c.Request.Context(), principal)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authentication successful",
			slog.String("user_id", principal.UserID.String()),
			slog.String("login", principal.Login))

		c.Next()
	}
}

// RouteAuthorizationMiddleware authorizes each request against the
// capability catalog. It must run after AuthenticationMiddleware.
//
// The middleware identifies the API surface from the request host and Origin
// header, normalizes the request path, and asks the catalog for a decision
// using the principal's capabilities. Routes no catalog entry claims are
// allowed through; authentication alone gates them.
//
// Error handling:
//   - No principal in context: 401 Unauthorized
//   - Catalog denies the request: 403 Forbidden with the capability keys
//     that would grant access
func RouteAuthorizationMiddleware(
	catalog *featureDomain.Catalog,
	surfaces *featureDomain.SurfaceTable,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok || principal == nil {
			logger.Debug("authorization failed: no principal in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		surface := surfaces.Identify(c.Request.Host, c.GetHeader("Origin"))
		path := featureDomain.NormalizePath(c.Request.URL.Path)

		decision := catalog.Authorize(principal.Permissions, surface, c.Request.Method, path)
		if !decision.Allowed {
			logger.Debug("authorization failed: missing capability",
				slog.String("user_id", principal.UserID.String()),
				slog.String("login", principal.Login),
				slog.String("surface", surface),
				slog.String("method", c.Request.Method),
				slog.String("path", path),
				slog.Any("required_features", decision.RequiredFeatures))
			httputil.HandleForbiddenGin(c, decision.RequiredFeatures, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
