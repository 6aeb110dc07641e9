package app

import (
	"fmt"

	authHTTP "github.com/allisson/userhub/internal/auth/http"
	authService "github.com/allisson/userhub/internal/auth/service"
	authUseCase "github.com/allisson/userhub/internal/auth/usecase"
)

// TokenService returns the token service for credential issuance and
// verification.
func (c *Container) TokenService() authService.TokenService {
	c.tokenServiceInit.Do(func() {
		c.tokenService = authService.NewTokenService(
			c.config.JWTSecret,
			c.config.AccessTokenExpiration,
			c.config.RefreshTokenExpiration,
			c.config.PasswordTokenExpiration,
		)
	})
	return c.tokenService
}

// PasswordService returns the password hashing service.
func (c *Container) PasswordService() (authService.PasswordService, error) {
	c.passwordServiceInit.Do(func() {
		service, err := authService.NewPasswordService()
		if err != nil {
			c.initErrors["passwordService"] = fmt.Errorf("failed to create password service: %w", err)
			return
		}
		c.passwordService = service
	})
	if storedErr, exists := c.initErrors["passwordService"]; exists {
		return nil, storedErr
	}
	return c.passwordService, nil
}

// PermissionResolver returns the permission resolution service.
func (c *Container) PermissionResolver() (authService.PermissionResolver, error) {
	c.permissionResolverInit.Do(func() {
		groupRepo, err := c.GroupRepository()
		if err != nil {
			c.initErrors["permissionResolver"] = err
			return
		}
		c.permissionResolver = authService.NewPermissionResolver(groupRepo)
	})
	if storedErr, exists := c.initErrors["permissionResolver"]; exists {
		return nil, storedErr
	}
	return c.permissionResolver, nil
}

// AuthUseCase returns the authentication use case, wrapped with business
// metrics when metrics are enabled.
func (c *Container) AuthUseCase() (authUseCase.AuthUseCase, error) {
	c.authUseCaseInit.Do(func() {
		useCase, err := c.initAuthUseCase()
		if err != nil {
			c.initErrors["authUseCase"] = err
			return
		}
		c.authUseCase = useCase
	})
	if storedErr, exists := c.initErrors["authUseCase"]; exists {
		return nil, storedErr
	}
	return c.authUseCase, nil
}

func (c *Container) initAuthUseCase() (authUseCase.AuthUseCase, error) {
	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, err
	}

	passwordService, err := c.PasswordService()
	if err != nil {
		return nil, err
	}

	permissionResolver, err := c.PermissionResolver()
	if err != nil {
		return nil, err
	}

	useCase := authUseCase.NewAuthUseCase(
		c.config,
		userRepo,
		c.TokenService(),
		passwordService,
		permissionResolver,
	)

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}

	return authUseCase.NewAuthUseCaseWithMetrics(useCase, businessMetrics), nil
}

// AuthHandler returns the authentication HTTP handler.
func (c *Container) AuthHandler() (*authHTTP.AuthHandler, error) {
	useCase, err := c.AuthUseCase()
	if err != nil {
		return nil, err
	}
	return authHTTP.NewAuthHandler(useCase, c.Logger()), nil
}
