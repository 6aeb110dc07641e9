package app

import (
	"fmt"

	userHTTP "github.com/allisson/userhub/internal/user/http"
	userRepository "github.com/allisson/userhub/internal/user/repository"
	userUsecase "github.com/allisson/userhub/internal/user/usecase"
)

// UserRepository returns the user repository based on the database driver.
func (c *Container) UserRepository() (userUsecase.UserRepository, error) {
	c.userRepoInit.Do(func() {
		repo, err := c.initUserRepository()
		if err != nil {
			c.initErrors["userRepo"] = err
			return
		}
		c.userRepo = repo
	})
	if storedErr, exists := c.initErrors["userRepo"]; exists {
		return nil, storedErr
	}
	return c.userRepo, nil
}

func (c *Container) initUserRepository() (userUsecase.UserRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for user repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return userRepository.NewMySQLUserRepository(db), nil
	case "postgres":
		return userRepository.NewPostgreSQLUserRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// UserUseCase returns the user use case instance.
func (c *Container) UserUseCase() (userUsecase.UseCase, error) {
	c.userUseCaseInit.Do(func() {
		useCase, err := c.initUserUseCase()
		if err != nil {
			c.initErrors["userUseCase"] = err
			return
		}
		c.userUseCase = useCase
	})
	if storedErr, exists := c.initErrors["userUseCase"]; exists {
		return nil, storedErr
	}
	return c.userUseCase, nil
}

func (c *Container) initUserUseCase() (userUsecase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, err
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, err
	}

	groupRepo, err := c.GroupRepository()
	if err != nil {
		return nil, err
	}

	catalog, err := c.FeatureCatalog()
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

	return userUsecase.NewUserUseCase(
		txManager,
		userRepo,
		groupRepo,
		catalog,
		c.TokenService(),
		passwordService,
		permissionResolver,
		c.Mailer(),
	), nil
}

// UserHandler returns the user HTTP handler.
func (c *Container) UserHandler() (*userHTTP.UserHandler, error) {
	useCase, err := c.UserUseCase()
	if err != nil {
		return nil, err
	}
	return userHTTP.NewUserHandler(useCase, c.Logger()), nil
}
