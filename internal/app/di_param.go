package app

import (
	"fmt"

	featureHTTP "github.com/allisson/userhub/internal/feature/http"
	menuHTTP "github.com/allisson/userhub/internal/menu/http"
	paramHTTP "github.com/allisson/userhub/internal/param/http"
	paramRepository "github.com/allisson/userhub/internal/param/repository"
	paramUsecase "github.com/allisson/userhub/internal/param/usecase"
)

// ParameterizationRepository returns the parameterization repository based
// on the database driver.
func (c *Container) ParameterizationRepository() (paramUsecase.ParameterizationRepository, error) {
	c.paramRepoInit.Do(func() {
		repo, err := c.initParameterizationRepository()
		if err != nil {
			c.initErrors["paramRepo"] = err
			return
		}
		c.paramRepo = repo
	})
	if storedErr, exists := c.initErrors["paramRepo"]; exists {
		return nil, storedErr
	}
	return c.paramRepo, nil
}

func (c *Container) initParameterizationRepository() (paramUsecase.ParameterizationRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for parameterization repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return paramRepository.NewMySQLParameterizationRepository(db), nil
	case "postgres":
		return paramRepository.NewPostgreSQLParameterizationRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// ParameterizationUseCase returns the parameterization use case instance.
func (c *Container) ParameterizationUseCase() (paramUsecase.UseCase, error) {
	c.paramUseCaseInit.Do(func() {
		useCase, err := c.initParameterizationUseCase()
		if err != nil {
			c.initErrors["paramUseCase"] = err
			return
		}
		c.paramUseCase = useCase
	})
	if storedErr, exists := c.initErrors["paramUseCase"]; exists {
		return nil, storedErr
	}
	return c.paramUseCase, nil
}

func (c *Container) initParameterizationUseCase() (paramUsecase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, err
	}

	paramRepo, err := c.ParameterizationRepository()
	if err != nil {
		return nil, err
	}

	return paramUsecase.NewParameterizationUseCase(txManager, paramRepo), nil
}

// ParameterizationHandler returns the parameterization HTTP handler.
func (c *Container) ParameterizationHandler() (*paramHTTP.ParameterizationHandler, error) {
	useCase, err := c.ParameterizationUseCase()
	if err != nil {
		return nil, err
	}
	return paramHTTP.NewParameterizationHandler(useCase, c.Logger()), nil
}

// FeatureHandler returns the capability catalog HTTP handler.
func (c *Container) FeatureHandler() (*featureHTTP.FeatureHandler, error) {
	catalog, err := c.FeatureCatalog()
	if err != nil {
		return nil, err
	}
	return featureHTTP.NewFeatureHandler(catalog, c.Logger()), nil
}

// MenuHandler returns the navigation menu HTTP handler.
func (c *Container) MenuHandler() (*menuHTTP.MenuHandler, error) {
	menuCatalog, err := c.MenuCatalog()
	if err != nil {
		return nil, err
	}
	return menuHTTP.NewMenuHandler(menuCatalog, c.Logger()), nil
}
