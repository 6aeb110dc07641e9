package app

import (
	"fmt"

	groupHTTP "github.com/allisson/userhub/internal/group/http"
	groupRepositoryPkg "github.com/allisson/userhub/internal/group/repository"
	groupUsecase "github.com/allisson/userhub/internal/group/usecase"
)

// GroupRepository returns the group repository based on the database driver.
func (c *Container) GroupRepository() (groupRepository, error) {
	c.groupRepoInit.Do(func() {
		repo, err := c.initGroupRepository()
		if err != nil {
			c.initErrors["groupRepo"] = err
			return
		}
		c.groupRepo = repo
	})
	if storedErr, exists := c.initErrors["groupRepo"]; exists {
		return nil, storedErr
	}
	return c.groupRepo, nil
}

func (c *Container) initGroupRepository() (groupRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for group repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return groupRepositoryPkg.NewMySQLGroupRepository(db), nil
	case "postgres":
		return groupRepositoryPkg.NewPostgreSQLGroupRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// GroupUseCase returns the group use case instance.
func (c *Container) GroupUseCase() (groupUsecase.UseCase, error) {
	c.groupUseCaseInit.Do(func() {
		useCase, err := c.initGroupUseCase()
		if err != nil {
			c.initErrors["groupUseCase"] = err
			return
		}
		c.groupUseCase = useCase
	})
	if storedErr, exists := c.initErrors["groupUseCase"]; exists {
		return nil, storedErr
	}
	return c.groupUseCase, nil
}

func (c *Container) initGroupUseCase() (groupUsecase.UseCase, error) {
	txManager, err := c.TxManager()
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

	return groupUsecase.NewGroupUseCase(txManager, groupRepo, catalog), nil
}

// GroupHandler returns the group HTTP handler.
func (c *Container) GroupHandler() (*groupHTTP.GroupHandler, error) {
	useCase, err := c.GroupUseCase()
	if err != nil {
		return nil, err
	}
	return groupHTTP.NewGroupHandler(useCase, c.Logger()), nil
}
