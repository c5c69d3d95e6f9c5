package app

import (
	"fmt"

	projectHTTP "github.com/cosecrets/cosecrets/internal/project/http"
	projectRepository "github.com/cosecrets/cosecrets/internal/project/repository"
	projectUsecase "github.com/cosecrets/cosecrets/internal/project/usecase"
)

// ProjectRepository returns the project repository instance.
func (c *Container) ProjectRepository() (projectUsecase.ProjectRepository, error) {
	c.projectRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["projectRepo"] = fmt.Errorf("failed to get database for project repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.projectRepo = projectRepository.NewMySQLProjectRepository(db)
		case "postgres":
			c.projectRepo = projectRepository.NewPostgreSQLProjectRepository(db)
		default:
			c.initErrors["projectRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["projectRepo"]; exists {
		return nil, storedErr
	}
	return c.projectRepo, nil
}

// EnvironmentRepository returns the environment repository instance.
func (c *Container) EnvironmentRepository() (projectUsecase.EnvironmentRepository, error) {
	c.environmentRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["environmentRepo"] = fmt.Errorf("failed to get database for environment repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.environmentRepo = projectRepository.NewMySQLEnvironmentRepository(db)
		case "postgres":
			c.environmentRepo = projectRepository.NewPostgreSQLEnvironmentRepository(db)
		default:
			c.initErrors["environmentRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["environmentRepo"]; exists {
		return nil, storedErr
	}
	return c.environmentRepo, nil
}

// ProjectUseCase returns the project use case instance.
func (c *Container) ProjectUseCase() (projectUsecase.ProjectUseCase, error) {
	c.projectUseCaseInit.Do(func() {
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["projectUseCase"] = fmt.Errorf("failed to get tx manager for project use case: %w", err)
			return
		}
		projectRepo, err := c.ProjectRepository()
		if err != nil {
			c.initErrors["projectUseCase"] = fmt.Errorf("failed to get project repository for project use case: %w", err)
			return
		}
		environmentRepo, err := c.EnvironmentRepository()
		if err != nil {
			c.initErrors["projectUseCase"] = fmt.Errorf("failed to get environment repository for project use case: %w", err)
			return
		}
		access, err := c.AccessResolver()
		if err != nil {
			c.initErrors["projectUseCase"] = fmt.Errorf("failed to get access resolver for project use case: %w", err)
			return
		}
		recorder, err := c.Recorder()
		if err != nil {
			c.initErrors["projectUseCase"] = fmt.Errorf("failed to get audit recorder for project use case: %w", err)
			return
		}
		c.projectUseCase = projectUsecase.NewProjectUseCase(txManager, projectRepo, environmentRepo, access, recorder)
	})
	if storedErr, exists := c.initErrors["projectUseCase"]; exists {
		return nil, storedErr
	}
	return c.projectUseCase, nil
}

// ProjectHandler returns the project HTTP handler.
func (c *Container) ProjectHandler() (*projectHTTP.ProjectHandler, error) {
	c.projectHandlerInit.Do(func() {
		useCase, err := c.ProjectUseCase()
		if err != nil {
			c.initErrors["projectHandler"] = fmt.Errorf("failed to get project use case for project handler: %w", err)
			return
		}
		c.projectHandler = projectHTTP.NewProjectHandler(useCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["projectHandler"]; exists {
		return nil, storedErr
	}
	return c.projectHandler, nil
}
