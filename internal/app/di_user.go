package app

import (
	"fmt"

	userHTTP "github.com/cosecrets/cosecrets/internal/user/http"
	userRepository "github.com/cosecrets/cosecrets/internal/user/repository"
	userUsecase "github.com/cosecrets/cosecrets/internal/user/usecase"
)

// UserRepository returns the user repository instance.
func (c *Container) UserRepository() (userUsecase.UserRepository, error) {
	c.userRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["userRepo"] = fmt.Errorf("failed to get database for user repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.userRepo = userRepository.NewMySQLUserRepository(db)
		case "postgres":
			c.userRepo = userRepository.NewPostgreSQLUserRepository(db)
		default:
			c.initErrors["userRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["userRepo"]; exists {
		return nil, storedErr
	}
	return c.userRepo, nil
}

// UserUseCase returns the user use case instance.
func (c *Container) UserUseCase() (userUsecase.UseCase, error) {
	c.userUseCaseInit.Do(func() {
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["userUseCase"] = fmt.Errorf("failed to get tx manager for user use case: %w", err)
			return
		}
		userRepo, err := c.UserRepository()
		if err != nil {
			c.initErrors["userUseCase"] = fmt.Errorf("failed to get user repository for user use case: %w", err)
			return
		}
		teamRepo, err := c.TeamRepository()
		if err != nil {
			c.initErrors["userUseCase"] = fmt.Errorf("failed to get team repository for user use case: %w", err)
			return
		}
		membershipRepo, err := c.MembershipRepository()
		if err != nil {
			c.initErrors["userUseCase"] = fmt.Errorf("failed to get membership repository for user use case: %w", err)
			return
		}
		recorder, err := c.Recorder()
		if err != nil {
			c.initErrors["userUseCase"] = fmt.Errorf("failed to get audit recorder for user use case: %w", err)
			return
		}
		useCase, err := userUsecase.NewUserUseCase(txManager, userRepo, teamRepo, membershipRepo, recorder)
		if err != nil {
			c.initErrors["userUseCase"] = fmt.Errorf("failed to create user use case: %w", err)
			return
		}
		c.userUseCase = useCase
	})
	if storedErr, exists := c.initErrors["userUseCase"]; exists {
		return nil, storedErr
	}
	return c.userUseCase, nil
}

// UserHandler returns the user HTTP handler.
func (c *Container) UserHandler() (*userHTTP.UserHandler, error) {
	c.userHandlerInit.Do(func() {
		useCase, err := c.UserUseCase()
		if err != nil {
			c.initErrors["userHandler"] = fmt.Errorf("failed to get user use case for user handler: %w", err)
			return
		}
		c.userHandler = userHTTP.NewUserHandler(useCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["userHandler"]; exists {
		return nil, storedErr
	}
	return c.userHandler, nil
}
