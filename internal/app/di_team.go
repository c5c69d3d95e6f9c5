package app

import (
	"fmt"

	teamHTTP "github.com/cosecrets/cosecrets/internal/team/http"
	teamRepository "github.com/cosecrets/cosecrets/internal/team/repository"
	teamUsecase "github.com/cosecrets/cosecrets/internal/team/usecase"
)

// TeamRepository returns the team repository instance.
func (c *Container) TeamRepository() (teamUsecase.TeamRepository, error) {
	c.teamRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["teamRepo"] = fmt.Errorf("failed to get database for team repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.teamRepo = teamRepository.NewMySQLTeamRepository(db)
		case "postgres":
			c.teamRepo = teamRepository.NewPostgreSQLTeamRepository(db)
		default:
			c.initErrors["teamRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["teamRepo"]; exists {
		return nil, storedErr
	}
	return c.teamRepo, nil
}

// MembershipRepository returns the team membership repository instance.
func (c *Container) MembershipRepository() (teamUsecase.MembershipRepository, error) {
	c.membershipRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["membershipRepo"] = fmt.Errorf("failed to get database for membership repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.membershipRepo = teamRepository.NewMySQLMembershipRepository(db)
		case "postgres":
			c.membershipRepo = teamRepository.NewPostgreSQLMembershipRepository(db)
		default:
			c.initErrors["membershipRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["membershipRepo"]; exists {
		return nil, storedErr
	}
	return c.membershipRepo, nil
}

// AccessResolver returns the role-based access resolver.
func (c *Container) AccessResolver() (teamUsecase.AccessResolver, error) {
	c.accessResolverInit.Do(func() {
		membershipRepo, err := c.MembershipRepository()
		if err != nil {
			c.initErrors["accessResolver"] = fmt.Errorf("failed to get membership repository for access resolver: %w", err)
			return
		}
		c.accessResolver = teamUsecase.NewAccessResolver(membershipRepo)
	})
	if storedErr, exists := c.initErrors["accessResolver"]; exists {
		return nil, storedErr
	}
	return c.accessResolver, nil
}

// TeamUseCase returns the team use case instance.
func (c *Container) TeamUseCase() (teamUsecase.TeamUseCase, error) {
	c.teamUseCaseInit.Do(func() {
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["teamUseCase"] = fmt.Errorf("failed to get tx manager for team use case: %w", err)
			return
		}
		teamRepo, err := c.TeamRepository()
		if err != nil {
			c.initErrors["teamUseCase"] = fmt.Errorf("failed to get team repository for team use case: %w", err)
			return
		}
		membershipRepo, err := c.MembershipRepository()
		if err != nil {
			c.initErrors["teamUseCase"] = fmt.Errorf("failed to get membership repository for team use case: %w", err)
			return
		}
		access, err := c.AccessResolver()
		if err != nil {
			c.initErrors["teamUseCase"] = fmt.Errorf("failed to get access resolver for team use case: %w", err)
			return
		}
		recorder, err := c.Recorder()
		if err != nil {
			c.initErrors["teamUseCase"] = fmt.Errorf("failed to get audit recorder for team use case: %w", err)
			return
		}
		c.teamUseCase = teamUsecase.NewTeamUseCase(txManager, teamRepo, membershipRepo, access, recorder)
	})
	if storedErr, exists := c.initErrors["teamUseCase"]; exists {
		return nil, storedErr
	}
	return c.teamUseCase, nil
}

// TeamHandler returns the team HTTP handler.
func (c *Container) TeamHandler() (*teamHTTP.TeamHandler, error) {
	c.teamHandlerInit.Do(func() {
		useCase, err := c.TeamUseCase()
		if err != nil {
			c.initErrors["teamHandler"] = fmt.Errorf("failed to get team use case for team handler: %w", err)
			return
		}
		c.teamHandler = teamHTTP.NewTeamHandler(useCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["teamHandler"]; exists {
		return nil, storedErr
	}
	return c.teamHandler, nil
}
