package app

import (
	"fmt"

	"github.com/gin-gonic/gin"

	apikeyHTTP "github.com/cosecrets/cosecrets/internal/apikey/http"
	apikeyRepository "github.com/cosecrets/cosecrets/internal/apikey/repository"
	apikeyUsecase "github.com/cosecrets/cosecrets/internal/apikey/usecase"
	userHTTP "github.com/cosecrets/cosecrets/internal/user/http"
)

// ApiKeyRepository returns the API key repository instance.
func (c *Container) ApiKeyRepository() (apikeyUsecase.ApiKeyRepository, error) {
	c.apiKeyRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["apiKeyRepo"] = fmt.Errorf("failed to get database for api key repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.apiKeyRepo = apikeyRepository.NewMySQLApiKeyRepository(db)
		case "postgres":
			c.apiKeyRepo = apikeyRepository.NewPostgreSQLApiKeyRepository(db)
		default:
			c.initErrors["apiKeyRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["apiKeyRepo"]; exists {
		return nil, storedErr
	}
	return c.apiKeyRepo, nil
}

// ApiKeyUseCase returns the API key use case instance.
func (c *Container) ApiKeyUseCase() (apikeyUsecase.ApiKeyUseCase, error) {
	c.apiKeyUseCaseInit.Do(func() {
		apiKeyRepo, err := c.ApiKeyRepository()
		if err != nil {
			c.initErrors["apiKeyUseCase"] = fmt.Errorf("failed to get api key repository for api key use case: %w", err)
			return
		}
		recorder, err := c.Recorder()
		if err != nil {
			c.initErrors["apiKeyUseCase"] = fmt.Errorf("failed to get audit recorder for api key use case: %w", err)
			return
		}
		c.apiKeyUseCase = apikeyUsecase.NewApiKeyUseCase(apiKeyRepo, c.KeyGenerator(), recorder, c.Logger())
	})
	if storedErr, exists := c.initErrors["apiKeyUseCase"]; exists {
		return nil, storedErr
	}
	return c.apiKeyUseCase, nil
}

// ApiKeyHandler returns the API key HTTP handler.
func (c *Container) ApiKeyHandler() (*apikeyHTTP.ApiKeyHandler, error) {
	c.apiKeyHandlerInit.Do(func() {
		useCase, err := c.ApiKeyUseCase()
		if err != nil {
			c.initErrors["apiKeyHandler"] = fmt.Errorf("failed to get api key use case for api key handler: %w", err)
			return
		}
		c.apiKeyHandler = apikeyHTTP.NewApiKeyHandler(useCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["apiKeyHandler"]; exists {
		return nil, storedErr
	}
	return c.apiKeyHandler, nil
}

// IdentityMiddleware builds the authentication middleware combining HTTP
// Basic session resolution with bearer API keys.
func (c *Container) IdentityMiddleware() (gin.HandlerFunc, error) {
	userUseCase, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for identity middleware: %w", err)
	}
	apiKeyUseCase, err := c.ApiKeyUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get api key use case for identity middleware: %w", err)
	}

	sessions := userHTTP.NewBasicSessionResolver(userUseCase)
	return apikeyHTTP.IdentityMiddleware(sessions, apiKeyUseCase, c.Logger()), nil
}
