package app

import (
	"fmt"

	secretHTTP "github.com/cosecrets/cosecrets/internal/secret/http"
	secretRepository "github.com/cosecrets/cosecrets/internal/secret/repository"
	secretUsecase "github.com/cosecrets/cosecrets/internal/secret/usecase"
)

// SecretRepository returns the secret repository instance.
func (c *Container) SecretRepository() (secretUsecase.SecretRepository, error) {
	c.secretRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["secretRepo"] = fmt.Errorf("failed to get database for secret repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.secretRepo = secretRepository.NewMySQLSecretRepository(db)
		case "postgres":
			c.secretRepo = secretRepository.NewPostgreSQLSecretRepository(db)
		default:
			c.initErrors["secretRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["secretRepo"]; exists {
		return nil, storedErr
	}
	return c.secretRepo, nil
}

// SecretHistoryRepository returns the secret history repository instance.
func (c *Container) SecretHistoryRepository() (secretUsecase.SecretHistoryRepository, error) {
	c.historyRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["historyRepo"] = fmt.Errorf("failed to get database for secret history repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.historyRepo = secretRepository.NewMySQLSecretHistoryRepository(db)
		case "postgres":
			c.historyRepo = secretRepository.NewPostgreSQLSecretHistoryRepository(db)
		default:
			c.initErrors["historyRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["historyRepo"]; exists {
		return nil, storedErr
	}
	return c.historyRepo, nil
}

// SecretUseCase returns the secret use case instance, decorated with metrics
// when metrics are enabled.
func (c *Container) SecretUseCase() (secretUsecase.SecretUseCase, error) {
	c.secretUseCaseInit.Do(func() {
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["secretUseCase"] = fmt.Errorf("failed to get tx manager for secret use case: %w", err)
			return
		}
		secretRepo, err := c.SecretRepository()
		if err != nil {
			c.initErrors["secretUseCase"] = fmt.Errorf("failed to get secret repository for secret use case: %w", err)
			return
		}
		historyRepo, err := c.SecretHistoryRepository()
		if err != nil {
			c.initErrors["secretUseCase"] = fmt.Errorf("failed to get history repository for secret use case: %w", err)
			return
		}
		encryptor, err := c.Encryptor()
		if err != nil {
			c.initErrors["secretUseCase"] = fmt.Errorf("failed to get encryptor for secret use case: %w", err)
			return
		}
		access, err := c.AccessResolver()
		if err != nil {
			c.initErrors["secretUseCase"] = fmt.Errorf("failed to get access resolver for secret use case: %w", err)
			return
		}
		recorder, err := c.Recorder()
		if err != nil {
			c.initErrors["secretUseCase"] = fmt.Errorf("failed to get audit recorder for secret use case: %w", err)
			return
		}
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["secretUseCase"] = fmt.Errorf("failed to get business metrics for secret use case: %w", err)
			return
		}

		useCase := secretUsecase.NewSecretUseCase(txManager, secretRepo, historyRepo, encryptor, access, recorder)
		c.secretUseCase = secretUsecase.NewSecretUseCaseWithMetrics(useCase, businessMetrics)
	})
	if storedErr, exists := c.initErrors["secretUseCase"]; exists {
		return nil, storedErr
	}
	return c.secretUseCase, nil
}

// SecretHandler returns the secret HTTP handler.
func (c *Container) SecretHandler() (*secretHTTP.SecretHandler, error) {
	c.secretHandlerInit.Do(func() {
		useCase, err := c.SecretUseCase()
		if err != nil {
			c.initErrors["secretHandler"] = fmt.Errorf("failed to get secret use case for secret handler: %w", err)
			return
		}
		c.secretHandler = secretHTTP.NewSecretHandler(useCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["secretHandler"]; exists {
		return nil, storedErr
	}
	return c.secretHandler, nil
}
