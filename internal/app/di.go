// Package app provides the dependency injection container assembling the
// application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	apikeyHTTP "github.com/cosecrets/cosecrets/internal/apikey/http"
	apikeyUsecase "github.com/cosecrets/cosecrets/internal/apikey/usecase"
	auditHTTP "github.com/cosecrets/cosecrets/internal/audit/http"
	auditUsecase "github.com/cosecrets/cosecrets/internal/audit/usecase"
	"github.com/cosecrets/cosecrets/internal/config"
	cryptoService "github.com/cosecrets/cosecrets/internal/crypto/service"
	"github.com/cosecrets/cosecrets/internal/database"
	"github.com/cosecrets/cosecrets/internal/http"
	"github.com/cosecrets/cosecrets/internal/metrics"
	projectHTTP "github.com/cosecrets/cosecrets/internal/project/http"
	projectUsecase "github.com/cosecrets/cosecrets/internal/project/usecase"
	secretHTTP "github.com/cosecrets/cosecrets/internal/secret/http"
	secretUsecase "github.com/cosecrets/cosecrets/internal/secret/usecase"
	teamHTTP "github.com/cosecrets/cosecrets/internal/team/http"
	teamUsecase "github.com/cosecrets/cosecrets/internal/team/usecase"
	userHTTP "github.com/cosecrets/cosecrets/internal/user/http"
	userUsecase "github.com/cosecrets/cosecrets/internal/user/usecase"
)

// Container holds all application dependencies and provides methods to access
// them. Components are created lazily on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	txManager       database.TxManager
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	encryptor       cryptoService.Encryptor
	keyGenerator    cryptoService.KeyGenerator

	// Repositories
	userRepo        userUsecase.UserRepository
	teamRepo        teamUsecase.TeamRepository
	membershipRepo  teamUsecase.MembershipRepository
	projectRepo     projectUsecase.ProjectRepository
	environmentRepo projectUsecase.EnvironmentRepository
	secretRepo      secretUsecase.SecretRepository
	historyRepo     secretUsecase.SecretHistoryRepository
	apiKeyRepo      apikeyUsecase.ApiKeyRepository
	auditLogRepo    auditUsecase.AuditLogRepository

	// Use cases
	userUseCase     userUsecase.UseCase
	teamUseCase     teamUsecase.TeamUseCase
	projectUseCase  projectUsecase.ProjectUseCase
	secretUseCase   secretUsecase.SecretUseCase
	apiKeyUseCase   apikeyUsecase.ApiKeyUseCase
	auditLogUseCase auditUsecase.AuditLogUseCase
	accessResolver  teamUsecase.AccessResolver
	recorder        auditUsecase.Recorder

	// Handlers
	userHandler     *userHTTP.UserHandler
	teamHandler     *teamHTTP.TeamHandler
	projectHandler  *projectHTTP.ProjectHandler
	secretHandler   *secretHTTP.SecretHandler
	apiKeyHandler   *apikeyHTTP.ApiKeyHandler
	auditLogHandler *auditHTTP.AuditLogHandler

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	txManagerInit       sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	encryptorInit       sync.Once
	keyGeneratorInit    sync.Once
	userRepoInit        sync.Once
	teamRepoInit        sync.Once
	membershipRepoInit  sync.Once
	projectRepoInit     sync.Once
	environmentRepoInit sync.Once
	secretRepoInit      sync.Once
	historyRepoInit     sync.Once
	apiKeyRepoInit      sync.Once
	auditLogRepoInit    sync.Once
	userUseCaseInit     sync.Once
	teamUseCaseInit     sync.Once
	projectUseCaseInit  sync.Once
	secretUseCaseInit   sync.Once
	apiKeyUseCaseInit   sync.Once
	auditLogUseCaseInit sync.Once
	accessResolverInit  sync.Once
	recorderInit        sync.Once
	userHandlerInit     sync.Once
	teamHandlerInit     sync.Once
	projectHandlerInit  sync.Once
	secretHandlerInit   sync.Once
	apiKeyHandlerInit   sync.Once
	auditLogHandlerInit sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided
// configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := c.initDB()
		if err != nil {
			c.initErrors["db"] = err
			return
		}
		c.db = db
	})
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	c.txManagerInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["txManager"] = fmt.Errorf("failed to get database for tx manager: %w", err)
			return
		}
		c.txManager = database.NewTxManager(db)
	})
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are
// disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = fmt.Errorf("failed to create metrics provider: %w", err)
			return
		}
		c.metricsProvider = provider
	})
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. A no-op
// implementation is returned when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}
		bm, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = fmt.Errorf("failed to create business metrics: %w", err)
			return
		}
		c.businessMetrics = bm
	})
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// Encryptor returns the AEAD encryptor for secret values.
func (c *Container) Encryptor() (cryptoService.Encryptor, error) {
	c.encryptorInit.Do(func() {
		encryptor, err := cryptoService.NewEncryptor(c.config.EncryptionAlgorithm, c.config.EncryptionKey)
		if err != nil {
			c.initErrors["encryptor"] = fmt.Errorf("failed to create encryptor: %w", err)
			return
		}
		c.encryptor = encryptor
	})
	if storedErr, exists := c.initErrors["encryptor"]; exists {
		return nil, storedErr
	}
	return c.encryptor, nil
}

// KeyGenerator returns the API key generator.
func (c *Container) KeyGenerator() cryptoService.KeyGenerator {
	c.keyGeneratorInit.Do(func() {
		c.keyGenerator = cryptoService.NewKeyGenerator()
	})
	return c.keyGenerator
}

// HTTPServer returns the API server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		c.httpServer = server
	})
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates a structured logger based on the configured log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initHTTPServer creates the API server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	userHandler, err := c.UserHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get user handler for http server: %w", err)
	}
	teamHandler, err := c.TeamHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get team handler for http server: %w", err)
	}
	projectHandler, err := c.ProjectHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get project handler for http server: %w", err)
	}
	secretHandler, err := c.SecretHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret handler for http server: %w", err)
	}
	apiKeyHandler, err := c.ApiKeyHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get api key handler for http server: %w", err)
	}
	auditLogHandler, err := c.AuditLogHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log handler for http server: %w", err)
	}

	identityMiddleware, err := c.IdentityMiddleware()
	if err != nil {
		return nil, fmt.Errorf("failed to build identity middleware: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	handlers := http.Handlers{
		User:     userHandler,
		Team:     teamHandler,
		Project:  projectHandler,
		Secret:   secretHandler,
		ApiKey:   apiKeyHandler,
		AuditLog: auditLogHandler,
	}

	return http.NewServer(c.config, c.Logger(), handlers, identityMiddleware, provider), nil
}
