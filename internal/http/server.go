package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	apikeyHTTP "github.com/cosecrets/cosecrets/internal/apikey/http"
	auditHTTP "github.com/cosecrets/cosecrets/internal/audit/http"
	"github.com/cosecrets/cosecrets/internal/config"
	"github.com/cosecrets/cosecrets/internal/metrics"
	projectHTTP "github.com/cosecrets/cosecrets/internal/project/http"
	secretHTTP "github.com/cosecrets/cosecrets/internal/secret/http"
	teamHTTP "github.com/cosecrets/cosecrets/internal/team/http"
	userHTTP "github.com/cosecrets/cosecrets/internal/user/http"
)

// Handlers groups the module handlers mounted on the API server.
type Handlers struct {
	User     *userHTTP.UserHandler
	Team     *teamHTTP.TeamHandler
	Project  *projectHTTP.ProjectHandler
	Secret   *secretHTTP.SecretHandler
	ApiKey   *apikeyHTTP.ApiKeyHandler
	AuditLog *auditHTTP.AuditLogHandler
}

// Server is the API HTTP server.
type Server struct {
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// NewServer creates the API server and mounts all routes. Registration,
// health, and readiness are public; everything else sits behind the identity
// middleware.
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	handlers Handlers,
	identityMiddleware gin.HandlerFunc,
	metricsProvider *metrics.Provider,
) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", HealthHandler)
	router.GET("/ready", ReadinessHandler(context.Background()))

	v1 := router.Group("/api/v1")

	// Registration is the only unauthenticated API operation.
	v1.POST("/auth/register", handlers.User.RegisterHandler)

	authenticated := v1.Group("")
	authenticated.Use(identityMiddleware)
	if cfg.RateLimitEnabled {
		authenticated.Use(RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, logger))
	}

	authenticated.POST("/teams", handlers.Team.CreateHandler)
	authenticated.GET("/teams", handlers.Team.ListHandler)
	authenticated.GET("/teams/:id/members", handlers.Team.ListMembersHandler)
	authenticated.POST("/teams/:id/members", handlers.Team.AddMemberHandler)
	authenticated.PUT("/teams/:id/members/:userId", handlers.Team.UpdateMemberHandler)
	authenticated.DELETE("/teams/:id/members/:userId", handlers.Team.RemoveMemberHandler)

	authenticated.POST("/projects", handlers.Project.CreateHandler)
	authenticated.GET("/projects", handlers.Project.ListHandler)
	authenticated.DELETE("/projects/:id", handlers.Project.DeleteHandler)

	authenticated.POST("/secrets", handlers.Secret.CreateHandler)
	authenticated.GET("/secrets", handlers.Secret.ListHandler)
	authenticated.GET("/secrets/:id", handlers.Secret.GetHandler)
	authenticated.PUT("/secrets/:id", handlers.Secret.UpdateHandler)
	authenticated.DELETE("/secrets/:id", handlers.Secret.DeleteHandler)

	authenticated.POST("/api-keys", handlers.ApiKey.CreateHandler)
	authenticated.GET("/api-keys", handlers.ApiKey.ListHandler)
	authenticated.DELETE("/api-keys", handlers.ApiKey.DeleteHandler)

	authenticated.GET("/audit-logs", handlers.AuditLog.ListHandler)

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router: router,
		logger: logger,
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the API server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
