// Package commands implements the CLI subcommands wired into cmd/app.
package commands

import (
	"context"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"

	"github.com/cosecrets/cosecrets/internal/app"
)

// closeContainer releases container resources, logging instead of failing.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// closeMigrate closes the migrate instance, logging instead of failing.
func closeMigrate(m *migrate.Migrate, logger *slog.Logger) {
	sourceErr, dbErr := m.Close()
	if sourceErr != nil || dbErr != nil {
		logger.Error(
			"failed to close the migrate instance",
			slog.Any("source_error", sourceErr),
			slog.Any("database_error", dbErr),
		)
	}
}
