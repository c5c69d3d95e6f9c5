package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/cosecrets/cosecrets/internal/app"
	"github.com/cosecrets/cosecrets/internal/config"
)

// RunCleanAuditLogs deletes audit logs older than the specified number of
// days. Supports dry-run mode to preview the deletion count and text/JSON
// output formats.
func RunCleanAuditLogs(ctx context.Context, days int, dryRun bool, format string) error {
	if days < 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}

	cfg := config.Load()

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("cleaning audit logs",
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	defer closeContainer(container, logger)

	auditLogUseCase, err := container.AuditLogUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize audit log use case: %w", err)
	}

	count, err := auditLogUseCase.DeleteOlderThan(ctx, days, dryRun)
	if err != nil {
		return fmt.Errorf("failed to delete audit logs: %w", err)
	}

	printCleanResult(cleanResult{Count: count, Days: days, DryRun: dryRun}, format)

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}

type cleanResult struct {
	Count  int64 `json:"count"`
	Days   int   `json:"days"`
	DryRun bool  `json:"dry_run"`
}

func printCleanResult(result cleanResult, format string) {
	if format == "json" {
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
			return
		}
		fmt.Println(string(jsonBytes))
		return
	}

	if result.DryRun {
		fmt.Printf("Dry-run mode: Would delete %d audit log(s) older than %d day(s)\n", result.Count, result.Days)
		return
	}
	fmt.Printf("Successfully deleted %d audit log(s) older than %d day(s)\n", result.Count, result.Days)
}
