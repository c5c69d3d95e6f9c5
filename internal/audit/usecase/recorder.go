package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/cosecrets/cosecrets/internal/audit/domain"
)

// recorder implements Recorder with best-effort persistence.
type recorder struct {
	auditLogRepo AuditLogRepository
	logger       *slog.Logger
}

// NewRecorder creates a Recorder that appends entries to the repository and
// swallows persistence failures with an operational warning.
func NewRecorder(auditLogRepo AuditLogRepository, logger *slog.Logger) Recorder {
	return &recorder{
		auditLogRepo: auditLogRepo,
		logger:       logger,
	}
}

// Record appends one immutable audit entry. The primary operation has already
// completed by the time Record runs, so failures are logged, never returned.
// context.WithoutCancel keeps the write alive when the caller abandons the
// request mid-flight.
func (r *recorder) Record(ctx context.Context, entry *auditDomain.Entry) {
	entry.ID = uuid.Must(uuid.NewV7())
	entry.CreatedAt = time.Now().UTC()

	if err := r.auditLogRepo.Create(context.WithoutCancel(ctx), entry); err != nil {
		r.logger.Warn("audit log write failed",
			slog.String("action", string(entry.Action)),
			slog.String("resource_type", entry.ResourceType),
			slog.String("resource_id", entry.ResourceID),
			slog.Any("error", err),
		)
	}
}
