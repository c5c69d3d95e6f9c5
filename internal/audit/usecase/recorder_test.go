package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	auditDomain "github.com/cosecrets/cosecrets/internal/audit/domain"
)

func TestRecorder_Record(t *testing.T) {
	ctx := context.Background()
	auditLogRepo := &MockAuditLogRepository{}
	recorder := NewRecorder(auditLogRepo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	var created *auditDomain.Entry
	auditLogRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Entry")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*auditDomain.Entry)
		}).
		Return(nil)

	entry := &auditDomain.Entry{
		Action:       auditDomain.ActionSecretRead,
		ResourceType: "secret",
		ResourceID:   uuid.Must(uuid.NewV7()).String(),
		UserID:       uuid.Must(uuid.NewV7()),
	}
	recorder.Record(ctx, entry)

	auditLogRepo.AssertExpectations(t)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestRecorder_Record_SwallowsPersistenceFailure(t *testing.T) {
	ctx := context.Background()
	auditLogRepo := &MockAuditLogRepository{}
	recorder := NewRecorder(auditLogRepo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	auditLogRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Entry")).
		Return(errors.New("database down"))

	// The primary operation already succeeded; a failed audit write must not
	// panic or propagate.
	assert.NotPanics(t, func() {
		recorder.Record(ctx, &auditDomain.Entry{
			Action:       auditDomain.ActionSecretCreate,
			ResourceType: "secret",
			ResourceID:   "some-id",
			UserID:       uuid.Must(uuid.NewV7()),
		})
	})

	auditLogRepo.AssertExpectations(t)
}

func TestRecorder_Record_SurvivesCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	auditLogRepo := &MockAuditLogRepository{}
	recorder := NewRecorder(auditLogRepo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	auditLogRepo.On("Create", mock.MatchedBy(func(writeCtx context.Context) bool {
		return writeCtx.Err() == nil
	}), mock.AnythingOfType("*domain.Entry")).Return(nil)

	recorder.Record(ctx, &auditDomain.Entry{
		Action:       auditDomain.ActionSecretRead,
		ResourceType: "secret",
		ResourceID:   "some-id",
		UserID:       uuid.Must(uuid.NewV7()),
	})

	auditLogRepo.AssertExpectations(t)
}
