package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/cosecrets/cosecrets/internal/audit/domain"
	"github.com/cosecrets/cosecrets/internal/identity"
	"github.com/cosecrets/cosecrets/internal/metrics"
	"github.com/cosecrets/cosecrets/internal/secret/domain"
)

// secretUseCaseWithMetrics decorates SecretUseCase with metrics instrumentation.
type secretUseCaseWithMetrics struct {
	next    SecretUseCase
	metrics metrics.BusinessMetrics
}

// NewSecretUseCaseWithMetrics wraps a SecretUseCase with metrics recording.
func NewSecretUseCaseWithMetrics(useCase SecretUseCase, m metrics.BusinessMetrics) SecretUseCase {
	return &secretUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (s *secretUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.RecordOperation(ctx, "secrets", operation, status)
	s.metrics.RecordDuration(ctx, "secrets", operation, time.Since(start), status)
}

// Create records metrics for secret creation.
func (s *secretUseCaseWithMetrics) Create(ctx context.Context, input CreateSecretInput) (*domain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Create(ctx, input)
	s.record(ctx, "secret_create", start, err)
	return secret, err
}

// Read records metrics for secret reads.
func (s *secretUseCaseWithMetrics) Read(
	ctx context.Context,
	secretID uuid.UUID,
	actor identity.Identity,
	origin auditDomain.Origin,
) (*ReadSecretOutput, error) {
	start := time.Now()
	output, err := s.next.Read(ctx, secretID, actor, origin)
	s.record(ctx, "secret_read", start, err)
	return output, err
}

// Update records metrics for secret updates.
func (s *secretUseCaseWithMetrics) Update(ctx context.Context, input UpdateSecretInput) (*domain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Update(ctx, input)
	s.record(ctx, "secret_update", start, err)
	return secret, err
}

// Delete records metrics for secret deletion.
func (s *secretUseCaseWithMetrics) Delete(ctx context.Context, input DeleteSecretInput) error {
	start := time.Now()
	err := s.next.Delete(ctx, input)
	s.record(ctx, "secret_delete", start, err)
	return err
}

// List records metrics for secret listings.
func (s *secretUseCaseWithMetrics) List(
	ctx context.Context,
	actor identity.Identity,
	filter ListSecretsFilter,
	origin auditDomain.Origin,
) ([]*domain.Secret, error) {
	start := time.Now()
	secrets, err := s.next.List(ctx, actor, filter, origin)
	s.record(ctx, "secret_list", start, err)
	return secrets, err
}
