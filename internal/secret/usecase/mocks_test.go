package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	auditDomain "github.com/cosecrets/cosecrets/internal/audit/domain"
	"github.com/cosecrets/cosecrets/internal/secret/domain"
	teamDomain "github.com/cosecrets/cosecrets/internal/team/domain"
)

// MockTxManager is a mock implementation of database.TxManager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	// Execute the function to test the logic inside
	return fn(ctx)
}

// MockSecretRepository is a mock implementation of SecretRepository
type MockSecretRepository struct {
	mock.Mock
}

func (m *MockSecretRepository) Create(ctx context.Context, secret *domain.Secret) error {
	args := m.Called(ctx, secret)
	return args.Error(0)
}

func (m *MockSecretRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Secret, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Secret), args.Error(1)
}

func (m *MockSecretRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Secret, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Secret), args.Error(1)
}

func (m *MockSecretRepository) UpdateValue(
	ctx context.Context,
	id uuid.UUID,
	encryptedValue, iv string,
	expectedVersion uint,
) error {
	args := m.Called(ctx, id, encryptedValue, iv, expectedVersion)
	return args.Error(0)
}

func (m *MockSecretRepository) UpdateDescription(ctx context.Context, id uuid.UUID, description string) error {
	args := m.Called(ctx, id, description)
	return args.Error(0)
}

func (m *MockSecretRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSecretRepository) List(
	ctx context.Context,
	userID uuid.UUID,
	filter ListSecretsFilter,
) ([]*domain.Secret, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Secret), args.Error(1)
}

func (m *MockSecretRepository) ResolveEnvironment(
	ctx context.Context,
	environmentID uuid.UUID,
) (*domain.EnvironmentContext, error) {
	args := m.Called(ctx, environmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EnvironmentContext), args.Error(1)
}

// MockSecretHistoryRepository is a mock implementation of SecretHistoryRepository
type MockSecretHistoryRepository struct {
	mock.Mock
}

func (m *MockSecretHistoryRepository) Create(ctx context.Context, history *domain.SecretHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockSecretHistoryRepository) ListBySecret(
	ctx context.Context,
	secretID uuid.UUID,
	limit int,
) ([]*domain.SecretHistory, error) {
	args := m.Called(ctx, secretID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SecretHistory), args.Error(1)
}

// MockAccessResolver is a mock implementation of the team AccessResolver
type MockAccessResolver struct {
	mock.Mock
}

func (m *MockAccessResolver) Authorize(
	ctx context.Context,
	userID, teamID uuid.UUID,
	action teamDomain.Action,
) (*teamDomain.TeamMember, error) {
	args := m.Called(ctx, userID, teamID, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*teamDomain.TeamMember), args.Error(1)
}

// MockRecorder is a mock implementation of the audit Recorder
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, entry *auditDomain.Entry) {
	m.Called(ctx, entry)
}
