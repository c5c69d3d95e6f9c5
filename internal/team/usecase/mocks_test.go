package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	auditDomain "github.com/cosecrets/cosecrets/internal/audit/domain"
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

// MockTeamRepository is a mock implementation of TeamRepository
type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) Create(ctx context.Context, team *teamDomain.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *MockTeamRepository) Get(ctx context.Context, teamID uuid.UUID) (*teamDomain.Team, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*teamDomain.Team), args.Error(1)
}

func (m *MockTeamRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*teamDomain.Team, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*teamDomain.Team), args.Error(1)
}

func (m *MockTeamRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

// MockMembershipRepository is a mock implementation of MembershipRepository
type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) Create(ctx context.Context, member *teamDomain.TeamMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMembershipRepository) Get(
	ctx context.Context,
	teamID, userID uuid.UUID,
) (*teamDomain.TeamMember, error) {
	args := m.Called(ctx, teamID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*teamDomain.TeamMember), args.Error(1)
}

func (m *MockMembershipRepository) List(ctx context.Context, teamID uuid.UUID) ([]*teamDomain.TeamMember, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*teamDomain.TeamMember), args.Error(1)
}

func (m *MockMembershipRepository) ListTeamIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockMembershipRepository) UpdateRole(
	ctx context.Context,
	teamID, userID uuid.UUID,
	role teamDomain.Role,
) error {
	args := m.Called(ctx, teamID, userID, role)
	return args.Error(0)
}

func (m *MockMembershipRepository) Delete(ctx context.Context, teamID, userID uuid.UUID) error {
	args := m.Called(ctx, teamID, userID)
	return args.Error(0)
}

// MockAccessResolver is a mock implementation of AccessResolver
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
