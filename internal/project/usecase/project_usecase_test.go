package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/cosecrets/cosecrets/internal/audit/domain"
	apperrors "github.com/cosecrets/cosecrets/internal/errors"
	"github.com/cosecrets/cosecrets/internal/identity"
	"github.com/cosecrets/cosecrets/internal/project/domain"
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

// MockProjectRepository is a mock implementation of ProjectRepository
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	teamID *uuid.UUID,
) ([]*domain.Project, error) {
	args := m.Called(ctx, userID, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) SlugExists(ctx context.Context, teamID uuid.UUID, slug string) (bool, error) {
	args := m.Called(ctx, teamID, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEnvironmentRepository is a mock implementation of EnvironmentRepository
type MockEnvironmentRepository struct {
	mock.Mock
}

func (m *MockEnvironmentRepository) Create(ctx context.Context, env *domain.Environment) error {
	args := m.Called(ctx, env)
	return args.Error(0)
}

func (m *MockEnvironmentRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Environment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Environment), args.Error(1)
}

func (m *MockEnvironmentRepository) ListByProject(
	ctx context.Context,
	projectID uuid.UUID,
) ([]*domain.Environment, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Environment), args.Error(1)
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

func newTestProjectUseCase() (ProjectUseCase, *MockTxManager, *MockProjectRepository, *MockEnvironmentRepository, *MockAccessResolver, *MockRecorder) {
	txManager := &MockTxManager{}
	projectRepo := &MockProjectRepository{}
	environmentRepo := &MockEnvironmentRepository{}
	access := &MockAccessResolver{}
	recorder := &MockRecorder{}
	useCase := NewProjectUseCase(txManager, projectRepo, environmentRepo, access, recorder)
	return useCase, txManager, projectRepo, environmentRepo, access, recorder
}

func TestProjectUseCase_Create(t *testing.T) {
	ctx := context.Background()
	useCase, txManager, projectRepo, environmentRepo, access, recorder := newTestProjectUseCase()

	actor := identity.Session(uuid.Must(uuid.NewV7()))
	teamID := uuid.Must(uuid.NewV7())
	admin := &teamDomain.TeamMember{TeamID: teamID, UserID: actor.UserID, Role: teamDomain.RoleAdmin}

	access.On("Authorize", ctx, actor.UserID, teamID, teamDomain.ActionProjectCreate).
		Return(admin, nil)
	txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	projectRepo.On("SlugExists", ctx, teamID, "billing-service").Return(false, nil)
	projectRepo.On("Create", ctx, mock.AnythingOfType("*domain.Project")).Return(nil)
	environmentRepo.On("Create", ctx, mock.AnythingOfType("*domain.Environment")).Return(nil).Times(3)
	recorder.On("Record", ctx, mock.MatchedBy(func(entry *auditDomain.Entry) bool {
		return entry.Action == auditDomain.ActionProjectCreate
	})).Return()

	project, err := useCase.Create(ctx, CreateProjectInput{
		TeamID: teamID,
		Name:   "Billing Service",
		Actor:  actor,
	})
	require.NoError(t, err)

	assert.Equal(t, "billing-service", project.Slug)
	require.Len(t, project.Environments, 3)
	slugs := []string{
		project.Environments[0].Slug,
		project.Environments[1].Slug,
		project.Environments[2].Slug,
	}
	assert.Equal(t, []string{"development", "staging", "production"}, slugs)

	projectRepo.AssertExpectations(t)
	environmentRepo.AssertExpectations(t)
	recorder.AssertExpectations(t)
}

func TestProjectUseCase_Create_SlugCounterSuffix(t *testing.T) {
	ctx := context.Background()
	useCase, txManager, projectRepo, environmentRepo, access, recorder := newTestProjectUseCase()

	actor := identity.Session(uuid.Must(uuid.NewV7()))
	teamID := uuid.Must(uuid.NewV7())
	admin := &teamDomain.TeamMember{TeamID: teamID, UserID: actor.UserID, Role: teamDomain.RoleAdmin}

	access.On("Authorize", ctx, actor.UserID, teamID, teamDomain.ActionProjectCreate).
		Return(admin, nil)
	txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	projectRepo.On("SlugExists", ctx, teamID, "api").Return(true, nil)
	projectRepo.On("SlugExists", ctx, teamID, "api-1").Return(true, nil)
	projectRepo.On("SlugExists", ctx, teamID, "api-2").Return(false, nil)
	projectRepo.On("Create", ctx, mock.AnythingOfType("*domain.Project")).Return(nil)
	environmentRepo.On("Create", ctx, mock.AnythingOfType("*domain.Environment")).Return(nil)
	recorder.On("Record", ctx, mock.AnythingOfType("*domain.Entry")).Return()

	project, err := useCase.Create(ctx, CreateProjectInput{TeamID: teamID, Name: "API", Actor: actor})
	require.NoError(t, err)
	assert.Equal(t, "api-2", project.Slug)
}

func TestProjectUseCase_Create_NonMemberSeesMissingTeam(t *testing.T) {
	ctx := context.Background()
	useCase, _, _, _, access, _ := newTestProjectUseCase()

	actor := identity.Session(uuid.Must(uuid.NewV7()))
	teamID := uuid.Must(uuid.NewV7())

	access.On("Authorize", ctx, actor.UserID, teamID, teamDomain.ActionProjectCreate).
		Return(nil, teamDomain.ErrNotMember)

	_, err := useCase.Create(ctx, CreateProjectInput{TeamID: teamID, Name: "API", Actor: actor})
	assert.ErrorIs(t, err, teamDomain.ErrTeamNotFound)
	assert.NotErrorIs(t, err, apperrors.ErrForbidden)
}

func TestProjectUseCase_Create_MemberForbidden(t *testing.T) {
	ctx := context.Background()
	useCase, _, _, _, access, _ := newTestProjectUseCase()

	actor := identity.Session(uuid.Must(uuid.NewV7()))
	teamID := uuid.Must(uuid.NewV7())
	forbidden := apperrors.Wrap(apperrors.ErrForbidden, "insufficient role for action")

	access.On("Authorize", ctx, actor.UserID, teamID, teamDomain.ActionProjectCreate).
		Return(nil, forbidden)

	_, err := useCase.Create(ctx, CreateProjectInput{TeamID: teamID, Name: "API", Actor: actor})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestProjectUseCase_Create_EmptyName(t *testing.T) {
	ctx := context.Background()
	useCase, _, _, _, _, _ := newTestProjectUseCase()

	_, err := useCase.Create(ctx, CreateProjectInput{
		TeamID: uuid.Must(uuid.NewV7()),
		Name:   "  ",
		Actor:  identity.Session(uuid.Must(uuid.NewV7())),
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestProjectUseCase_Delete(t *testing.T) {
	ctx := context.Background()
	useCase, _, projectRepo, _, access, recorder := newTestProjectUseCase()

	actor := identity.Session(uuid.Must(uuid.NewV7()))
	teamID := uuid.Must(uuid.NewV7())
	project := &domain.Project{ID: uuid.Must(uuid.NewV7()), TeamID: teamID, Name: "API", Slug: "api"}
	owner := &teamDomain.TeamMember{TeamID: teamID, UserID: actor.UserID, Role: teamDomain.RoleOwner}

	projectRepo.On("Get", ctx, project.ID).Return(project, nil)
	access.On("Authorize", ctx, actor.UserID, teamID, teamDomain.ActionProjectDelete).
		Return(owner, nil)
	projectRepo.On("Delete", ctx, project.ID).Return(nil)
	recorder.On("Record", ctx, mock.MatchedBy(func(entry *auditDomain.Entry) bool {
		return entry.Action == auditDomain.ActionProjectDelete
	})).Return()

	err := useCase.Delete(ctx, DeleteProjectInput{ProjectID: project.ID, Actor: actor})
	require.NoError(t, err)

	projectRepo.AssertExpectations(t)
	recorder.AssertExpectations(t)
}

func TestProjectUseCase_Delete_NonMemberSeesMissingProject(t *testing.T) {
	ctx := context.Background()
	useCase, _, projectRepo, _, access, _ := newTestProjectUseCase()

	actor := identity.Session(uuid.Must(uuid.NewV7()))
	teamID := uuid.Must(uuid.NewV7())
	project := &domain.Project{ID: uuid.Must(uuid.NewV7()), TeamID: teamID}

	projectRepo.On("Get", ctx, project.ID).Return(project, nil)
	access.On("Authorize", ctx, actor.UserID, teamID, teamDomain.ActionProjectDelete).
		Return(nil, teamDomain.ErrNotMember)

	err := useCase.Delete(ctx, DeleteProjectInput{ProjectID: project.ID, Actor: actor})
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	projectRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestProjectUseCase_List(t *testing.T) {
	ctx := context.Background()
	useCase, _, projectRepo, _, _, _ := newTestProjectUseCase()

	actor := identity.Session(uuid.Must(uuid.NewV7()))
	projects := []*domain.Project{{Name: "API"}, {Name: "Web"}}

	projectRepo.On("ListByUser", ctx, actor.UserID, (*uuid.UUID)(nil)).Return(projects, nil)

	got, err := useCase.List(ctx, actor, nil)
	require.NoError(t, err)
	assert.Equal(t, projects, got)
}
