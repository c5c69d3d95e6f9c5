package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/cosecrets/cosecrets/internal/audit/domain"
	apperrors "github.com/cosecrets/cosecrets/internal/errors"
	teamDomain "github.com/cosecrets/cosecrets/internal/team/domain"
	"github.com/cosecrets/cosecrets/internal/user/domain"
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

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockTeamRepository is a mock implementation of the narrow TeamRepository
type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) Create(ctx context.Context, team *teamDomain.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *MockTeamRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

// MockMembershipRepository is a mock implementation of the narrow MembershipRepository
type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) Create(ctx context.Context, member *teamDomain.TeamMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

// MockRecorder is a mock implementation of the audit Recorder
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, entry *auditDomain.Entry) {
	m.Called(ctx, entry)
}

func newTestUserUseCase(t *testing.T) (UseCase, *MockTxManager, *MockUserRepository, *MockTeamRepository, *MockMembershipRepository, *MockRecorder) {
	t.Helper()

	txManager := &MockTxManager{}
	userRepo := &MockUserRepository{}
	teamRepo := &MockTeamRepository{}
	membershipRepo := &MockMembershipRepository{}
	recorder := &MockRecorder{}

	useCase, err := NewUserUseCase(txManager, userRepo, teamRepo, membershipRepo, recorder)
	require.NoError(t, err)

	return useCase, txManager, userRepo, teamRepo, membershipRepo, recorder
}

func TestUserUseCase_RegisterUser(t *testing.T) {
	ctx := context.Background()
	useCase, txManager, userRepo, teamRepo, membershipRepo, recorder := newTestUserUseCase(t)

	input := RegisterUserInput{
		Name:     "John Doe",
		Email:    "John@Example.com",
		Password: "SecurePass123!",
	}

	var createdUser *domain.User
	var createdTeam *teamDomain.Team

	txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) {
			createdUser = args.Get(1).(*domain.User)
		}).
		Return(nil)
	teamRepo.On("Create", ctx, mock.AnythingOfType("*domain.Team")).
		Run(func(args mock.Arguments) {
			createdTeam = args.Get(1).(*teamDomain.Team)
		}).
		Return(nil)
	membershipRepo.On("Create", ctx, mock.MatchedBy(func(member *teamDomain.TeamMember) bool {
		return member.Role == teamDomain.RoleOwner
	})).Return(nil)
	recorder.On("Record", ctx, mock.MatchedBy(func(entry *auditDomain.Entry) bool {
		return entry.Action == auditDomain.ActionUserRegister
	})).Return()

	user, err := useCase.RegisterUser(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, "John Doe", user.Name)
	assert.Equal(t, "john@example.com", user.Email)
	assert.NotEmpty(t, user.Password)
	assert.NotEqual(t, input.Password, user.Password) // Password should be hashed

	// Registration provisions a personal team owned by the registrant.
	require.NotNil(t, createdTeam)
	assert.Equal(t, createdUser.ID, createdTeam.OwnerID)
	assert.Equal(t, "John Doe's Team", createdTeam.Name)
	assert.NotEmpty(t, createdTeam.Slug)

	txManager.AssertExpectations(t)
	userRepo.AssertExpectations(t)
	teamRepo.AssertExpectations(t)
	membershipRepo.AssertExpectations(t)
	recorder.AssertExpectations(t)
}

func TestUserUseCase_RegisterUser_InvalidInput(t *testing.T) {
	ctx := context.Background()
	useCase, _, _, _, _, _ := newTestUserUseCase(t)

	tests := []struct {
		name  string
		input RegisterUserInput
	}{
		{"EmptyName", RegisterUserInput{Name: "", Email: "a@b.com", Password: "SecurePass123!"}},
		{"InvalidEmail", RegisterUserInput{Name: "John", Email: "not-an-email", Password: "SecurePass123!"}},
		{"ShortPassword", RegisterUserInput{Name: "John", Email: "a@b.com", Password: "Ab1!"}},
		{"WeakPassword", RegisterUserInput{Name: "John", Email: "a@b.com", Password: "alllowercase1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := useCase.RegisterUser(ctx, tt.input)
			assert.Nil(t, user)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

func TestUserUseCase_RegisterUser_CreateUserError(t *testing.T) {
	ctx := context.Background()
	useCase, txManager, userRepo, _, _, _ := newTestUserUseCase(t)

	createError := errors.New("database error")

	txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(createError)

	user, err := useCase.RegisterUser(ctx, RegisterUserInput{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "SecurePass123!",
	})
	assert.Nil(t, user)
	assert.ErrorIs(t, err, createError)
}

func TestUserUseCase_Authenticate(t *testing.T) {
	ctx := context.Background()
	useCase, txManager, userRepo, teamRepo, membershipRepo, recorder := newTestUserUseCase(t)

	// Register first so a real hash is stored.
	txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	var createdUser *domain.User
	userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) {
			createdUser = args.Get(1).(*domain.User)
		}).
		Return(nil)
	teamRepo.On("Create", ctx, mock.AnythingOfType("*domain.Team")).Return(nil)
	membershipRepo.On("Create", ctx, mock.AnythingOfType("*domain.TeamMember")).Return(nil)
	recorder.On("Record", ctx, mock.AnythingOfType("*domain.Entry")).Return()

	_, err := useCase.RegisterUser(ctx, RegisterUserInput{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "SecurePass123!",
	})
	require.NoError(t, err)

	userRepo.On("GetByEmail", ctx, "john@example.com").Return(createdUser, nil)

	user, err := useCase.Authenticate(ctx, "John@Example.com", "SecurePass123!")
	require.NoError(t, err)
	assert.Equal(t, createdUser.ID, user.ID)

	_, err = useCase.Authenticate(ctx, "john@example.com", "WrongPass123!")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUserUseCase_Authenticate_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	useCase, _, userRepo, _, _, _ := newTestUserUseCase(t)

	userRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, domain.ErrUserNotFound)

	// Unknown email and wrong password are indistinguishable to the caller.
	_, err := useCase.Authenticate(ctx, "nobody@example.com", "SecurePass123!")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
