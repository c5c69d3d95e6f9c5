// Package usecase implements the user business logic and orchestrates user domain operations.
package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/allisson/go-pwdhash"
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	auditDomain "github.com/cosecrets/cosecrets/internal/audit/domain"
	auditUsecase "github.com/cosecrets/cosecrets/internal/audit/usecase"
	"github.com/cosecrets/cosecrets/internal/database"
	apperrors "github.com/cosecrets/cosecrets/internal/errors"
	"github.com/cosecrets/cosecrets/internal/slug"
	teamDomain "github.com/cosecrets/cosecrets/internal/team/domain"
	"github.com/cosecrets/cosecrets/internal/user/domain"
	appValidation "github.com/cosecrets/cosecrets/internal/validation"
)

// RegisterUserInput contains the input data for user registration
type RegisterUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`

	Origin auditDomain.Origin `json:"-"`
}

// UseCase defines the interface for user business logic operations
type UseCase interface {
	RegisterUser(ctx context.Context, input RegisterUserInput) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
}

// UserRepository interface defines user repository operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// TeamRepository covers the team operations registration needs.
type TeamRepository interface {
	Create(ctx context.Context, team *teamDomain.Team) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// MembershipRepository covers the membership operations registration needs.
type MembershipRepository interface {
	Create(ctx context.Context, member *teamDomain.TeamMember) error
}

// UserUseCase handles user-related business logic
type UserUseCase struct {
	txManager      database.TxManager
	userRepo       UserRepository
	teamRepo       TeamRepository
	membershipRepo MembershipRepository
	recorder       auditUsecase.Recorder
	passwordHasher *pwdhash.PasswordHasher
}

// NewUserUseCase creates a new UserUseCase
func NewUserUseCase(
	txManager database.TxManager,
	userRepo UserRepository,
	teamRepo TeamRepository,
	membershipRepo MembershipRepository,
	recorder auditUsecase.Recorder,
) (UseCase, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}

	return &UserUseCase{
		txManager:      txManager,
		userRepo:       userRepo,
		teamRepo:       teamRepo,
		membershipRepo: membershipRepo,
		recorder:       recorder,
		passwordHasher: hasher,
	}, nil
}

// validateRegisterUserInput validates the registration input using jellydator/validation
func (uc *UserUseCase) validateRegisterUserInput(input RegisterUserInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
			appValidation.PasswordStrength{
				MinLength:      8,
				RequireUpper:   true,
				RequireLower:   true,
				RequireNumber:  true,
				RequireSpecial: true,
			},
		),
	)
	return appValidation.WrapValidationError(err)
}

// RegisterUser registers a new user and provisions a personal team with the
// registrant as its owner, all in one transaction.
func (uc *UserUseCase) RegisterUser(ctx context.Context, input RegisterUserInput) (*domain.User, error) {
	if err := uc.validateRegisterUserInput(input); err != nil {
		return nil, err
	}

	hashedPassword, err := uc.passwordHasher.Hash([]byte(input.Password))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash password")
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.TrimSpace(strings.ToLower(input.Email)),
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}

	teamName := user.Name + "'s Team"
	team := &teamDomain.Team{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      teamName,
		Slug:      slug.Make(teamName) + "-" + user.ID.String()[:8],
		OwnerID:   user.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	ownerMember := &teamDomain.TeamMember{
		ID:        uuid.Must(uuid.NewV7()),
		TeamID:    team.ID,
		UserID:    user.ID,
		Role:      teamDomain.RoleOwner,
		CreatedAt: now,
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.userRepo.Create(ctx, user); err != nil {
			return err
		}
		if err := uc.teamRepo.Create(ctx, team); err != nil {
			return err
		}
		return uc.membershipRepo.Create(ctx, ownerMember)
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(ctx, &auditDomain.Entry{
		Action:       auditDomain.ActionUserRegister,
		ResourceType: "user",
		ResourceID:   user.ID.String(),
		UserID:       user.ID,
		TeamID:       &team.ID,
		Details:      map[string]any{"email": user.Email, "team_slug": team.Slug},
		IPAddress:    input.Origin.IPAddress,
		UserAgent:    input.Origin.UserAgent,
	})

	return user, nil
}

// GetUserByEmail retrieves a user by email
func (uc *UserUseCase) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return uc.userRepo.GetByEmail(ctx, email)
}

// GetUserByID retrieves a user by ID
func (uc *UserUseCase) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

// Authenticate verifies an email/password pair. The same error is returned for
// an unknown email and a wrong password.
func (uc *UserUseCase) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	valid, err := uc.passwordHasher.Verify([]byte(password), user.Password)
	if err != nil || !valid {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}
