package usecase

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	auditDomain "github.com/cosecrets/cosecrets/internal/audit/domain"
	auditUsecase "github.com/cosecrets/cosecrets/internal/audit/usecase"
	"github.com/cosecrets/cosecrets/internal/database"
	apperrors "github.com/cosecrets/cosecrets/internal/errors"
	"github.com/cosecrets/cosecrets/internal/identity"
	"github.com/cosecrets/cosecrets/internal/project/domain"
	"github.com/cosecrets/cosecrets/internal/slug"
	teamDomain "github.com/cosecrets/cosecrets/internal/team/domain"
	teamUsecase "github.com/cosecrets/cosecrets/internal/team/usecase"
	appValidation "github.com/cosecrets/cosecrets/internal/validation"
)

// projectUseCase implements the ProjectUseCase interface.
type projectUseCase struct {
	txManager       database.TxManager
	projectRepo     ProjectRepository
	environmentRepo EnvironmentRepository
	access          teamUsecase.AccessResolver
	recorder        auditUsecase.Recorder
}

// Create creates a project with its default environments in one transaction.
// The slug is allocated inside the same transaction so concurrent creations
// with the same name cannot race past the uniqueness check.
func (p *projectUseCase) Create(ctx context.Context, input CreateProjectInput) (*domain.Project, error) {
	err := validation.Errors{
		"name": validation.Validate(input.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 100).Error("name must be between 1 and 100 characters"),
		),
	}.Filter()
	if err != nil {
		return nil, appValidation.WrapValidationError(err)
	}

	if _, err := p.access.Authorize(
		ctx, input.Actor.UserID, input.TeamID, teamDomain.ActionProjectCreate,
	); err != nil {
		if errors.Is(err, teamDomain.ErrNotMember) {
			return nil, teamDomain.ErrTeamNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	project := &domain.Project{
		ID:          uuid.Must(uuid.NewV7()),
		TeamID:      input.TeamID,
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = p.txManager.WithTx(ctx, func(txCtx context.Context) error {
		projectSlug, err := p.uniqueSlug(txCtx, input.TeamID, input.Name)
		if err != nil {
			return err
		}
		project.Slug = projectSlug

		if err := p.projectRepo.Create(txCtx, project); err != nil {
			return err
		}

		for _, env := range domain.DefaultEnvironments() {
			environment := &domain.Environment{
				ID:        uuid.Must(uuid.NewV7()),
				ProjectID: project.ID,
				Name:      env.Name,
				Slug:      env.Slug,
				CreatedAt: now,
			}
			if err := p.environmentRepo.Create(txCtx, environment); err != nil {
				return err
			}
			project.Environments = append(project.Environments, environment)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	p.recorder.Record(ctx, &auditDomain.Entry{
		Action:       auditDomain.ActionProjectCreate,
		ResourceType: "project",
		ResourceID:   project.ID.String(),
		UserID:       input.Actor.UserID,
		TeamID:       &input.TeamID,
		APIKeyID:     input.Actor.APIKeyID,
		Details:      map[string]any{"name": project.Name, "slug": project.Slug},
		IPAddress:    input.Origin.IPAddress,
		UserAgent:    input.Origin.UserAgent,
	})

	return project, nil
}

// List returns projects across the actor's teams.
func (p *projectUseCase) List(
	ctx context.Context,
	actor identity.Identity,
	teamID *uuid.UUID,
) ([]*domain.Project, error) {
	return p.projectRepo.ListByUser(ctx, actor.UserID, teamID)
}

// Delete removes a project. Secrets, environments, and history rows under it
// are removed by cascading foreign keys.
func (p *projectUseCase) Delete(ctx context.Context, input DeleteProjectInput) error {
	project, err := p.projectRepo.Get(ctx, input.ProjectID)
	if err != nil {
		return err
	}

	if _, err := p.access.Authorize(
		ctx, input.Actor.UserID, project.TeamID, teamDomain.ActionProjectDelete,
	); err != nil {
		if errors.Is(err, teamDomain.ErrNotMember) {
			return domain.ErrProjectNotFound
		}
		return err
	}

	if err := p.projectRepo.Delete(ctx, project.ID); err != nil {
		return err
	}

	p.recorder.Record(ctx, &auditDomain.Entry{
		Action:       auditDomain.ActionProjectDelete,
		ResourceType: "project",
		ResourceID:   project.ID.String(),
		UserID:       input.Actor.UserID,
		TeamID:       &project.TeamID,
		APIKeyID:     input.Actor.APIKeyID,
		Details:      map[string]any{"name": project.Name, "slug": project.Slug},
		IPAddress:    input.Origin.IPAddress,
		UserAgent:    input.Origin.UserAgent,
	})

	return nil
}

// uniqueSlug allocates a team-scoped slug, appending a counter when taken.
func (p *projectUseCase) uniqueSlug(ctx context.Context, teamID uuid.UUID, name string) (string, error) {
	base := slug.Make(name)
	candidate := base

	for counter := 1; ; counter++ {
		exists, err := p.projectRepo.SlugExists(ctx, teamID, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		if counter > 100 {
			return "", apperrors.Wrap(apperrors.ErrConflict, "could not allocate a unique project slug")
		}
		candidate = base + "-" + strconv.Itoa(counter)
	}
}

// NewProjectUseCase creates a new project use case instance.
func NewProjectUseCase(
	txManager database.TxManager,
	projectRepo ProjectRepository,
	environmentRepo EnvironmentRepository,
	access teamUsecase.AccessResolver,
	recorder auditUsecase.Recorder,
) ProjectUseCase {
	return &projectUseCase{
		txManager:       txManager,
		projectRepo:     projectRepo,
		environmentRepo: environmentRepo,
		access:          access,
		recorder:        recorder,
	}
}
