// Package usecase implements project and environment business logic.
package usecase

import (
	"context"

	"github.com/google/uuid"

	auditDomain "github.com/cosecrets/cosecrets/internal/audit/domain"
	"github.com/cosecrets/cosecrets/internal/identity"
	"github.com/cosecrets/cosecrets/internal/project/domain"
)

// ProjectRepository defines the interface for project persistence.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	ListByUser(ctx context.Context, userID uuid.UUID, teamID *uuid.UUID) ([]*domain.Project, error)
	SlugExists(ctx context.Context, teamID uuid.UUID, slug string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// EnvironmentRepository defines the interface for environment persistence.
type EnvironmentRepository interface {
	Create(ctx context.Context, env *domain.Environment) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Environment, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Environment, error)
}

// CreateProjectInput contains the parameters for creating a project.
type CreateProjectInput struct {
	TeamID      uuid.UUID
	Name        string
	Description string
	Actor       identity.Identity
	Origin      auditDomain.Origin
}

// DeleteProjectInput identifies the project to delete.
type DeleteProjectInput struct {
	ProjectID uuid.UUID
	Actor     identity.Identity
	Origin    auditDomain.Origin
}

// ProjectUseCase defines the interface for project business logic.
type ProjectUseCase interface {
	// Create creates a project with its default environments. Requires ADMIN
	// or above on the team; non-members see not found.
	Create(ctx context.Context, input CreateProjectInput) (*domain.Project, error)

	// List returns projects across the actor's teams, optionally narrowed to
	// one team, newest activity first.
	List(ctx context.Context, actor identity.Identity, teamID *uuid.UUID) ([]*domain.Project, error)

	// Delete removes a project and everything under it. Owner only.
	Delete(ctx context.Context, input DeleteProjectInput) error
}
