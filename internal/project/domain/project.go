// Package domain defines the project and environment entities.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/cosecrets/cosecrets/internal/errors"
)

// Project groups environments under a team. Slugs are unique per team.
type Project struct {
	ID          uuid.UUID
	TeamID      uuid.UUID
	Name        string
	Slug        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Environments is populated on create and fetch-with-environments paths.
	Environments []*Environment
}

// Environment is a named configuration scope within a project. Every project
// starts with development, staging, and production.
type Environment struct {
	ID        uuid.UUID
	ProjectID uuid.UUID
	Name      string
	Slug      string
	CreatedAt time.Time
}

// DefaultEnvironments returns the environments provisioned with every project.
func DefaultEnvironments() []struct{ Name, Slug string } {
	return []struct{ Name, Slug string }{
		{Name: "Development", Slug: "development"},
		{Name: "Staging", Slug: "staging"},
		{Name: "Production", Slug: "production"},
	}
}

// Domain-specific errors for project operations.
var (
	// ErrProjectNotFound covers both a missing project and one the caller has
	// no membership for.
	ErrProjectNotFound = errors.Wrap(errors.ErrNotFound, "project not found")

	// ErrEnvironmentNotFound covers both a missing environment and one the
	// caller has no membership for.
	ErrEnvironmentNotFound = errors.Wrap(errors.ErrNotFound, "environment not found")
)
