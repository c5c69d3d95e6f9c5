// Package repository provides data persistence implementations for projects
// and environments.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/cosecrets/cosecrets/internal/database"
	apperrors "github.com/cosecrets/cosecrets/internal/errors"
	"github.com/cosecrets/cosecrets/internal/project/domain"
)

// PostgreSQLProjectRepository handles project persistence for PostgreSQL
type PostgreSQLProjectRepository struct {
	db *sql.DB
}

// NewPostgreSQLProjectRepository creates a new PostgreSQLProjectRepository
func NewPostgreSQLProjectRepository(db *sql.DB) *PostgreSQLProjectRepository {
	return &PostgreSQLProjectRepository{
		db: db,
	}
}

// Create inserts a new project
func (r *PostgreSQLProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO projects (id, team_id, name, slug, description, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(ctx, query,
		project.ID, project.TeamID, project.Name, project.Slug,
		project.Description, project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "project slug already exists")
		}
		return apperrors.Wrap(err, "failed to create project")
	}
	return nil
}

// Get retrieves a project by ID
func (r *PostgreSQLProjectRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var project domain.Project
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, team_id, name, slug, description, created_at, updated_at
			  FROM projects WHERE id = $1`

	err := querier.QueryRowContext(ctx, query, id).Scan(
		&project.ID, &project.TeamID, &project.Name, &project.Slug,
		&project.Description, &project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get project")
	}

	return &project, nil
}

// ListByUser retrieves the projects visible to a user through team membership,
// optionally narrowed to one team, most recently updated first.
func (r *PostgreSQLProjectRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	teamID *uuid.UUID,
) ([]*domain.Project, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT p.id, p.team_id, p.name, p.slug, p.description, p.created_at, p.updated_at
			  FROM projects p
			  INNER JOIN team_members tm ON tm.team_id = p.team_id
			  WHERE tm.user_id = $1`
	args := []any{userID}
	if teamID != nil {
		query += ` AND p.team_id = $2`
		args = append(args, *teamID)
	}
	query += ` ORDER BY p.updated_at DESC`

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list projects")
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		var project domain.Project
		err := rows.Scan(
			&project.ID, &project.TeamID, &project.Name, &project.Slug,
			&project.Description, &project.CreatedAt, &project.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan project")
		}
		projects = append(projects, &project)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate projects")
	}

	return projects, nil
}

// SlugExists reports whether a slug is taken within a team
func (r *PostgreSQLProjectRepository) SlugExists(ctx context.Context, teamID uuid.UUID, slug string) (bool, error) {
	var exists bool
	querier := database.GetTx(ctx, r.db)

	query := `SELECT EXISTS(SELECT 1 FROM projects WHERE team_id = $1 AND slug = $2)`

	if err := querier.QueryRowContext(ctx, query, teamID, slug).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check project slug")
	}
	return exists, nil
}

// Delete removes a project. Environments, secrets, and secret history rows
// cascade via foreign keys.
func (r *PostgreSQLProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM projects WHERE id = $1`

	result, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete project")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}
