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

// MySQLProjectRepository handles project persistence for MySQL
type MySQLProjectRepository struct {
	db *sql.DB
}

// NewMySQLProjectRepository creates a new MySQLProjectRepository
func NewMySQLProjectRepository(db *sql.DB) *MySQLProjectRepository {
	return &MySQLProjectRepository{
		db: db,
	}
}

// Create inserts a new project
func (r *MySQLProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := project.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	teamIDBytes, err := project.TeamID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `INSERT INTO projects (id, team_id, name, slug, description, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query,
		idBytes, teamIDBytes, project.Name, project.Slug,
		project.Description, project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "project slug already exists")
		}
		return apperrors.Wrap(err, "failed to create project")
	}
	return nil
}

// Get retrieves a project by ID
func (r *MySQLProjectRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var project domain.Project
	querier := database.GetTx(ctx, r.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT id, team_id, name, slug, description, created_at, updated_at
			  FROM projects WHERE id = ?`

	var projectIDBytes, teamIDBytes []byte
	err = querier.QueryRowContext(ctx, query, idBytes).Scan(
		&projectIDBytes, &teamIDBytes, &project.Name, &project.Slug,
		&project.Description, &project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get project")
	}

	if err := project.ID.UnmarshalBinary(projectIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := project.TeamID.UnmarshalBinary(teamIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}

	return &project, nil
}

// ListByUser retrieves the projects visible to a user through team membership
func (r *MySQLProjectRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	teamID *uuid.UUID,
) ([]*domain.Project, error) {
	querier := database.GetTx(ctx, r.db)

	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT p.id, p.team_id, p.name, p.slug, p.description, p.created_at, p.updated_at
			  FROM projects p
			  INNER JOIN team_members tm ON tm.team_id = p.team_id
			  WHERE tm.user_id = ?`
	args := []any{userIDBytes}
	if teamID != nil {
		teamIDBytes, err := teamID.MarshalBinary()
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to marshal UUID")
		}
		query += ` AND p.team_id = ?`
		args = append(args, teamIDBytes)
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
		var projectIDBytes, teamIDBytes []byte
		err := rows.Scan(
			&projectIDBytes, &teamIDBytes, &project.Name, &project.Slug,
			&project.Description, &project.CreatedAt, &project.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan project")
		}
		if err := project.ID.UnmarshalBinary(projectIDBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
		}
		if err := project.TeamID.UnmarshalBinary(teamIDBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
		}
		projects = append(projects, &project)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate projects")
	}

	return projects, nil
}

// SlugExists reports whether a slug is taken within a team
func (r *MySQLProjectRepository) SlugExists(ctx context.Context, teamID uuid.UUID, slug string) (bool, error) {
	var exists bool
	querier := database.GetTx(ctx, r.db)

	teamIDBytes, err := teamID.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT EXISTS(SELECT 1 FROM projects WHERE team_id = ? AND slug = ?)`

	if err := querier.QueryRowContext(ctx, query, teamIDBytes, slug).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check project slug")
	}
	return exists, nil
}

// Delete removes a project
func (r *MySQLProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `DELETE FROM projects WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, idBytes)
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
