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

// PostgreSQLEnvironmentRepository handles environment persistence for PostgreSQL
type PostgreSQLEnvironmentRepository struct {
	db *sql.DB
}

// NewPostgreSQLEnvironmentRepository creates a new PostgreSQLEnvironmentRepository
func NewPostgreSQLEnvironmentRepository(db *sql.DB) *PostgreSQLEnvironmentRepository {
	return &PostgreSQLEnvironmentRepository{
		db: db,
	}
}

// Create inserts a new environment
func (r *PostgreSQLEnvironmentRepository) Create(ctx context.Context, env *domain.Environment) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO environments (id, project_id, name, slug, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(ctx, query, env.ID, env.ProjectID, env.Name, env.Slug, env.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create environment")
	}
	return nil
}

// Get retrieves an environment by ID
func (r *PostgreSQLEnvironmentRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Environment, error) {
	var env domain.Environment
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, project_id, name, slug, created_at
			  FROM environments WHERE id = $1`

	err := querier.QueryRowContext(ctx, query, id).Scan(
		&env.ID, &env.ProjectID, &env.Name, &env.Slug, &env.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEnvironmentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get environment")
	}

	return &env, nil
}

// ListByProject retrieves a project's environments
func (r *PostgreSQLEnvironmentRepository) ListByProject(
	ctx context.Context,
	projectID uuid.UUID,
) ([]*domain.Environment, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, project_id, name, slug, created_at
			  FROM environments WHERE project_id = $1 ORDER BY name ASC`

	rows, err := querier.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list environments")
	}
	defer rows.Close()

	var envs []*domain.Environment
	for rows.Next() {
		var env domain.Environment
		if err := rows.Scan(&env.ID, &env.ProjectID, &env.Name, &env.Slug, &env.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan environment")
		}
		envs = append(envs, &env)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate environments")
	}

	return envs, nil
}
