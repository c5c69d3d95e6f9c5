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

// MySQLEnvironmentRepository handles environment persistence for MySQL
type MySQLEnvironmentRepository struct {
	db *sql.DB
}

// NewMySQLEnvironmentRepository creates a new MySQLEnvironmentRepository
func NewMySQLEnvironmentRepository(db *sql.DB) *MySQLEnvironmentRepository {
	return &MySQLEnvironmentRepository{
		db: db,
	}
}

// Create inserts a new environment
func (r *MySQLEnvironmentRepository) Create(ctx context.Context, env *domain.Environment) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := env.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	projectIDBytes, err := env.ProjectID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `INSERT INTO environments (id, project_id, name, slug, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, idBytes, projectIDBytes, env.Name, env.Slug, env.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create environment")
	}
	return nil
}

// Get retrieves an environment by ID
func (r *MySQLEnvironmentRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Environment, error) {
	var env domain.Environment
	querier := database.GetTx(ctx, r.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT id, project_id, name, slug, created_at
			  FROM environments WHERE id = ?`

	var envIDBytes, projectIDBytes []byte
	err = querier.QueryRowContext(ctx, query, idBytes).Scan(
		&envIDBytes, &projectIDBytes, &env.Name, &env.Slug, &env.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEnvironmentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get environment")
	}

	if err := env.ID.UnmarshalBinary(envIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := env.ProjectID.UnmarshalBinary(projectIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}

	return &env, nil
}

// ListByProject retrieves a project's environments
func (r *MySQLEnvironmentRepository) ListByProject(
	ctx context.Context,
	projectID uuid.UUID,
) ([]*domain.Environment, error) {
	querier := database.GetTx(ctx, r.db)

	projectIDBytes, err := projectID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT id, project_id, name, slug, created_at
			  FROM environments WHERE project_id = ? ORDER BY name ASC`

	rows, err := querier.QueryContext(ctx, query, projectIDBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list environments")
	}
	defer rows.Close()

	var envs []*domain.Environment
	for rows.Next() {
		var env domain.Environment
		var envIDBytes, rowProjectIDBytes []byte
		if err := rows.Scan(&envIDBytes, &rowProjectIDBytes, &env.Name, &env.Slug, &env.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan environment")
		}
		if err := env.ID.UnmarshalBinary(envIDBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
		}
		if err := env.ProjectID.UnmarshalBinary(rowProjectIDBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
		}
		envs = append(envs, &env)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate environments")
	}

	return envs, nil
}
