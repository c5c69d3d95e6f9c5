// Package repository provides data persistence implementations for secrets
// and their version history.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/cosecrets/cosecrets/internal/database"
	apperrors "github.com/cosecrets/cosecrets/internal/errors"
	projectDomain "github.com/cosecrets/cosecrets/internal/project/domain"
	"github.com/cosecrets/cosecrets/internal/secret/domain"
	"github.com/cosecrets/cosecrets/internal/secret/usecase"
)

// PostgreSQLSecretRepository handles secret persistence for PostgreSQL
type PostgreSQLSecretRepository struct {
	db *sql.DB
}

// NewPostgreSQLSecretRepository creates a new PostgreSQLSecretRepository
func NewPostgreSQLSecretRepository(db *sql.DB) *PostgreSQLSecretRepository {
	return &PostgreSQLSecretRepository{
		db: db,
	}
}

// Create inserts a new secret
func (r *PostgreSQLSecretRepository) Create(ctx context.Context, secret *domain.Secret) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO secrets
			  (id, environment_id, user_id, key, encrypted_value, iv, description, version, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := querier.ExecContext(ctx, query,
		secret.ID, secret.EnvironmentID, secret.UserID, secret.Key,
		secret.EncryptedValue, secret.IV, secret.Description, secret.Version,
		secret.CreatedAt, secret.UpdatedAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrSecretKeyExists
		}
		return apperrors.Wrap(err, "failed to create secret")
	}
	return nil
}

// Get retrieves a secret joined with its ownership chain
func (r *PostgreSQLSecretRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Secret, error) {
	var secret domain.Secret
	querier := database.GetTx(ctx, r.db)

	query := `SELECT s.id, s.environment_id, s.user_id, s.key, s.encrypted_value, s.iv,
			  s.description, s.version, s.created_at, s.updated_at,
			  p.team_id, e.name, p.name
			  FROM secrets s
			  INNER JOIN environments e ON e.id = s.environment_id
			  INNER JOIN projects p ON p.id = e.project_id
			  WHERE s.id = $1`

	err := querier.QueryRowContext(ctx, query, id).Scan(
		&secret.ID, &secret.EnvironmentID, &secret.UserID, &secret.Key,
		&secret.EncryptedValue, &secret.IV, &secret.Description, &secret.Version,
		&secret.CreatedAt, &secret.UpdatedAt,
		&secret.TeamID, &secret.EnvironmentName, &secret.ProjectName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSecretNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get secret")
	}

	return &secret, nil
}

// GetForUpdate locks the secret row for the rest of the transaction
func (r *PostgreSQLSecretRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Secret, error) {
	var secret domain.Secret
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, environment_id, user_id, key, encrypted_value, iv,
			  description, version, created_at, updated_at
			  FROM secrets WHERE id = $1 FOR UPDATE`

	err := querier.QueryRowContext(ctx, query, id).Scan(
		&secret.ID, &secret.EnvironmentID, &secret.UserID, &secret.Key,
		&secret.EncryptedValue, &secret.IV, &secret.Description, &secret.Version,
		&secret.CreatedAt, &secret.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSecretNotFound
		}
		return nil, apperrors.Wrap(err, "failed to lock secret")
	}

	return &secret, nil
}

// UpdateValue replaces the ciphertext and bumps the version, guarded by the
// expected current version
func (r *PostgreSQLSecretRepository) UpdateValue(
	ctx context.Context,
	id uuid.UUID,
	encryptedValue, iv string,
	expectedVersion uint,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE secrets
			  SET encrypted_value = $1, iv = $2, version = version + 1, updated_at = NOW()
			  WHERE id = $3 AND version = $4`

	result, err := querier.ExecContext(ctx, query, encryptedValue, iv, id, expectedVersion)
	if err != nil {
		return apperrors.Wrap(err, "failed to update secret value")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return domain.ErrVersionConflict
	}
	return nil
}

// UpdateDescription changes a secret's description without touching the version
func (r *PostgreSQLSecretRepository) UpdateDescription(ctx context.Context, id uuid.UUID, description string) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE secrets SET description = $1, updated_at = NOW() WHERE id = $2`

	result, err := querier.ExecContext(ctx, query, description, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update secret description")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return domain.ErrSecretNotFound
	}
	return nil
}

// Delete removes a secret. History rows cascade via the foreign key.
func (r *PostgreSQLSecretRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM secrets WHERE id = $1`

	result, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete secret")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return domain.ErrSecretNotFound
	}
	return nil
}

// List retrieves the secrets visible to a user through team membership,
// ordered by key. The membership join keeps rows the user cannot see out of
// the result entirely.
func (r *PostgreSQLSecretRepository) List(
	ctx context.Context,
	userID uuid.UUID,
	filter usecase.ListSecretsFilter,
) ([]*domain.Secret, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT s.id, s.environment_id, s.user_id, s.key, s.encrypted_value, s.iv,
			  s.description, s.version, s.created_at, s.updated_at,
			  p.team_id, e.name, p.name
			  FROM secrets s
			  INNER JOIN environments e ON e.id = s.environment_id
			  INNER JOIN projects p ON p.id = e.project_id
			  INNER JOIN team_members tm ON tm.team_id = p.team_id
			  WHERE tm.user_id = $1`
	args := []any{userID}
	if filter.EnvironmentID != nil {
		query += ` AND s.environment_id = $2`
		args = append(args, *filter.EnvironmentID)
	} else if filter.ProjectID != nil {
		query += ` AND e.project_id = $2`
		args = append(args, *filter.ProjectID)
	}
	query += ` ORDER BY s.key ASC`

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secrets")
	}
	defer rows.Close()

	var secrets []*domain.Secret
	for rows.Next() {
		var secret domain.Secret
		err := rows.Scan(
			&secret.ID, &secret.EnvironmentID, &secret.UserID, &secret.Key,
			&secret.EncryptedValue, &secret.IV, &secret.Description, &secret.Version,
			&secret.CreatedAt, &secret.UpdatedAt,
			&secret.TeamID, &secret.EnvironmentName, &secret.ProjectName,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan secret")
		}
		secrets = append(secrets, &secret)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate secrets")
	}

	return secrets, nil
}

// ResolveEnvironment walks an environment up to its project and team
func (r *PostgreSQLSecretRepository) ResolveEnvironment(
	ctx context.Context,
	environmentID uuid.UUID,
) (*domain.EnvironmentContext, error) {
	var envCtx domain.EnvironmentContext
	querier := database.GetTx(ctx, r.db)

	query := `SELECT e.id, e.name, p.id, p.name, p.team_id
			  FROM environments e
			  INNER JOIN projects p ON p.id = e.project_id
			  WHERE e.id = $1`

	err := querier.QueryRowContext(ctx, query, environmentID).Scan(
		&envCtx.EnvironmentID, &envCtx.EnvironmentName,
		&envCtx.ProjectID, &envCtx.ProjectName, &envCtx.TeamID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, projectDomain.ErrEnvironmentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to resolve environment")
	}

	return &envCtx, nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
