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

// MySQLSecretRepository handles secret persistence for MySQL
type MySQLSecretRepository struct {
	db *sql.DB
}

// NewMySQLSecretRepository creates a new MySQLSecretRepository
func NewMySQLSecretRepository(db *sql.DB) *MySQLSecretRepository {
	return &MySQLSecretRepository{
		db: db,
	}
}

// Create inserts a new secret
func (r *MySQLSecretRepository) Create(ctx context.Context, secret *domain.Secret) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := secret.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	envIDBytes, err := secret.EnvironmentID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	userIDBytes, err := secret.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `INSERT INTO secrets
			  (id, environment_id, user_id, ` + "`key`" + `, encrypted_value, iv, description, version, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query,
		idBytes, envIDBytes, userIDBytes, secret.Key,
		secret.EncryptedValue, secret.IV, secret.Description, secret.Version,
		secret.CreatedAt, secret.UpdatedAt,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return domain.ErrSecretKeyExists
		}
		return apperrors.Wrap(err, "failed to create secret")
	}
	return nil
}

// Get retrieves a secret joined with its ownership chain
func (r *MySQLSecretRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Secret, error) {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT s.id, s.environment_id, s.user_id, s.` + "`key`" + `, s.encrypted_value, s.iv,
			  s.description, s.version, s.created_at, s.updated_at,
			  p.team_id, e.name, p.name
			  FROM secrets s
			  INNER JOIN environments e ON e.id = s.environment_id
			  INNER JOIN projects p ON p.id = e.project_id
			  WHERE s.id = ?`

	secret, err := scanMySQLJoinedSecret(querier.QueryRowContext(ctx, query, idBytes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSecretNotFound
		}
		return nil, err
	}
	return secret, nil
}

// GetForUpdate locks the secret row for the rest of the transaction
func (r *MySQLSecretRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Secret, error) {
	var secret domain.Secret
	querier := database.GetTx(ctx, r.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT id, environment_id, user_id, ` + "`key`" + `, encrypted_value, iv,
			  description, version, created_at, updated_at
			  FROM secrets WHERE id = ? FOR UPDATE`

	var secretIDBytes, envIDBytes, userIDBytes []byte
	err = querier.QueryRowContext(ctx, query, idBytes).Scan(
		&secretIDBytes, &envIDBytes, &userIDBytes, &secret.Key,
		&secret.EncryptedValue, &secret.IV, &secret.Description, &secret.Version,
		&secret.CreatedAt, &secret.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSecretNotFound
		}
		return nil, apperrors.Wrap(err, "failed to lock secret")
	}

	if err := unmarshalSecretIDs(&secret, secretIDBytes, envIDBytes, userIDBytes); err != nil {
		return nil, err
	}
	return &secret, nil
}

// UpdateValue replaces the ciphertext and bumps the version, guarded by the
// expected current version
func (r *MySQLSecretRepository) UpdateValue(
	ctx context.Context,
	id uuid.UUID,
	encryptedValue, iv string,
	expectedVersion uint,
) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `UPDATE secrets
			  SET encrypted_value = ?, iv = ?, version = version + 1, updated_at = NOW()
			  WHERE id = ? AND version = ?`

	result, err := querier.ExecContext(ctx, query, encryptedValue, iv, idBytes, expectedVersion)
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
func (r *MySQLSecretRepository) UpdateDescription(ctx context.Context, id uuid.UUID, description string) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `UPDATE secrets SET description = ?, updated_at = NOW() WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, description, idBytes)
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
func (r *MySQLSecretRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `DELETE FROM secrets WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, idBytes)
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

// List retrieves the secrets visible to a user through team membership
func (r *MySQLSecretRepository) List(
	ctx context.Context,
	userID uuid.UUID,
	filter usecase.ListSecretsFilter,
) ([]*domain.Secret, error) {
	querier := database.GetTx(ctx, r.db)

	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT s.id, s.environment_id, s.user_id, s.` + "`key`" + `, s.encrypted_value, s.iv,
			  s.description, s.version, s.created_at, s.updated_at,
			  p.team_id, e.name, p.name
			  FROM secrets s
			  INNER JOIN environments e ON e.id = s.environment_id
			  INNER JOIN projects p ON p.id = e.project_id
			  INNER JOIN team_members tm ON tm.team_id = p.team_id
			  WHERE tm.user_id = ?`
	args := []any{userIDBytes}
	if filter.EnvironmentID != nil {
		envIDBytes, err := filter.EnvironmentID.MarshalBinary()
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to marshal UUID")
		}
		query += ` AND s.environment_id = ?`
		args = append(args, envIDBytes)
	} else if filter.ProjectID != nil {
		projectIDBytes, err := filter.ProjectID.MarshalBinary()
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to marshal UUID")
		}
		query += ` AND e.project_id = ?`
		args = append(args, projectIDBytes)
	}
	query += ` ORDER BY s.` + "`key`" + ` ASC`

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secrets")
	}
	defer rows.Close()

	var secrets []*domain.Secret
	for rows.Next() {
		secret, err := scanMySQLJoinedSecret(rows)
		if err != nil {
			return nil, err
		}
		secrets = append(secrets, secret)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate secrets")
	}

	return secrets, nil
}

// ResolveEnvironment walks an environment up to its project and team
func (r *MySQLSecretRepository) ResolveEnvironment(
	ctx context.Context,
	environmentID uuid.UUID,
) (*domain.EnvironmentContext, error) {
	var envCtx domain.EnvironmentContext
	querier := database.GetTx(ctx, r.db)

	envIDBytes, err := environmentID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT e.id, e.name, p.id, p.name, p.team_id
			  FROM environments e
			  INNER JOIN projects p ON p.id = e.project_id
			  WHERE e.id = ?`

	var rowEnvIDBytes, projectIDBytes, teamIDBytes []byte
	err = querier.QueryRowContext(ctx, query, envIDBytes).Scan(
		&rowEnvIDBytes, &envCtx.EnvironmentName,
		&projectIDBytes, &envCtx.ProjectName, &teamIDBytes,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, projectDomain.ErrEnvironmentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to resolve environment")
	}

	if err := envCtx.EnvironmentID.UnmarshalBinary(rowEnvIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := envCtx.ProjectID.UnmarshalBinary(projectIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := envCtx.TeamID.UnmarshalBinary(teamIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}

	return &envCtx, nil
}

// mysqlRowScanner abstracts sql.Row and sql.Rows for shared scanning.
type mysqlRowScanner interface {
	Scan(dest ...any) error
}

// scanMySQLJoinedSecret scans a secret row that includes the ownership chain columns.
func scanMySQLJoinedSecret(scanner mysqlRowScanner) (*domain.Secret, error) {
	var secret domain.Secret
	var secretIDBytes, envIDBytes, userIDBytes, teamIDBytes []byte

	err := scanner.Scan(
		&secretIDBytes, &envIDBytes, &userIDBytes, &secret.Key,
		&secret.EncryptedValue, &secret.IV, &secret.Description, &secret.Version,
		&secret.CreatedAt, &secret.UpdatedAt,
		&teamIDBytes, &secret.EnvironmentName, &secret.ProjectName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, apperrors.Wrap(err, "failed to scan secret")
	}

	if err := unmarshalSecretIDs(&secret, secretIDBytes, envIDBytes, userIDBytes); err != nil {
		return nil, err
	}
	if err := secret.TeamID.UnmarshalBinary(teamIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}

	return &secret, nil
}

// unmarshalSecretIDs converts BINARY(16) columns back to UUIDs.
func unmarshalSecretIDs(secret *domain.Secret, idBytes, envIDBytes, userIDBytes []byte) error {
	if err := secret.ID.UnmarshalBinary(idBytes); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := secret.EnvironmentID.UnmarshalBinary(envIDBytes); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := secret.UserID.UnmarshalBinary(userIDBytes); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	return nil
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "1062")
}
