// Package repository provides data persistence implementations for API keys.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/cosecrets/cosecrets/internal/apikey/domain"
	"github.com/cosecrets/cosecrets/internal/database"
	apperrors "github.com/cosecrets/cosecrets/internal/errors"
)

// PostgreSQLApiKeyRepository handles API key persistence for PostgreSQL
type PostgreSQLApiKeyRepository struct {
	db *sql.DB
}

// NewPostgreSQLApiKeyRepository creates a new PostgreSQLApiKeyRepository
func NewPostgreSQLApiKeyRepository(db *sql.DB) *PostgreSQLApiKeyRepository {
	return &PostgreSQLApiKeyRepository{
		db: db,
	}
}

// Create inserts a new API key
func (r *PostgreSQLApiKeyRepository) Create(ctx context.Context, key *domain.ApiKey) error {
	querier := database.GetTx(ctx, r.db)

	permissions, err := json.Marshal(key.Permissions)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal permissions")
	}

	query := `INSERT INTO api_keys (id, user_id, name, key_hash, key_prefix, permissions, expires_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = querier.ExecContext(ctx, query,
		key.ID, key.UserID, key.Name, key.KeyHash, key.KeyPrefix, permissions, key.ExpiresAt, key.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create api key")
	}
	return nil
}

// Get retrieves an API key by ID
func (r *PostgreSQLApiKeyRepository) Get(ctx context.Context, id uuid.UUID) (*domain.ApiKey, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, name, key_hash, key_prefix, permissions, expires_at, last_used_at, created_at
			  FROM api_keys WHERE id = $1`

	return scanPostgreSQLApiKey(querier.QueryRowContext(ctx, query, id))
}

// GetByKeyHash retrieves an API key by its digest. The lookup is an exact
// match on the stored hash.
func (r *PostgreSQLApiKeyRepository) GetByKeyHash(ctx context.Context, keyHash string) (*domain.ApiKey, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, name, key_hash, key_prefix, permissions, expires_at, last_used_at, created_at
			  FROM api_keys WHERE key_hash = $1`

	return scanPostgreSQLApiKey(querier.QueryRowContext(ctx, query, keyHash))
}

// ListByUser retrieves a user's API keys, newest first
func (r *PostgreSQLApiKeyRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.ApiKey, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, name, key_hash, key_prefix, permissions, expires_at, last_used_at, created_at
			  FROM api_keys WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := querier.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list api keys")
	}
	defer rows.Close()

	var keys []*domain.ApiKey
	for rows.Next() {
		key, err := scanPostgreSQLApiKeyRow(rows)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate api keys")
	}

	return keys, nil
}

// UpdateLastUsed records the time the key last authenticated a request
func (r *PostgreSQLApiKeyRepository) UpdateLastUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE api_keys SET last_used_at = $1 WHERE id = $2`

	_, err := querier.ExecContext(ctx, query, usedAt, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update api key last used")
	}
	return nil
}

// Delete removes an API key
func (r *PostgreSQLApiKeyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM api_keys WHERE id = $1`

	result, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete api key")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return domain.ErrApiKeyNotFound
	}
	return nil
}

// rowScanner abstracts sql.Row and sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostgreSQLApiKey(row *sql.Row) (*domain.ApiKey, error) {
	key, err := scanPostgreSQLApiKeyRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrApiKeyNotFound
		}
		return nil, err
	}
	return key, nil
}

func scanPostgreSQLApiKeyRow(scanner rowScanner) (*domain.ApiKey, error) {
	var key domain.ApiKey
	var permissions []byte

	err := scanner.Scan(
		&key.ID, &key.UserID, &key.Name, &key.KeyHash, &key.KeyPrefix,
		&permissions, &key.ExpiresAt, &key.LastUsedAt, &key.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, apperrors.Wrap(err, "failed to scan api key")
	}

	if err := json.Unmarshal(permissions, &key.Permissions); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal permissions")
	}

	return &key, nil
}
