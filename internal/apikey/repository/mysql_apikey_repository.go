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

// MySQLApiKeyRepository handles API key persistence for MySQL
type MySQLApiKeyRepository struct {
	db *sql.DB
}

// NewMySQLApiKeyRepository creates a new MySQLApiKeyRepository
func NewMySQLApiKeyRepository(db *sql.DB) *MySQLApiKeyRepository {
	return &MySQLApiKeyRepository{
		db: db,
	}
}

// Create inserts a new API key
func (r *MySQLApiKeyRepository) Create(ctx context.Context, key *domain.ApiKey) error {
	querier := database.GetTx(ctx, r.db)

	permissions, err := json.Marshal(key.Permissions)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal permissions")
	}

	idBytes, err := key.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	userIDBytes, err := key.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `INSERT INTO api_keys (id, user_id, name, key_hash, key_prefix, permissions, expires_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query,
		idBytes, userIDBytes, key.Name, key.KeyHash, key.KeyPrefix, permissions, key.ExpiresAt, key.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create api key")
	}
	return nil
}

// Get retrieves an API key by ID
func (r *MySQLApiKeyRepository) Get(ctx context.Context, id uuid.UUID) (*domain.ApiKey, error) {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT id, user_id, name, key_hash, key_prefix, permissions, expires_at, last_used_at, created_at
			  FROM api_keys WHERE id = ?`

	return scanMySQLApiKey(querier.QueryRowContext(ctx, query, idBytes))
}

// GetByKeyHash retrieves an API key by its digest
func (r *MySQLApiKeyRepository) GetByKeyHash(ctx context.Context, keyHash string) (*domain.ApiKey, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, name, key_hash, key_prefix, permissions, expires_at, last_used_at, created_at
			  FROM api_keys WHERE key_hash = ?`

	return scanMySQLApiKey(querier.QueryRowContext(ctx, query, keyHash))
}

// ListByUser retrieves a user's API keys, newest first
func (r *MySQLApiKeyRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.ApiKey, error) {
	querier := database.GetTx(ctx, r.db)

	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT id, user_id, name, key_hash, key_prefix, permissions, expires_at, last_used_at, created_at
			  FROM api_keys WHERE user_id = ? ORDER BY created_at DESC`

	rows, err := querier.QueryContext(ctx, query, userIDBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list api keys")
	}
	defer rows.Close()

	var keys []*domain.ApiKey
	for rows.Next() {
		key, err := scanMySQLApiKeyRow(rows)
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
func (r *MySQLApiKeyRepository) UpdateLastUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `UPDATE api_keys SET last_used_at = ? WHERE id = ?`

	if _, err := querier.ExecContext(ctx, query, usedAt, idBytes); err != nil {
		return apperrors.Wrap(err, "failed to update api key last used")
	}
	return nil
}

// Delete removes an API key
func (r *MySQLApiKeyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `DELETE FROM api_keys WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, idBytes)
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

func scanMySQLApiKey(row *sql.Row) (*domain.ApiKey, error) {
	key, err := scanMySQLApiKeyRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrApiKeyNotFound
		}
		return nil, err
	}
	return key, nil
}

func scanMySQLApiKeyRow(scanner rowScanner) (*domain.ApiKey, error) {
	var key domain.ApiKey
	var idBytes, userIDBytes, permissions []byte

	err := scanner.Scan(
		&idBytes, &userIDBytes, &key.Name, &key.KeyHash, &key.KeyPrefix,
		&permissions, &key.ExpiresAt, &key.LastUsedAt, &key.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, apperrors.Wrap(err, "failed to scan api key")
	}

	if err := key.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := key.UserID.UnmarshalBinary(userIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := json.Unmarshal(permissions, &key.Permissions); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal permissions")
	}

	return &key, nil
}
