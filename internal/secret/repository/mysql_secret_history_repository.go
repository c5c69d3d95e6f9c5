package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/cosecrets/cosecrets/internal/database"
	apperrors "github.com/cosecrets/cosecrets/internal/errors"
	"github.com/cosecrets/cosecrets/internal/secret/domain"
)

// MySQLSecretHistoryRepository handles version snapshot persistence for MySQL
type MySQLSecretHistoryRepository struct {
	db *sql.DB
}

// NewMySQLSecretHistoryRepository creates a new MySQLSecretHistoryRepository
func NewMySQLSecretHistoryRepository(db *sql.DB) *MySQLSecretHistoryRepository {
	return &MySQLSecretHistoryRepository{
		db: db,
	}
}

// Create inserts a version snapshot
func (r *MySQLSecretHistoryRepository) Create(ctx context.Context, history *domain.SecretHistory) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := history.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	secretIDBytes, err := history.SecretID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	changedByBytes, err := history.ChangedBy.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `INSERT INTO secret_history
			  (id, secret_id, encrypted_value, iv, version, changed_by, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query,
		idBytes, secretIDBytes, history.EncryptedValue, history.IV,
		history.Version, changedByBytes, history.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create secret history")
	}
	return nil
}

// ListBySecret retrieves a secret's snapshots, newest version first
func (r *MySQLSecretHistoryRepository) ListBySecret(
	ctx context.Context,
	secretID uuid.UUID,
	limit int,
) ([]*domain.SecretHistory, error) {
	querier := database.GetTx(ctx, r.db)

	secretIDBytes, err := secretID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT id, secret_id, encrypted_value, iv, version, changed_by, created_at
			  FROM secret_history WHERE secret_id = ?
			  ORDER BY version DESC LIMIT ?`

	rows, err := querier.QueryContext(ctx, query, secretIDBytes, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secret history")
	}
	defer rows.Close()

	var entries []*domain.SecretHistory
	for rows.Next() {
		var entry domain.SecretHistory
		var idBytes, rowSecretIDBytes, changedByBytes []byte
		err := rows.Scan(
			&idBytes, &rowSecretIDBytes, &entry.EncryptedValue, &entry.IV,
			&entry.Version, &changedByBytes, &entry.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan secret history")
		}
		if err := entry.ID.UnmarshalBinary(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
		}
		if err := entry.SecretID.UnmarshalBinary(rowSecretIDBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
		}
		if err := entry.ChangedBy.UnmarshalBinary(changedByBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate secret history")
	}

	return entries, nil
}
