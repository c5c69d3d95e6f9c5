package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/cosecrets/cosecrets/internal/database"
	apperrors "github.com/cosecrets/cosecrets/internal/errors"
	"github.com/cosecrets/cosecrets/internal/secret/domain"
)

// PostgreSQLSecretHistoryRepository handles version snapshot persistence for PostgreSQL
type PostgreSQLSecretHistoryRepository struct {
	db *sql.DB
}

// NewPostgreSQLSecretHistoryRepository creates a new PostgreSQLSecretHistoryRepository
func NewPostgreSQLSecretHistoryRepository(db *sql.DB) *PostgreSQLSecretHistoryRepository {
	return &PostgreSQLSecretHistoryRepository{
		db: db,
	}
}

// Create inserts a version snapshot
func (r *PostgreSQLSecretHistoryRepository) Create(ctx context.Context, history *domain.SecretHistory) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO secret_history
			  (id, secret_id, encrypted_value, iv, version, changed_by, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(ctx, query,
		history.ID, history.SecretID, history.EncryptedValue, history.IV,
		history.Version, history.ChangedBy, history.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create secret history")
	}
	return nil
}

// ListBySecret retrieves a secret's snapshots, newest version first
func (r *PostgreSQLSecretHistoryRepository) ListBySecret(
	ctx context.Context,
	secretID uuid.UUID,
	limit int,
) ([]*domain.SecretHistory, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, secret_id, encrypted_value, iv, version, changed_by, created_at
			  FROM secret_history WHERE secret_id = $1
			  ORDER BY version DESC LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, secretID, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secret history")
	}
	defer rows.Close()

	var entries []*domain.SecretHistory
	for rows.Next() {
		var entry domain.SecretHistory
		err := rows.Scan(
			&entry.ID, &entry.SecretID, &entry.EncryptedValue, &entry.IV,
			&entry.Version, &entry.ChangedBy, &entry.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan secret history")
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate secret history")
	}

	return entries, nil
}
