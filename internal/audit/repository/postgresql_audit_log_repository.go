// Package repository provides data persistence implementations for the audit
// trail. Entries are append-only: neither driver exposes update or delete of
// individual rows.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/cosecrets/cosecrets/internal/audit/domain"
	auditUsecase "github.com/cosecrets/cosecrets/internal/audit/usecase"
	"github.com/cosecrets/cosecrets/internal/database"
	apperrors "github.com/cosecrets/cosecrets/internal/errors"
)

// PostgreSQLAuditLogRepository handles audit log persistence for PostgreSQL
type PostgreSQLAuditLogRepository struct {
	db *sql.DB
}

// NewPostgreSQLAuditLogRepository creates a new PostgreSQLAuditLogRepository
func NewPostgreSQLAuditLogRepository(db *sql.DB) *PostgreSQLAuditLogRepository {
	return &PostgreSQLAuditLogRepository{
		db: db,
	}
}

// Create inserts a new audit entry
func (r *PostgreSQLAuditLogRepository) Create(ctx context.Context, entry *auditDomain.Entry) error {
	querier := database.GetTx(ctx, r.db)

	details, err := json.Marshal(entry.Details)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit details")
	}

	query := `INSERT INTO audit_logs (id, action, resource_type, resource_id, user_id, team_id, api_key_id, details, ip_address, user_agent, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = querier.ExecContext(ctx, query,
		entry.ID, entry.Action, entry.ResourceType, entry.ResourceID,
		entry.UserID, entry.TeamID, entry.APIKeyID, details,
		entry.IPAddress, entry.UserAgent, entry.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit log")
	}
	return nil
}

// List retrieves audit entries matching the filter, newest first, along with
// the total match count.
func (r *PostgreSQLAuditLogRepository) List(
	ctx context.Context,
	filter auditUsecase.ListFilter,
) ([]*auditDomain.Entry, int, error) {
	querier := database.GetTx(ctx, r.db)

	where, args := buildPostgreSQLAuditWhere(filter)

	countQuery := `SELECT COUNT(*) FROM audit_logs` + where
	var total int
	if err := querier.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to count audit logs")
	}

	query := `SELECT id, action, resource_type, resource_id, user_id, team_id, api_key_id, details, ip_address, user_agent, created_at
			  FROM audit_logs` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to list audit logs")
	}
	defer rows.Close()

	var entries []*auditDomain.Entry
	for rows.Next() {
		var entry auditDomain.Entry
		var teamID, apiKeyID uuid.NullUUID
		var details []byte
		err := rows.Scan(
			&entry.ID, &entry.Action, &entry.ResourceType, &entry.ResourceID,
			&entry.UserID, &teamID, &apiKeyID, &details,
			&entry.IPAddress, &entry.UserAgent, &entry.CreatedAt,
		)
		if err != nil {
			return nil, 0, apperrors.Wrap(err, "failed to scan audit log")
		}
		if teamID.Valid {
			entry.TeamID = &teamID.UUID
		}
		if apiKeyID.Valid {
			entry.APIKeyID = &apiKeyID.UUID
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &entry.Details); err != nil {
				return nil, 0, apperrors.Wrap(err, "failed to unmarshal audit details")
			}
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to iterate audit logs")
	}

	return entries, total, nil
}

// CountOlderThan counts entries created before the given time.
func (r *PostgreSQLAuditLogRepository) CountOlderThan(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	var count int64
	query := `SELECT COUNT(*) FROM audit_logs WHERE created_at < $1`
	if err := querier.QueryRowContext(ctx, query, before).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count audit logs")
	}
	return count, nil
}

// DeleteOlderThan removes entries created before the given time. Retention
// cleanup is the only mutation this repository performs on existing rows.
func (r *PostgreSQLAuditLogRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM audit_logs WHERE created_at < $1`
	result, err := querier.ExecContext(ctx, query, before)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit logs")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get rows affected")
	}
	return rowsAffected, nil
}

// buildPostgreSQLAuditWhere builds the WHERE clause shared by the count and
// page queries. Team scope and actor scope combine as a union so callers see
// their own entries alongside their teams' entries.
func buildPostgreSQLAuditWhere(filter auditUsecase.ListFilter) (string, []any) {
	var conditions []string
	var args []any

	var scope []string
	if len(filter.TeamIDs) > 0 {
		placeholders := make([]string, len(filter.TeamIDs))
		for i, teamID := range filter.TeamIDs {
			args = append(args, teamID)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		scope = append(scope, "team_id IN ("+strings.Join(placeholders, ", ")+")")
	}
	if filter.ActorUserID != nil {
		args = append(args, *filter.ActorUserID)
		scope = append(scope, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if len(scope) > 0 {
		conditions = append(conditions, "("+strings.Join(scope, " OR ")+")")
	}

	if filter.Action != "" {
		args = append(args, filter.Action)
		conditions = append(conditions, fmt.Sprintf("action = $%d", len(args)))
	}
	if filter.ResourceType != "" {
		args = append(args, filter.ResourceType)
		conditions = append(conditions, fmt.Sprintf("resource_type = $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}
