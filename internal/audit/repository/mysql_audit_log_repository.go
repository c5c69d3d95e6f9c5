package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/cosecrets/cosecrets/internal/audit/domain"
	auditUsecase "github.com/cosecrets/cosecrets/internal/audit/usecase"
	"github.com/cosecrets/cosecrets/internal/database"
	apperrors "github.com/cosecrets/cosecrets/internal/errors"
)

// MySQLAuditLogRepository handles audit log persistence for MySQL
type MySQLAuditLogRepository struct {
	db *sql.DB
}

// NewMySQLAuditLogRepository creates a new MySQLAuditLogRepository
func NewMySQLAuditLogRepository(db *sql.DB) *MySQLAuditLogRepository {
	return &MySQLAuditLogRepository{
		db: db,
	}
}

// Create inserts a new audit entry
func (r *MySQLAuditLogRepository) Create(ctx context.Context, entry *auditDomain.Entry) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := entry.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	userIDBytes, err := entry.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	var teamIDBytes, apiKeyIDBytes []byte
	if entry.TeamID != nil {
		teamIDBytes, err = entry.TeamID.MarshalBinary()
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal UUID")
		}
	}
	if entry.APIKeyID != nil {
		apiKeyIDBytes, err = entry.APIKeyID.MarshalBinary()
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal UUID")
		}
	}

	details, err := json.Marshal(entry.Details)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit details")
	}

	query := `INSERT INTO audit_logs (id, action, resource_type, resource_id, user_id, team_id, api_key_id, details, ip_address, user_agent, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query,
		idBytes, entry.Action, entry.ResourceType, entry.ResourceID,
		userIDBytes, teamIDBytes, apiKeyIDBytes, details,
		entry.IPAddress, entry.UserAgent, entry.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit log")
	}
	return nil
}

// List retrieves audit entries matching the filter, newest first, along with
// the total match count.
func (r *MySQLAuditLogRepository) List(
	ctx context.Context,
	filter auditUsecase.ListFilter,
) ([]*auditDomain.Entry, int, error) {
	querier := database.GetTx(ctx, r.db)

	where, args, err := buildMySQLAuditWhere(filter)
	if err != nil {
		return nil, 0, err
	}

	countQuery := `SELECT COUNT(*) FROM audit_logs` + where
	var total int
	if err := querier.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to count audit logs")
	}

	query := `SELECT id, action, resource_type, resource_id, user_id, team_id, api_key_id, details, ip_address, user_agent, created_at
			  FROM audit_logs` + where + ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to list audit logs")
	}
	defer rows.Close()

	var entries []*auditDomain.Entry
	for rows.Next() {
		var entry auditDomain.Entry
		var idBytes, userIDBytes, teamIDBytes, apiKeyIDBytes, details []byte
		err := rows.Scan(
			&idBytes, &entry.Action, &entry.ResourceType, &entry.ResourceID,
			&userIDBytes, &teamIDBytes, &apiKeyIDBytes, &details,
			&entry.IPAddress, &entry.UserAgent, &entry.CreatedAt,
		)
		if err != nil {
			return nil, 0, apperrors.Wrap(err, "failed to scan audit log")
		}
		if err := entry.ID.UnmarshalBinary(idBytes); err != nil {
			return nil, 0, apperrors.Wrap(err, "failed to unmarshal UUID")
		}
		if err := entry.UserID.UnmarshalBinary(userIDBytes); err != nil {
			return nil, 0, apperrors.Wrap(err, "failed to unmarshal UUID")
		}
		if len(teamIDBytes) > 0 {
			teamID, err := unmarshalNullableUUID(teamIDBytes)
			if err != nil {
				return nil, 0, err
			}
			entry.TeamID = teamID
		}
		if len(apiKeyIDBytes) > 0 {
			apiKeyID, err := unmarshalNullableUUID(apiKeyIDBytes)
			if err != nil {
				return nil, 0, err
			}
			entry.APIKeyID = apiKeyID
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
func (r *MySQLAuditLogRepository) CountOlderThan(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	var count int64
	query := `SELECT COUNT(*) FROM audit_logs WHERE created_at < ?`
	if err := querier.QueryRowContext(ctx, query, before).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count audit logs")
	}
	return count, nil
}

// DeleteOlderThan removes entries created before the given time. Retention
// cleanup is the only mutation this repository performs on existing rows.
func (r *MySQLAuditLogRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM audit_logs WHERE created_at < ?`
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

// unmarshalNullableUUID decodes a BINARY(16) column into a UUID pointer.
func unmarshalNullableUUID(raw []byte) (*uuid.UUID, error) {
	var id uuid.UUID
	if err := id.UnmarshalBinary(raw); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	return &id, nil
}

// buildMySQLAuditWhere builds the WHERE clause shared by the count and page
// queries. Team scope and actor scope combine as a union so callers see their
// own entries alongside their teams' entries.
func buildMySQLAuditWhere(filter auditUsecase.ListFilter) (string, []any, error) {
	var conditions []string
	var args []any

	var scope []string
	if len(filter.TeamIDs) > 0 {
		placeholders := make([]string, len(filter.TeamIDs))
		for i, teamID := range filter.TeamIDs {
			teamIDBytes, err := teamID.MarshalBinary()
			if err != nil {
				return "", nil, apperrors.Wrap(err, "failed to marshal UUID")
			}
			args = append(args, teamIDBytes)
			placeholders[i] = "?"
		}
		scope = append(scope, "team_id IN ("+strings.Join(placeholders, ", ")+")")
	}
	if filter.ActorUserID != nil {
		userIDBytes, err := filter.ActorUserID.MarshalBinary()
		if err != nil {
			return "", nil, apperrors.Wrap(err, "failed to marshal UUID")
		}
		args = append(args, userIDBytes)
		scope = append(scope, "user_id = ?")
	}
	if len(scope) > 0 {
		conditions = append(conditions, "("+strings.Join(scope, " OR ")+")")
	}

	if filter.Action != "" {
		args = append(args, filter.Action)
		conditions = append(conditions, "action = ?")
	}
	if filter.ResourceType != "" {
		args = append(args, filter.ResourceType)
		conditions = append(conditions, "resource_type = ?")
	}

	if len(conditions) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args, nil
}
