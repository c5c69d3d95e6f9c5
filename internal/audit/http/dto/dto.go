// Package dto contains the HTTP response shapes for audit log queries.
package dto

import (
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/cosecrets/cosecrets/internal/audit/domain"
)

// AuditLogResponse represents one audit entry in API responses.
type AuditLogResponse struct {
	ID           uuid.UUID      `json:"id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	UserID       uuid.UUID      `json:"user_id"`
	TeamID       *uuid.UUID     `json:"team_id,omitempty"`
	APIKeyID     *uuid.UUID     `json:"api_key_id,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
	IPAddress    string         `json:"ip_address"`
	UserAgent    string         `json:"user_agent"`
	CreatedAt    time.Time      `json:"created_at"`
}

// ListAuditLogsResponse is a page of audit entries plus the total match count.
type ListAuditLogsResponse struct {
	AuditLogs []AuditLogResponse `json:"audit_logs"`
	Total     int                `json:"total"`
	Offset    int                `json:"offset"`
	Limit     int                `json:"limit"`
}

// ToAuditLogResponse converts a domain entry to its response shape.
func ToAuditLogResponse(entry *auditDomain.Entry) AuditLogResponse {
	return AuditLogResponse{
		ID:           entry.ID,
		Action:       string(entry.Action),
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		UserID:       entry.UserID,
		TeamID:       entry.TeamID,
		APIKeyID:     entry.APIKeyID,
		Details:      entry.Details,
		IPAddress:    entry.IPAddress,
		UserAgent:    entry.UserAgent,
		CreatedAt:    entry.CreatedAt,
	}
}

// ToListAuditLogsResponse converts a page of entries to its response shape.
func ToListAuditLogsResponse(entries []*auditDomain.Entry, total, offset, limit int) ListAuditLogsResponse {
	logs := make([]AuditLogResponse, 0, len(entries))
	for _, entry := range entries {
		logs = append(logs, ToAuditLogResponse(entry))
	}
	return ListAuditLogsResponse{
		AuditLogs: logs,
		Total:     total,
		Offset:    offset,
		Limit:     limit,
	}
}
