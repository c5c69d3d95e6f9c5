// Package http provides HTTP handlers for audit log queries.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	auditDomain "github.com/cosecrets/cosecrets/internal/audit/domain"
	"github.com/cosecrets/cosecrets/internal/audit/http/dto"
	"github.com/cosecrets/cosecrets/internal/audit/usecase"
	"github.com/cosecrets/cosecrets/internal/httputil"
)

// AuditLogHandler handles audit log HTTP requests.
type AuditLogHandler struct {
	auditLogUseCase usecase.AuditLogUseCase
	logger          *slog.Logger
}

// NewAuditLogHandler creates a new AuditLogHandler.
func NewAuditLogHandler(auditLogUseCase usecase.AuditLogUseCase, logger *slog.Logger) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUseCase: auditLogUseCase,
		logger:          logger,
	}
}

// ListHandler lists audit entries visible to the caller, newest first.
// GET /api/v1/audit-logs?teamId=&action=&resource=&offset=&limit=
func (h *AuditLogHandler) ListHandler(c *gin.Context) {
	actor, ok := httputil.RequireIdentity(c, h.logger)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	input := usecase.ListInput{
		Actor:        actor,
		Action:       auditDomain.Action(c.Query("action")),
		ResourceType: c.Query("resource"),
		Offset:       offset,
		Limit:        limit,
	}

	if raw := c.Query("teamId"); raw != "" {
		teamID, err := uuid.Parse(raw)
		if err != nil {
			httputil.HandleBadRequestGin(c, fmt.Errorf("invalid team id: %w", err), h.logger)
			return
		}
		input.TeamID = &teamID
	}

	entries, total, err := h.auditLogUseCase.List(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToListAuditLogsResponse(entries, total, offset, limit))
}
