// Package usecase defines the audit recording and query business logic.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/cosecrets/cosecrets/internal/audit/domain"
	"github.com/cosecrets/cosecrets/internal/identity"
)

// AuditLogRepository defines the interface for audit log persistence.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *auditDomain.Entry) error
	List(ctx context.Context, filter ListFilter) ([]*auditDomain.Entry, int, error)

	// CountOlderThan and DeleteOlderThan support operational retention
	// cleanup, the only sanctioned mutation of the audit trail.
	CountOlderThan(ctx context.Context, before time.Time) (int64, error)
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// TeamScopeRepository exposes the membership lookups needed to scope audit
// queries to the caller's teams.
type TeamScopeRepository interface {
	ListTeamIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// ListFilter narrows an audit log query. TeamIDs limits results to entries
// attributed to those teams (plus the actor's own entries when ActorOnly is
// set alongside).
type ListFilter struct {
	TeamIDs      []uuid.UUID
	ActorUserID  *uuid.UUID
	Action       auditDomain.Action
	ResourceType string
	Offset       int
	Limit        int
}

// Recorder appends audit entries without ever failing the operation it
// describes. Record has no error return on purpose: audit is observability,
// not a transactional guard, and persistence failures are reported through an
// operational channel instead of the request path.
type Recorder interface {
	Record(ctx context.Context, entry *auditDomain.Entry)
}

// ListInput is a scoped audit log query for an authenticated caller.
type ListInput struct {
	Actor        identity.Identity
	TeamID       *uuid.UUID
	Action       auditDomain.Action
	ResourceType string
	Offset       int
	Limit        int
}

// AuditLogUseCase defines the query side of the audit trail.
type AuditLogUseCase interface {
	// List returns audit entries visible to the actor, newest first, plus the
	// total count for pagination. With an explicit TeamID the actor must be a
	// member of that team; otherwise results cover the actor's own entries and
	// all entries of teams the actor belongs to.
	List(ctx context.Context, input ListInput) ([]*auditDomain.Entry, int, error)

	// DeleteOlderThan removes entries older than the given number of days.
	// With dryRun it only counts what would be removed. Operational use only;
	// no API endpoint exposes it.
	DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error)
}
