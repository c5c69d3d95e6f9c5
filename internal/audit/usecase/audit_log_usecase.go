package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/cosecrets/cosecrets/internal/audit/domain"
	apperrors "github.com/cosecrets/cosecrets/internal/errors"
)

// auditLogUseCase implements AuditLogUseCase.
type auditLogUseCase struct {
	auditLogRepo AuditLogRepository
	teamScope    TeamScopeRepository
}

// NewAuditLogUseCase creates a new AuditLogUseCase with the provided dependencies.
func NewAuditLogUseCase(
	auditLogRepo AuditLogRepository,
	teamScope TeamScopeRepository,
) AuditLogUseCase {
	return &auditLogUseCase{
		auditLogRepo: auditLogRepo,
		teamScope:    teamScope,
	}
}

// List returns audit entries visible to the actor, newest first.
func (a *auditLogUseCase) List(
	ctx context.Context,
	input ListInput,
) ([]*auditDomain.Entry, int, error) {
	if input.Action != "" && !input.Action.IsValid() {
		return nil, 0, apperrors.Wrap(apperrors.ErrInvalidInput, "unknown audit action")
	}

	teamIDs, err := a.teamScope.ListTeamIDs(ctx, input.Actor.UserID)
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to resolve caller teams")
	}

	filter := ListFilter{
		Action:       input.Action,
		ResourceType: input.ResourceType,
		Offset:       input.Offset,
		Limit:        input.Limit,
	}

	if input.TeamID != nil {
		// An explicit team filter requires membership of that team.
		if !containsTeam(teamIDs, *input.TeamID) {
			return nil, 0, apperrors.Wrap(apperrors.ErrForbidden, "not a member of the requested team")
		}
		filter.TeamIDs = []uuid.UUID{*input.TeamID}
	} else {
		// Default scope: the actor's own entries plus all team-attributed
		// entries of the actor's teams.
		filter.TeamIDs = teamIDs
		actorID := input.Actor.UserID
		filter.ActorUserID = &actorID
	}

	entries, total, err := a.auditLogRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to list audit logs")
	}

	return entries, total, nil
}

// DeleteOlderThan removes entries older than the given number of days,
// or counts them when dryRun is set.
func (a *auditLogUseCase) DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error) {
	if days < 0 {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "days must not be negative")
	}

	before := time.Now().UTC().AddDate(0, 0, -days)

	if dryRun {
		count, err := a.auditLogRepo.CountOlderThan(ctx, before)
		if err != nil {
			return 0, apperrors.Wrap(err, "failed to count audit logs")
		}
		return count, nil
	}

	count, err := a.auditLogRepo.DeleteOlderThan(ctx, before)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit logs")
	}
	return count, nil
}

func containsTeam(teamIDs []uuid.UUID, teamID uuid.UUID) bool {
	for _, id := range teamIDs {
		if id == teamID {
			return true
		}
	}
	return false
}
