package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	apperrors "github.com/cosecrets/cosecrets/internal/errors"
	teamDomain "github.com/cosecrets/cosecrets/internal/team/domain"
)

// accessResolver implements AccessResolver against the membership store.
type accessResolver struct {
	membershipRepo MembershipRepository
}

// NewAccessResolver creates an AccessResolver backed by the membership repository.
func NewAccessResolver(membershipRepo MembershipRepository) AccessResolver {
	return &accessResolver{membershipRepo: membershipRepo}
}

// Authorize fetches the caller's membership for the team and compares its role
// rank against the action's minimum role. Membership is always looked up for
// the caller's own identity; resource ids are not secret and never grant
// access by themselves.
func (a *accessResolver) Authorize(
	ctx context.Context,
	userID, teamID uuid.UUID,
	action teamDomain.Action,
) (*teamDomain.TeamMember, error) {
	member, err := a.membershipRepo.Get(ctx, teamID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, teamDomain.ErrNotMember
		}
		return nil, err
	}

	if !member.Role.AtLeast(teamDomain.MinimumRole(action)) {
		return nil, apperrors.Wrap(apperrors.ErrForbidden, "insufficient role for action")
	}

	return member, nil
}
