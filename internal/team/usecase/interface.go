// Package usecase defines the interfaces and implementations for team
// management and role-based access resolution.
package usecase

import (
	"context"

	"github.com/google/uuid"

	auditDomain "github.com/cosecrets/cosecrets/internal/audit/domain"
	"github.com/cosecrets/cosecrets/internal/identity"
	teamDomain "github.com/cosecrets/cosecrets/internal/team/domain"
)

// TeamRepository defines the interface for team persistence operations.
type TeamRepository interface {
	Create(ctx context.Context, team *teamDomain.Team) error
	Get(ctx context.Context, teamID uuid.UUID) (*teamDomain.Team, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*teamDomain.Team, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// MembershipRepository defines the interface for team membership persistence.
type MembershipRepository interface {
	Create(ctx context.Context, member *teamDomain.TeamMember) error
	Get(ctx context.Context, teamID, userID uuid.UUID) (*teamDomain.TeamMember, error)
	List(ctx context.Context, teamID uuid.UUID) ([]*teamDomain.TeamMember, error)
	ListTeamIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	UpdateRole(ctx context.Context, teamID, userID uuid.UUID, role teamDomain.Role) error
	Delete(ctx context.Context, teamID, userID uuid.UUID) error
}

// AccessResolver decides whether an identity may perform an action on a
// resource owned by a team. Callers first walk their resource up to its owning
// team, then ask the resolver; the resolver re-verifies membership for the
// caller's own identity so a bare resource id never grants access.
type AccessResolver interface {
	// Authorize returns the caller's membership when the caller holds a role
	// ranking at least the action's minimum. Returns ErrNotMember when no
	// membership exists and ErrForbidden when the role is insufficient.
	Authorize(
		ctx context.Context,
		userID, teamID uuid.UUID,
		action teamDomain.Action,
	) (*teamDomain.TeamMember, error)
}

// CreateTeamInput contains the parameters for creating a team.
type CreateTeamInput struct {
	Name        string
	Description string
	Actor       identity.Identity
	Origin      auditDomain.Origin
}

// MemberInput identifies a membership mutation target.
type MemberInput struct {
	TeamID uuid.UUID
	UserID uuid.UUID
	Role   teamDomain.Role
	Actor  identity.Identity
	Origin auditDomain.Origin
}

// TeamUseCase defines the interface for team management business logic.
type TeamUseCase interface {
	// Create creates a team with a unique slug; the creator becomes both the
	// owner and a member with role OWNER.
	Create(ctx context.Context, input CreateTeamInput) (*teamDomain.Team, error)

	// List returns the teams the actor belongs to.
	List(ctx context.Context, actor identity.Identity) ([]*teamDomain.Team, error)

	// ListMembers returns the members of a team the actor belongs to.
	ListMembers(ctx context.Context, teamID uuid.UUID, actor identity.Identity) ([]*teamDomain.TeamMember, error)

	// AddMember adds a user to a team. Owner only.
	AddMember(ctx context.Context, input MemberInput) (*teamDomain.TeamMember, error)

	// UpdateMemberRole changes a member's role. Owner only; the owner's own
	// membership cannot be changed.
	UpdateMemberRole(ctx context.Context, input MemberInput) error

	// RemoveMember removes a user from a team. Owner only; the owner's own
	// membership cannot be removed.
	RemoveMember(ctx context.Context, input MemberInput) error
}
