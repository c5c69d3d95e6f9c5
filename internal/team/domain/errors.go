package domain

import (
	"github.com/cosecrets/cosecrets/internal/errors"
)

// Team-specific error definitions.
var (
	// ErrTeamNotFound indicates the team does not exist or the caller cannot see it.
	ErrTeamNotFound = errors.Wrap(errors.ErrNotFound, "team not found")

	// ErrMemberNotFound indicates the (team, user) membership row does not exist.
	ErrMemberNotFound = errors.Wrap(errors.ErrNotFound, "team member not found")

	// ErrNotMember indicates the caller holds no membership for the team.
	// Resource-scoped callers translate this into their own not-found error so
	// existence is never leaked to non-members.
	ErrNotMember = errors.Wrap(errors.ErrForbidden, "not a team member")

	// ErrMemberExists indicates the user is already a member of the team.
	ErrMemberExists = errors.Wrap(errors.ErrConflict, "user is already a team member")

	// ErrOwnerImmutable indicates an attempt to remove or demote the team owner.
	// The owner must always remain a member with role OWNER.
	ErrOwnerImmutable = errors.Wrap(errors.ErrInvalidInput, "team owner membership cannot be changed")
)
