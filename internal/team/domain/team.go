// Package domain defines teams, memberships, and the role model used for
// authorization across the project/environment/secret hierarchy.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Team is a named collaboration unit. Every team has exactly one owner, and
// the owner always also appears as a member with RoleOwner.
type Team struct {
	ID          uuid.UUID
	Name        string
	Slug        string
	Description string
	OwnerID     uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TeamMember links a user to a team with a role. Unique per (team, user).
type TeamMember struct {
	ID        uuid.UUID
	TeamID    uuid.UUID
	UserID    uuid.UUID
	Role      Role
	CreatedAt time.Time
}
