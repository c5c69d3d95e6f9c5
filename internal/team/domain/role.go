package domain

// Role is a team membership role. Roles form a strict ordering
// OWNER > ADMIN > MEMBER; an action is permitted when the caller's role ranks
// at least as high as the action's minimum role.
type Role string

// Team membership roles.
const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// roleRank maps roles to their position in the ordering. Unknown roles rank
// below MEMBER and are never sufficient for any action.
var roleRank = map[Role]int{
	RoleOwner:  3,
	RoleAdmin:  2,
	RoleMember: 1,
}

// IsValid reports whether the role is one of the known roles.
func (r Role) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether the role ranks at least as high as min.
func (r Role) AtLeast(min Role) bool {
	return roleRank[r] >= roleRank[min]
}

// Action is an operation gated by the role hierarchy.
type Action string

// Authorization-gated actions.
const (
	ActionTeamRead          Action = "team:read"
	ActionTeamManageMembers Action = "team:manage_members"
	ActionProjectRead       Action = "project:read"
	ActionProjectCreate     Action = "project:create"
	ActionProjectDelete     Action = "project:delete"
	ActionSecretRead        Action = "secret:read"
	ActionSecretCreate      Action = "secret:create"
	ActionSecretUpdate      Action = "secret:update"
	ActionSecretDelete      Action = "secret:delete"
)

// minimumRole maps each action to the lowest role permitted to perform it.
var minimumRole = map[Action]Role{
	ActionTeamRead:          RoleMember,
	ActionTeamManageMembers: RoleOwner,
	ActionProjectRead:       RoleMember,
	ActionProjectCreate:     RoleAdmin,
	ActionProjectDelete:     RoleOwner,
	ActionSecretRead:        RoleMember,
	ActionSecretCreate:      RoleMember,
	ActionSecretUpdate:      RoleMember,
	ActionSecretDelete:      RoleAdmin,
}

// MinimumRole returns the lowest role permitted to perform the action.
// Unknown actions require OWNER so an unmapped action never widens access.
func MinimumRole(action Action) Role {
	if role, ok := minimumRole[action]; ok {
		return role
	}
	return RoleOwner
}
