// Package domain defines the immutable audit trail entities.
//
// Audit entries are append-only: nothing in the system mutates or deletes
// them during normal operation, and they never contain secret plaintext,
// not even in the details map.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Action identifies a security-relevant operation.
type Action string

// Audited actions.
const (
	ActionUserRegister  Action = "USER_REGISTER"
	ActionTeamCreate    Action = "TEAM_CREATE"
	ActionMemberAdd     Action = "MEMBER_ADD"
	ActionMemberUpdate  Action = "MEMBER_UPDATE"
	ActionMemberRemove  Action = "MEMBER_REMOVE"
	ActionProjectCreate Action = "PROJECT_CREATE"
	ActionProjectDelete Action = "PROJECT_DELETE"
	ActionSecretCreate  Action = "SECRET_CREATE"
	ActionSecretRead    Action = "SECRET_READ"
	ActionSecretUpdate  Action = "SECRET_UPDATE"
	ActionSecretDelete  Action = "SECRET_DELETE"
	ActionAPIKeyCreate  Action = "API_KEY_CREATE"
	ActionAPIKeyRevoke  Action = "API_KEY_REVOKE"
)

// knownActions is the set of actions accepted as query filters.
var knownActions = map[Action]struct{}{
	ActionUserRegister:  {},
	ActionTeamCreate:    {},
	ActionMemberAdd:     {},
	ActionMemberUpdate:  {},
	ActionMemberRemove:  {},
	ActionProjectCreate: {},
	ActionProjectDelete: {},
	ActionSecretCreate:  {},
	ActionSecretRead:    {},
	ActionSecretUpdate:  {},
	ActionSecretDelete:  {},
	ActionAPIKeyCreate:  {},
	ActionAPIKeyRevoke:  {},
}

// IsValid reports whether the action is a known audited action.
func (a Action) IsValid() bool {
	_, ok := knownActions[a]
	return ok
}

// Origin carries request origin metadata for audit attribution.
type Origin struct {
	IPAddress string
	UserAgent string
}

// Entry is one immutable audit record.
type Entry struct {
	ID           uuid.UUID
	Action       Action
	ResourceType string
	ResourceID   string
	UserID       uuid.UUID
	TeamID       *uuid.UUID
	APIKeyID     *uuid.UUID
	Details      map[string]any
	IPAddress    string
	UserAgent    string
	CreatedAt    time.Time
}
