// Package identity defines the resolved caller identity shared by all
// authorization and audit code. Both authentication paths (external session
// and bearer API key) resolve to the same shape so downstream code only ever
// looks at the user id, with the API key id threaded through for audit
// attribution.
package identity

import (
	"github.com/google/uuid"
)

// Method is the authentication path that produced an identity.
type Method string

// Authentication methods.
const (
	MethodSession Method = "session"
	MethodAPIKey  Method = "api_key"
)

// Identity is a verified caller.
type Identity struct {
	UserID   uuid.UUID
	APIKeyID *uuid.UUID
	Method   Method
}

// Session builds an identity resolved from an external session.
func Session(userID uuid.UUID) Identity {
	return Identity{UserID: userID, Method: MethodSession}
}

// APIKey builds an identity resolved from a bearer API key.
func APIKey(userID, apiKeyID uuid.UUID) Identity {
	id := apiKeyID
	return Identity{UserID: userID, APIKeyID: &id, Method: MethodAPIKey}
}
