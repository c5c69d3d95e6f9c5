// Package domain defines the secret entities. Secret values are encrypted at
// rest; the plaintext only exists in memory between decryption and the API
// response.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/cosecrets/cosecrets/internal/errors"
)

// Secret is one versioned key/value pair within an environment. Key is unique
// per environment. EncryptedValue and IV are hex-encoded; Value holds the
// decrypted plaintext on read paths and is never persisted.
type Secret struct {
	ID             uuid.UUID
	EnvironmentID  uuid.UUID
	UserID         uuid.UUID
	Key            string
	EncryptedValue string
	IV             string
	Description    string
	Version        uint
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Populated by joined reads for responses and team scoping.
	Value           string
	TeamID          uuid.UUID
	EnvironmentName string
	ProjectName     string
}

// SecretHistory is a snapshot of a secret's previous version, taken before
// each value change. Snapshots keep the old ciphertext as-is.
type SecretHistory struct {
	ID             uuid.UUID
	SecretID       uuid.UUID
	EncryptedValue string
	IV             string
	Version        uint
	ChangedBy      uuid.UUID
	CreatedAt      time.Time
}

// Domain-specific errors for secret operations.
var (
	// ErrSecretNotFound covers both a missing secret and one the caller has no
	// membership for.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret not found")

	// ErrSecretKeyExists indicates the environment already has a secret with
	// this key.
	ErrSecretKeyExists = errors.Wrap(errors.ErrConflict, "secret with this key already exists")

	// ErrVersionConflict indicates a concurrent update won the version race.
	ErrVersionConflict = errors.Wrap(errors.ErrConflict, "secret was modified concurrently")
)

// EnvironmentContext carries the ownership chain of an environment, resolved
// in one query for authorization and audit attribution.
type EnvironmentContext struct {
	EnvironmentID   uuid.UUID
	EnvironmentName string
	ProjectID       uuid.UUID
	ProjectName     string
	TeamID          uuid.UUID
}
