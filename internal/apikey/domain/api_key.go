// Package domain defines the API key entities used for programmatic access.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/cosecrets/cosecrets/internal/errors"
)

// DefaultPermissions is granted when a key is issued without an explicit set.
var DefaultPermissions = []string{"read", "write"}

// ApiKey represents a long-lived credential owned by a user. Only the SHA-256
// digest of the key is stored; KeyPrefix is a short display fragment for
// identifying keys in listings.
type ApiKey struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	KeyHash     string
	KeyPrefix   string
	Permissions []string
	ExpiresAt   *time.Time
	LastUsedAt  *time.Time
	CreatedAt   time.Time
}

// Expired reports whether the key has an expiration in the past.
func (k *ApiKey) Expired(now time.Time) bool {
	return k.ExpiresAt != nil && k.ExpiresAt.Before(now)
}

// Domain-specific errors for API key operations.
var (
	// ErrApiKeyNotFound indicates the requested key does not exist or is not
	// owned by the caller.
	ErrApiKeyNotFound = errors.Wrap(errors.ErrNotFound, "api key not found")

	// ErrInvalidApiKey indicates the presented key did not authenticate.
	ErrInvalidApiKey = errors.Wrap(errors.ErrUnauthorized, "invalid api key")
)
