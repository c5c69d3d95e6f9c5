// Package usecase implements the secret store engine: encrypted writes,
// versioned updates, access-controlled reads, and audit emission.
package usecase

import (
	"context"

	"github.com/google/uuid"

	auditDomain "github.com/cosecrets/cosecrets/internal/audit/domain"
	"github.com/cosecrets/cosecrets/internal/identity"
	"github.com/cosecrets/cosecrets/internal/secret/domain"
)

// SecretRepository defines the interface for secret persistence.
type SecretRepository interface {
	Create(ctx context.Context, secret *domain.Secret) error

	// Get returns a secret joined with its environment, project, and owning
	// team. The caller decides visibility; the repository never filters.
	Get(ctx context.Context, id uuid.UUID) (*domain.Secret, error)

	// GetForUpdate locks the secret row for the rest of the transaction.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Secret, error)

	// UpdateValue replaces the ciphertext and bumps the version, guarded by
	// the expected current version. Returns ErrVersionConflict when another
	// writer got there first.
	UpdateValue(ctx context.Context, id uuid.UUID, encryptedValue, iv string, expectedVersion uint) error

	UpdateDescription(ctx context.Context, id uuid.UUID, description string) error

	Delete(ctx context.Context, id uuid.UUID) error

	// List returns the secrets visible to a user through team membership,
	// narrowed to an environment or project, ordered by key.
	List(ctx context.Context, userID uuid.UUID, filter ListSecretsFilter) ([]*domain.Secret, error)

	// ResolveEnvironment walks an environment up to its project and team.
	ResolveEnvironment(ctx context.Context, environmentID uuid.UUID) (*domain.EnvironmentContext, error)
}

// SecretHistoryRepository defines the interface for version snapshots.
type SecretHistoryRepository interface {
	Create(ctx context.Context, history *domain.SecretHistory) error
	ListBySecret(ctx context.Context, secretID uuid.UUID, limit int) ([]*domain.SecretHistory, error)
}

// ListSecretsFilter narrows a secret listing. At most one of EnvironmentID
// and ProjectID is set; both nil lists everything the user can see.
type ListSecretsFilter struct {
	EnvironmentID *uuid.UUID
	ProjectID     *uuid.UUID
}

// CreateSecretInput contains the parameters for creating a secret.
type CreateSecretInput struct {
	EnvironmentID uuid.UUID
	Key           string
	Value         string
	Description   string
	Actor         identity.Identity
	Origin        auditDomain.Origin
}

// UpdateSecretInput contains the parameters for updating a secret. Nil fields
// are left unchanged; only a value change bumps the version.
type UpdateSecretInput struct {
	SecretID    uuid.UUID
	Value       *string
	Description *string
	Actor       identity.Identity
	Origin      auditDomain.Origin
}

// DeleteSecretInput identifies the secret to delete.
type DeleteSecretInput struct {
	SecretID uuid.UUID
	Actor    identity.Identity
	Origin   auditDomain.Origin
}

// ReadSecretOutput carries a decrypted secret and its version history metadata.
type ReadSecretOutput struct {
	Secret  *domain.Secret
	History []*domain.SecretHistory
}

// SecretUseCase defines the interface for the secret store engine.
type SecretUseCase interface {
	// Create encrypts and stores a new secret at version 1. Requires MEMBER
	// or above on the owning team; non-members see the environment as missing.
	Create(ctx context.Context, input CreateSecretInput) (*domain.Secret, error)

	// Read decrypts a secret and returns up to the 10 most recent history
	// entries' metadata.
	Read(ctx context.Context, secretID uuid.UUID, actor identity.Identity, origin auditDomain.Origin) (*ReadSecretOutput, error)

	// Update changes the value and/or description. A value change snapshots
	// the old version to history and increments the version atomically.
	Update(ctx context.Context, input UpdateSecretInput) (*domain.Secret, error)

	// Delete removes a secret and its history. Requires ADMIN or above.
	Delete(ctx context.Context, input DeleteSecretInput) error

	// List returns decrypted secrets visible to the actor, key ascending.
	List(ctx context.Context, actor identity.Identity, filter ListSecretsFilter, origin auditDomain.Origin) ([]*domain.Secret, error)
}
