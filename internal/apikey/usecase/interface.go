// Package usecase implements business logic for issuing, listing, revoking,
// and authenticating API keys.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cosecrets/cosecrets/internal/apikey/domain"
	auditDomain "github.com/cosecrets/cosecrets/internal/audit/domain"
	"github.com/cosecrets/cosecrets/internal/identity"
)

// ApiKeyRepository defines the interface for API key persistence.
type ApiKeyRepository interface {
	Create(ctx context.Context, key *domain.ApiKey) error
	Get(ctx context.Context, id uuid.UUID) (*domain.ApiKey, error)
	GetByKeyHash(ctx context.Context, keyHash string) (*domain.ApiKey, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.ApiKey, error)
	UpdateLastUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// IssueApiKeyInput contains the parameters for issuing a new API key.
type IssueApiKeyInput struct {
	Name          string
	Permissions   []string
	ExpiresInDays *int
	Actor         identity.Identity
	Origin        auditDomain.Origin
}

// IssueApiKeyOutput carries the issued key. PlainKey is shown exactly once
// and never persisted.
type IssueApiKeyOutput struct {
	ApiKey   *domain.ApiKey
	PlainKey string
}

// RevokeApiKeyInput identifies the key to revoke.
type RevokeApiKeyInput struct {
	KeyID  uuid.UUID
	Actor  identity.Identity
	Origin auditDomain.Origin
}

// ApiKeyUseCase defines the interface for API key business logic.
type ApiKeyUseCase interface {
	// Issue creates a new key for the actor. The plaintext key appears only in
	// the returned output.
	Issue(ctx context.Context, input IssueApiKeyInput) (*IssueApiKeyOutput, error)

	// List returns the actor's keys, metadata only, newest first.
	List(ctx context.Context, actor identity.Identity) ([]*domain.ApiKey, error)

	// Revoke deletes a key owned by the actor. Keys owned by other users are
	// reported as not found.
	Revoke(ctx context.Context, input RevokeApiKeyInput) error

	// Authenticate resolves a plaintext key to an identity. Unknown and
	// expired keys both yield ErrInvalidApiKey.
	Authenticate(ctx context.Context, plainKey string) (identity.Identity, error)
}
