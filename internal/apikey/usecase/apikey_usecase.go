package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/cosecrets/cosecrets/internal/apikey/domain"
	auditDomain "github.com/cosecrets/cosecrets/internal/audit/domain"
	auditUsecase "github.com/cosecrets/cosecrets/internal/audit/usecase"
	cryptoService "github.com/cosecrets/cosecrets/internal/crypto/service"
	apperrors "github.com/cosecrets/cosecrets/internal/errors"
	"github.com/cosecrets/cosecrets/internal/identity"
	appValidation "github.com/cosecrets/cosecrets/internal/validation"
)

// apiKeyUseCase implements the ApiKeyUseCase interface.
type apiKeyUseCase struct {
	apiKeyRepo   ApiKeyRepository
	keyGenerator cryptoService.KeyGenerator
	recorder     auditUsecase.Recorder
	logger       *slog.Logger
}

// Issue creates a new API key for the actor.
func (a *apiKeyUseCase) Issue(ctx context.Context, input IssueApiKeyInput) (*IssueApiKeyOutput, error) {
	err := validation.Errors{
		"name": validation.Validate(input.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 100).Error("name must be between 1 and 100 characters"),
		),
	}.Filter()
	if err != nil {
		return nil, appValidation.WrapValidationError(err)
	}
	if input.ExpiresInDays != nil && *input.ExpiresInDays < 1 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "expires_in_days must be positive")
	}

	plainKey, prefix, digest, err := a.keyGenerator.GenerateAPIKey()
	if err != nil {
		return nil, err
	}

	permissions := input.Permissions
	if len(permissions) == 0 {
		permissions = domain.DefaultPermissions
	}

	var expiresAt *time.Time
	if input.ExpiresInDays != nil {
		t := time.Now().UTC().AddDate(0, 0, *input.ExpiresInDays)
		expiresAt = &t
	}

	key := &domain.ApiKey{
		ID:          uuid.Must(uuid.NewV7()),
		UserID:      input.Actor.UserID,
		Name:        input.Name,
		KeyHash:     digest,
		KeyPrefix:   prefix,
		Permissions: permissions,
		ExpiresAt:   expiresAt,
		CreatedAt:   time.Now().UTC(),
	}

	if err := a.apiKeyRepo.Create(ctx, key); err != nil {
		return nil, err
	}

	a.recorder.Record(ctx, &auditDomain.Entry{
		Action:       auditDomain.ActionAPIKeyCreate,
		ResourceType: "api_key",
		ResourceID:   key.ID.String(),
		UserID:       input.Actor.UserID,
		APIKeyID:     input.Actor.APIKeyID,
		Details:      map[string]any{"name": key.Name, "permissions": key.Permissions},
		IPAddress:    input.Origin.IPAddress,
		UserAgent:    input.Origin.UserAgent,
	})

	return &IssueApiKeyOutput{ApiKey: key, PlainKey: plainKey}, nil
}

// List returns the actor's keys.
func (a *apiKeyUseCase) List(ctx context.Context, actor identity.Identity) ([]*domain.ApiKey, error) {
	return a.apiKeyRepo.ListByUser(ctx, actor.UserID)
}

// Revoke deletes a key owned by the actor. Ownership is checked before the
// delete so another user's key id behaves exactly like a missing one.
func (a *apiKeyUseCase) Revoke(ctx context.Context, input RevokeApiKeyInput) error {
	key, err := a.apiKeyRepo.Get(ctx, input.KeyID)
	if err != nil {
		return err
	}
	if key.UserID != input.Actor.UserID {
		return domain.ErrApiKeyNotFound
	}

	if err := a.apiKeyRepo.Delete(ctx, key.ID); err != nil {
		return err
	}

	a.recorder.Record(ctx, &auditDomain.Entry{
		Action:       auditDomain.ActionAPIKeyRevoke,
		ResourceType: "api_key",
		ResourceID:   key.ID.String(),
		UserID:       input.Actor.UserID,
		APIKeyID:     input.Actor.APIKeyID,
		Details:      map[string]any{"name": key.Name},
		IPAddress:    input.Origin.IPAddress,
		UserAgent:    input.Origin.UserAgent,
	})

	return nil
}

// Authenticate resolves a plaintext key to an identity via digest lookup.
func (a *apiKeyUseCase) Authenticate(ctx context.Context, plainKey string) (identity.Identity, error) {
	digest := a.keyGenerator.HashIdentifier(plainKey)

	key, err := a.apiKeyRepo.GetByKeyHash(ctx, digest)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return identity.Identity{}, domain.ErrInvalidApiKey
		}
		return identity.Identity{}, err
	}

	now := time.Now().UTC()
	if key.Expired(now) {
		return identity.Identity{}, domain.ErrInvalidApiKey
	}

	// The authentication decision is already made; a failed last-used update
	// must not reverse it. context.WithoutCancel keeps the write alive past
	// request teardown.
	if err := a.apiKeyRepo.UpdateLastUsed(context.WithoutCancel(ctx), key.ID, now); err != nil {
		a.logger.Warn("api key last-used update failed",
			slog.String("api_key_id", key.ID.String()),
			slog.Any("error", err),
		)
	}

	return identity.APIKey(key.UserID, key.ID), nil
}

// NewApiKeyUseCase creates a new API key use case instance.
func NewApiKeyUseCase(
	apiKeyRepo ApiKeyRepository,
	keyGenerator cryptoService.KeyGenerator,
	recorder auditUsecase.Recorder,
	logger *slog.Logger,
) ApiKeyUseCase {
	return &apiKeyUseCase{
		apiKeyRepo:   apiKeyRepo,
		keyGenerator: keyGenerator,
		recorder:     recorder,
		logger:       logger,
	}
}
