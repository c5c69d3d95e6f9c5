package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	auditDomain "github.com/cosecrets/cosecrets/internal/audit/domain"
	auditUsecase "github.com/cosecrets/cosecrets/internal/audit/usecase"
	cryptoService "github.com/cosecrets/cosecrets/internal/crypto/service"
	"github.com/cosecrets/cosecrets/internal/database"
	apperrors "github.com/cosecrets/cosecrets/internal/errors"
	"github.com/cosecrets/cosecrets/internal/identity"
	projectDomain "github.com/cosecrets/cosecrets/internal/project/domain"
	"github.com/cosecrets/cosecrets/internal/secret/domain"
	teamDomain "github.com/cosecrets/cosecrets/internal/team/domain"
	teamUsecase "github.com/cosecrets/cosecrets/internal/team/usecase"
	appValidation "github.com/cosecrets/cosecrets/internal/validation"
)

// historyLimit caps the history metadata returned on read.
const historyLimit = 10

// secretUseCase implements the SecretUseCase interface.
type secretUseCase struct {
	txManager   database.TxManager
	secretRepo  SecretRepository
	historyRepo SecretHistoryRepository
	encryptor   cryptoService.Encryptor
	access      teamUsecase.AccessResolver
	recorder    auditUsecase.Recorder
}

// Create encrypts and stores a new secret at version 1.
func (s *secretUseCase) Create(ctx context.Context, input CreateSecretInput) (*domain.Secret, error) {
	err := validation.Errors{
		"key": validation.Validate(input.Key,
			validation.Required.Error("key is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("key must be between 1 and 255 characters"),
		),
	}.Filter()
	if err != nil {
		return nil, appValidation.WrapValidationError(err)
	}

	envCtx, err := s.secretRepo.ResolveEnvironment(ctx, input.EnvironmentID)
	if err != nil {
		return nil, err
	}

	if _, err := s.access.Authorize(
		ctx, input.Actor.UserID, envCtx.TeamID, teamDomain.ActionSecretCreate,
	); err != nil {
		if errors.Is(err, teamDomain.ErrNotMember) {
			return nil, projectDomain.ErrEnvironmentNotFound
		}
		return nil, err
	}

	ciphertext, iv, err := s.encryptor.Encrypt(input.Value)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	secret := &domain.Secret{
		ID:              uuid.Must(uuid.NewV7()),
		EnvironmentID:   input.EnvironmentID,
		UserID:          input.Actor.UserID,
		Key:             input.Key,
		EncryptedValue:  ciphertext,
		IV:              iv,
		Description:     input.Description,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
		TeamID:          envCtx.TeamID,
		EnvironmentName: envCtx.EnvironmentName,
		ProjectName:     envCtx.ProjectName,
	}

	if err := s.secretRepo.Create(ctx, secret); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, &auditDomain.Entry{
		Action:       auditDomain.ActionSecretCreate,
		ResourceType: "secret",
		ResourceID:   secret.ID.String(),
		UserID:       input.Actor.UserID,
		TeamID:       &envCtx.TeamID,
		APIKeyID:     input.Actor.APIKeyID,
		Details: map[string]any{
			"key":         secret.Key,
			"environment": envCtx.EnvironmentName,
			"project":     envCtx.ProjectName,
		},
		IPAddress: input.Origin.IPAddress,
		UserAgent: input.Origin.UserAgent,
	})

	return secret, nil
}

// Read decrypts a secret and returns recent history metadata.
func (s *secretUseCase) Read(
	ctx context.Context,
	secretID uuid.UUID,
	actor identity.Identity,
	origin auditDomain.Origin,
) (*ReadSecretOutput, error) {
	secret, err := s.authorizeSecret(ctx, secretID, actor, teamDomain.ActionSecretRead)
	if err != nil {
		return nil, err
	}

	plaintext, err := s.encryptor.Decrypt(secret.EncryptedValue, secret.IV)
	if err != nil {
		return nil, err
	}
	secret.Value = plaintext

	history, err := s.historyRepo.ListBySecret(ctx, secret.ID, historyLimit)
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, &auditDomain.Entry{
		Action:       auditDomain.ActionSecretRead,
		ResourceType: "secret",
		ResourceID:   secret.ID.String(),
		UserID:       actor.UserID,
		TeamID:       &secret.TeamID,
		APIKeyID:     actor.APIKeyID,
		Details:      map[string]any{"key": secret.Key},
		IPAddress:    origin.IPAddress,
		UserAgent:    origin.UserAgent,
	})

	return &ReadSecretOutput{Secret: secret, History: history}, nil
}

// Update changes the value and/or description of a secret. The value path
// runs inside one transaction: lock the row, snapshot the old version to
// history, then bump the version guarded by the version read under the lock.
func (s *secretUseCase) Update(ctx context.Context, input UpdateSecretInput) (*domain.Secret, error) {
	if input.Value == nil && input.Description == nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "nothing to update")
	}

	secret, err := s.authorizeSecret(ctx, input.SecretID, input.Actor, teamDomain.ActionSecretUpdate)
	if err != nil {
		return nil, err
	}

	valueChanged := input.Value != nil

	err = s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if valueChanged {
			locked, err := s.secretRepo.GetForUpdate(txCtx, secret.ID)
			if err != nil {
				return err
			}

			snapshot := &domain.SecretHistory{
				ID:             uuid.Must(uuid.NewV7()),
				SecretID:       locked.ID,
				EncryptedValue: locked.EncryptedValue,
				IV:             locked.IV,
				Version:        locked.Version,
				ChangedBy:      input.Actor.UserID,
				CreatedAt:      time.Now().UTC(),
			}
			if err := s.historyRepo.Create(txCtx, snapshot); err != nil {
				return err
			}

			ciphertext, iv, err := s.encryptor.Encrypt(*input.Value)
			if err != nil {
				return err
			}
			if err := s.secretRepo.UpdateValue(txCtx, locked.ID, ciphertext, iv, locked.Version); err != nil {
				return err
			}

			secret.EncryptedValue = ciphertext
			secret.IV = iv
			secret.Version = locked.Version + 1
		}

		if input.Description != nil {
			if err := s.secretRepo.UpdateDescription(txCtx, secret.ID, *input.Description); err != nil {
				return err
			}
			secret.Description = *input.Description
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	secret.UpdatedAt = time.Now().UTC()

	s.recorder.Record(ctx, &auditDomain.Entry{
		Action:       auditDomain.ActionSecretUpdate,
		ResourceType: "secret",
		ResourceID:   secret.ID.String(),
		UserID:       input.Actor.UserID,
		TeamID:       &secret.TeamID,
		APIKeyID:     input.Actor.APIKeyID,
		Details:      map[string]any{"key": secret.Key, "value_changed": valueChanged},
		IPAddress:    input.Origin.IPAddress,
		UserAgent:    input.Origin.UserAgent,
	})

	return secret, nil
}

// Delete removes a secret. History rows go with it via the cascading foreign key.
func (s *secretUseCase) Delete(ctx context.Context, input DeleteSecretInput) error {
	secret, err := s.authorizeSecret(ctx, input.SecretID, input.Actor, teamDomain.ActionSecretDelete)
	if err != nil {
		return err
	}

	if err := s.secretRepo.Delete(ctx, secret.ID); err != nil {
		return err
	}

	s.recorder.Record(ctx, &auditDomain.Entry{
		Action:       auditDomain.ActionSecretDelete,
		ResourceType: "secret",
		ResourceID:   secret.ID.String(),
		UserID:       input.Actor.UserID,
		TeamID:       &secret.TeamID,
		APIKeyID:     input.Actor.APIKeyID,
		Details:      map[string]any{"key": secret.Key},
		IPAddress:    input.Origin.IPAddress,
		UserAgent:    input.Origin.UserAgent,
	})

	return nil
}

// List returns decrypted secrets visible to the actor. The membership join in
// the repository keeps unauthorized rows out of the result entirely, so there
// is no per-row authorization step.
func (s *secretUseCase) List(
	ctx context.Context,
	actor identity.Identity,
	filter ListSecretsFilter,
	origin auditDomain.Origin,
) ([]*domain.Secret, error) {
	secrets, err := s.secretRepo.List(ctx, actor.UserID, filter)
	if err != nil {
		return nil, err
	}

	for _, secret := range secrets {
		plaintext, err := s.encryptor.Decrypt(secret.EncryptedValue, secret.IV)
		if err != nil {
			return nil, err
		}
		secret.Value = plaintext
	}

	resourceID := "all"
	if filter.EnvironmentID != nil {
		resourceID = filter.EnvironmentID.String()
	} else if filter.ProjectID != nil {
		resourceID = filter.ProjectID.String()
	}

	s.recorder.Record(ctx, &auditDomain.Entry{
		Action:       auditDomain.ActionSecretRead,
		ResourceType: "secret",
		ResourceID:   resourceID,
		UserID:       actor.UserID,
		APIKeyID:     actor.APIKeyID,
		Details:      map[string]any{"count": len(secrets)},
		IPAddress:    origin.IPAddress,
		UserAgent:    origin.UserAgent,
	})

	return secrets, nil
}

// authorizeSecret fetches a secret and checks the actor's role on its owning
// team. A missing membership is reported as a missing secret.
func (s *secretUseCase) authorizeSecret(
	ctx context.Context,
	secretID uuid.UUID,
	actor identity.Identity,
	action teamDomain.Action,
) (*domain.Secret, error) {
	secret, err := s.secretRepo.Get(ctx, secretID)
	if err != nil {
		return nil, err
	}

	if _, err := s.access.Authorize(ctx, actor.UserID, secret.TeamID, action); err != nil {
		if errors.Is(err, teamDomain.ErrNotMember) {
			return nil, domain.ErrSecretNotFound
		}
		return nil, err
	}

	return secret, nil
}

// NewSecretUseCase creates a new secret use case instance with the provided dependencies.
func NewSecretUseCase(
	txManager database.TxManager,
	secretRepo SecretRepository,
	historyRepo SecretHistoryRepository,
	encryptor cryptoService.Encryptor,
	access teamUsecase.AccessResolver,
	recorder auditUsecase.Recorder,
) SecretUseCase {
	return &secretUseCase{
		txManager:   txManager,
		secretRepo:  secretRepo,
		historyRepo: historyRepo,
		encryptor:   encryptor,
		access:      access,
		recorder:    recorder,
	}
}
