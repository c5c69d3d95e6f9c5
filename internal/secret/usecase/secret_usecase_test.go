package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/cosecrets/cosecrets/internal/audit/domain"
	cryptoService "github.com/cosecrets/cosecrets/internal/crypto/service"
	apperrors "github.com/cosecrets/cosecrets/internal/errors"
	"github.com/cosecrets/cosecrets/internal/identity"
	projectDomain "github.com/cosecrets/cosecrets/internal/project/domain"
	"github.com/cosecrets/cosecrets/internal/secret/domain"
	teamDomain "github.com/cosecrets/cosecrets/internal/team/domain"
)

type secretTestDeps struct {
	txManager   *MockTxManager
	secretRepo  *MockSecretRepository
	historyRepo *MockSecretHistoryRepository
	encryptor   cryptoService.Encryptor
	access      *MockAccessResolver
	recorder    *MockRecorder
}

func newTestSecretUseCase(t *testing.T) (SecretUseCase, *secretTestDeps) {
	t.Helper()

	encryptor, err := cryptoService.NewAESGCMEncryptor("test-key-material")
	require.NoError(t, err)

	deps := &secretTestDeps{
		txManager:   &MockTxManager{},
		secretRepo:  &MockSecretRepository{},
		historyRepo: &MockSecretHistoryRepository{},
		encryptor:   encryptor,
		access:      &MockAccessResolver{},
		recorder:    &MockRecorder{},
	}
	useCase := NewSecretUseCase(
		deps.txManager,
		deps.secretRepo,
		deps.historyRepo,
		deps.encryptor,
		deps.access,
		deps.recorder,
	)
	return useCase, deps
}

func TestSecretUseCase_Create(t *testing.T) {
	ctx := context.Background()
	useCase, deps := newTestSecretUseCase(t)

	actor := identity.Session(uuid.Must(uuid.NewV7()))
	envID := uuid.Must(uuid.NewV7())
	teamID := uuid.Must(uuid.NewV7())

	envCtx := &domain.EnvironmentContext{
		EnvironmentID:   envID,
		EnvironmentName: "Production",
		ProjectID:       uuid.Must(uuid.NewV7()),
		ProjectName:     "Billing",
		TeamID:          teamID,
	}
	member := &teamDomain.TeamMember{TeamID: teamID, UserID: actor.UserID, Role: teamDomain.RoleMember}

	deps.secretRepo.On("ResolveEnvironment", ctx, envID).Return(envCtx, nil)
	deps.access.On("Authorize", ctx, actor.UserID, teamID, teamDomain.ActionSecretCreate).
		Return(member, nil)
	deps.secretRepo.On("Create", ctx, mock.AnythingOfType("*domain.Secret")).Return(nil)

	var recorded *auditDomain.Entry
	deps.recorder.On("Record", ctx, mock.AnythingOfType("*domain.Entry")).
		Run(func(args mock.Arguments) {
			recorded = args.Get(1).(*auditDomain.Entry)
		}).
		Return()

	plaintext := "postgres://user:hunter2@db:5432/billing"
	secret, err := useCase.Create(ctx, CreateSecretInput{
		EnvironmentID: envID,
		Key:           "DATABASE_URL",
		Value:         plaintext,
		Actor:         actor,
	})
	require.NoError(t, err)

	assert.Equal(t, uint(1), secret.Version)
	assert.Equal(t, "DATABASE_URL", secret.Key)
	assert.NotEmpty(t, secret.EncryptedValue)
	assert.NotEmpty(t, secret.IV)
	assert.NotContains(t, secret.EncryptedValue, plaintext)

	// The stored ciphertext must round-trip back to the plaintext.
	decrypted, err := deps.encryptor.Decrypt(secret.EncryptedValue, secret.IV)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)

	// The audit entry carries the key but never the value.
	require.NotNil(t, recorded)
	assert.Equal(t, auditDomain.ActionSecretCreate, recorded.Action)
	assert.NotContains(t, fmt.Sprintf("%v", recorded.Details), plaintext)

	deps.secretRepo.AssertExpectations(t)
	deps.recorder.AssertExpectations(t)
}

func TestSecretUseCase_Create_EmptyKey(t *testing.T) {
	ctx := context.Background()
	useCase, _ := newTestSecretUseCase(t)

	_, err := useCase.Create(ctx, CreateSecretInput{
		EnvironmentID: uuid.Must(uuid.NewV7()),
		Key:           "",
		Value:         "value",
		Actor:         identity.Session(uuid.Must(uuid.NewV7())),
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestSecretUseCase_Create_NonMemberSeesMissingEnvironment(t *testing.T) {
	ctx := context.Background()
	useCase, deps := newTestSecretUseCase(t)

	actor := identity.Session(uuid.Must(uuid.NewV7()))
	envID := uuid.Must(uuid.NewV7())
	teamID := uuid.Must(uuid.NewV7())

	envCtx := &domain.EnvironmentContext{EnvironmentID: envID, TeamID: teamID}
	deps.secretRepo.On("ResolveEnvironment", ctx, envID).Return(envCtx, nil)
	deps.access.On("Authorize", ctx, actor.UserID, teamID, teamDomain.ActionSecretCreate).
		Return(nil, teamDomain.ErrNotMember)

	_, err := useCase.Create(ctx, CreateSecretInput{
		EnvironmentID: envID,
		Key:           "API_KEY",
		Value:         "value",
		Actor:         actor,
	})

	// Non-members must not learn the environment exists.
	assert.ErrorIs(t, err, projectDomain.ErrEnvironmentNotFound)
	assert.NotErrorIs(t, err, apperrors.ErrForbidden)
}

func TestSecretUseCase_Read(t *testing.T) {
	ctx := context.Background()
	useCase, deps := newTestSecretUseCase(t)

	actor := identity.Session(uuid.Must(uuid.NewV7()))
	teamID := uuid.Must(uuid.NewV7())
	plaintext := "sk_live_abc123"

	ciphertext, iv, err := deps.encryptor.Encrypt(plaintext)
	require.NoError(t, err)

	secret := &domain.Secret{
		ID:             uuid.Must(uuid.NewV7()),
		Key:            "STRIPE_KEY",
		EncryptedValue: ciphertext,
		IV:             iv,
		Version:        3,
		TeamID:         teamID,
	}
	member := &teamDomain.TeamMember{TeamID: teamID, UserID: actor.UserID, Role: teamDomain.RoleMember}
	history := []*domain.SecretHistory{{SecretID: secret.ID, Version: 2}}

	deps.secretRepo.On("Get", ctx, secret.ID).Return(secret, nil)
	deps.access.On("Authorize", ctx, actor.UserID, teamID, teamDomain.ActionSecretRead).
		Return(member, nil)
	deps.historyRepo.On("ListBySecret", ctx, secret.ID, historyLimit).Return(history, nil)
	deps.recorder.On("Record", ctx, mock.MatchedBy(func(entry *auditDomain.Entry) bool {
		return entry.Action == auditDomain.ActionSecretRead
	})).Return()

	output, err := useCase.Read(ctx, secret.ID, actor, auditDomain.Origin{})
	require.NoError(t, err)
	assert.Equal(t, plaintext, output.Secret.Value)
	assert.Equal(t, history, output.History)

	deps.recorder.AssertExpectations(t)
}

func TestSecretUseCase_Read_NonMemberSeesMissingSecret(t *testing.T) {
	ctx := context.Background()
	useCase, deps := newTestSecretUseCase(t)

	actor := identity.Session(uuid.Must(uuid.NewV7()))
	teamID := uuid.Must(uuid.NewV7())
	secret := &domain.Secret{ID: uuid.Must(uuid.NewV7()), TeamID: teamID}

	deps.secretRepo.On("Get", ctx, secret.ID).Return(secret, nil)
	deps.access.On("Authorize", ctx, actor.UserID, teamID, teamDomain.ActionSecretRead).
		Return(nil, teamDomain.ErrNotMember)

	_, err := useCase.Read(ctx, secret.ID, actor, auditDomain.Origin{})
	assert.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestSecretUseCase_Read_TamperedCiphertext(t *testing.T) {
	ctx := context.Background()
	useCase, deps := newTestSecretUseCase(t)

	actor := identity.Session(uuid.Must(uuid.NewV7()))
	teamID := uuid.Must(uuid.NewV7())

	secret := &domain.Secret{
		ID:             uuid.Must(uuid.NewV7()),
		EncryptedValue: "deadbeefdeadbeef",
		IV:             "00000000000000000000000000000000",
		TeamID:         teamID,
	}
	member := &teamDomain.TeamMember{TeamID: teamID, UserID: actor.UserID, Role: teamDomain.RoleMember}

	deps.secretRepo.On("Get", ctx, secret.ID).Return(secret, nil)
	deps.access.On("Authorize", ctx, actor.UserID, teamID, teamDomain.ActionSecretRead).
		Return(member, nil)

	_, err := useCase.Read(ctx, secret.ID, actor, auditDomain.Origin{})
	assert.ErrorIs(t, err, apperrors.ErrIntegrity)
}

func TestSecretUseCase_Update_Value(t *testing.T) {
	ctx := context.Background()
	useCase, deps := newTestSecretUseCase(t)

	actor := identity.Session(uuid.Must(uuid.NewV7()))
	teamID := uuid.Must(uuid.NewV7())

	oldCiphertext, oldIV, err := deps.encryptor.Encrypt("old-value")
	require.NoError(t, err)

	secret := &domain.Secret{
		ID:             uuid.Must(uuid.NewV7()),
		Key:            "API_KEY",
		EncryptedValue: oldCiphertext,
		IV:             oldIV,
		Version:        2,
		TeamID:         teamID,
	}
	member := &teamDomain.TeamMember{TeamID: teamID, UserID: actor.UserID, Role: teamDomain.RoleMember}

	deps.secretRepo.On("Get", ctx, secret.ID).Return(secret, nil)
	deps.access.On("Authorize", ctx, actor.UserID, teamID, teamDomain.ActionSecretUpdate).
		Return(member, nil)
	deps.txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	deps.secretRepo.On("GetForUpdate", ctx, secret.ID).Return(secret, nil)

	// The snapshot must preserve the old ciphertext and version verbatim.
	deps.historyRepo.On("Create", ctx, mock.MatchedBy(func(history *domain.SecretHistory) bool {
		return history.SecretID == secret.ID &&
			history.EncryptedValue == oldCiphertext &&
			history.IV == oldIV &&
			history.Version == 2 &&
			history.ChangedBy == actor.UserID
	})).Return(nil)

	// The version guard carries the version read under the row lock.
	deps.secretRepo.On(
		"UpdateValue", ctx, secret.ID,
		mock.AnythingOfType("string"), mock.AnythingOfType("string"), uint(2),
	).Return(nil)

	var recorded *auditDomain.Entry
	deps.recorder.On("Record", ctx, mock.AnythingOfType("*domain.Entry")).
		Run(func(args mock.Arguments) {
			recorded = args.Get(1).(*auditDomain.Entry)
		}).
		Return()

	newValue := "new-value"
	updated, err := useCase.Update(ctx, UpdateSecretInput{
		SecretID: secret.ID,
		Value:    &newValue,
		Actor:    actor,
	})
	require.NoError(t, err)

	assert.Equal(t, uint(3), updated.Version)

	decrypted, err := deps.encryptor.Decrypt(updated.EncryptedValue, updated.IV)
	require.NoError(t, err)
	assert.Equal(t, newValue, decrypted)

	require.NotNil(t, recorded)
	assert.Equal(t, true, recorded.Details["value_changed"])
	assert.NotContains(t, fmt.Sprintf("%v", recorded.Details), newValue)

	deps.historyRepo.AssertExpectations(t)
	deps.secretRepo.AssertExpectations(t)
}

func TestSecretUseCase_Update_DescriptionOnly(t *testing.T) {
	ctx := context.Background()
	useCase, deps := newTestSecretUseCase(t)

	actor := identity.Session(uuid.Must(uuid.NewV7()))
	teamID := uuid.Must(uuid.NewV7())
	secret := &domain.Secret{ID: uuid.Must(uuid.NewV7()), Version: 4, TeamID: teamID}
	member := &teamDomain.TeamMember{TeamID: teamID, UserID: actor.UserID, Role: teamDomain.RoleMember}

	deps.secretRepo.On("Get", ctx, secret.ID).Return(secret, nil)
	deps.access.On("Authorize", ctx, actor.UserID, teamID, teamDomain.ActionSecretUpdate).
		Return(member, nil)
	deps.txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	deps.secretRepo.On("UpdateDescription", ctx, secret.ID, "rotated quarterly").Return(nil)
	deps.recorder.On("Record", ctx, mock.AnythingOfType("*domain.Entry")).Return()

	description := "rotated quarterly"
	updated, err := useCase.Update(ctx, UpdateSecretInput{
		SecretID:    secret.ID,
		Description: &description,
		Actor:       actor,
	})
	require.NoError(t, err)

	// A description-only change never bumps the version or touches history.
	assert.Equal(t, uint(4), updated.Version)
	deps.historyRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	deps.secretRepo.AssertNotCalled(t, "UpdateValue",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSecretUseCase_Update_NothingToUpdate(t *testing.T) {
	ctx := context.Background()
	useCase, _ := newTestSecretUseCase(t)

	_, err := useCase.Update(ctx, UpdateSecretInput{
		SecretID: uuid.Must(uuid.NewV7()),
		Actor:    identity.Session(uuid.Must(uuid.NewV7())),
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestSecretUseCase_Update_VersionConflict(t *testing.T) {
	ctx := context.Background()
	useCase, deps := newTestSecretUseCase(t)

	actor := identity.Session(uuid.Must(uuid.NewV7()))
	teamID := uuid.Must(uuid.NewV7())
	secret := &domain.Secret{ID: uuid.Must(uuid.NewV7()), Version: 1, TeamID: teamID}
	member := &teamDomain.TeamMember{TeamID: teamID, UserID: actor.UserID, Role: teamDomain.RoleMember}

	deps.secretRepo.On("Get", ctx, secret.ID).Return(secret, nil)
	deps.access.On("Authorize", ctx, actor.UserID, teamID, teamDomain.ActionSecretUpdate).
		Return(member, nil)
	deps.txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	deps.secretRepo.On("GetForUpdate", ctx, secret.ID).Return(secret, nil)
	deps.historyRepo.On("Create", ctx, mock.AnythingOfType("*domain.SecretHistory")).Return(nil)
	deps.secretRepo.On(
		"UpdateValue", ctx, secret.ID,
		mock.AnythingOfType("string"), mock.AnythingOfType("string"), uint(1),
	).Return(domain.ErrVersionConflict)

	newValue := "contested"
	_, err := useCase.Update(ctx, UpdateSecretInput{
		SecretID: secret.ID,
		Value:    &newValue,
		Actor:    actor,
	})
	assert.ErrorIs(t, err, domain.ErrVersionConflict)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestSecretUseCase_Delete_RequiresAdmin(t *testing.T) {
	ctx := context.Background()
	useCase, deps := newTestSecretUseCase(t)

	actor := identity.Session(uuid.Must(uuid.NewV7()))
	teamID := uuid.Must(uuid.NewV7())
	secret := &domain.Secret{ID: uuid.Must(uuid.NewV7()), TeamID: teamID}
	forbidden := apperrors.Wrap(apperrors.ErrForbidden, "insufficient role for action")

	deps.secretRepo.On("Get", ctx, secret.ID).Return(secret, nil)
	deps.access.On("Authorize", ctx, actor.UserID, teamID, teamDomain.ActionSecretDelete).
		Return(nil, forbidden)

	err := useCase.Delete(ctx, DeleteSecretInput{SecretID: secret.ID, Actor: actor})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	deps.secretRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestSecretUseCase_Delete(t *testing.T) {
	ctx := context.Background()
	useCase, deps := newTestSecretUseCase(t)

	actor := identity.Session(uuid.Must(uuid.NewV7()))
	teamID := uuid.Must(uuid.NewV7())
	secret := &domain.Secret{ID: uuid.Must(uuid.NewV7()), Key: "API_KEY", TeamID: teamID}
	admin := &teamDomain.TeamMember{TeamID: teamID, UserID: actor.UserID, Role: teamDomain.RoleAdmin}

	deps.secretRepo.On("Get", ctx, secret.ID).Return(secret, nil)
	deps.access.On("Authorize", ctx, actor.UserID, teamID, teamDomain.ActionSecretDelete).
		Return(admin, nil)
	deps.secretRepo.On("Delete", ctx, secret.ID).Return(nil)
	deps.recorder.On("Record", ctx, mock.MatchedBy(func(entry *auditDomain.Entry) bool {
		return entry.Action == auditDomain.ActionSecretDelete
	})).Return()

	err := useCase.Delete(ctx, DeleteSecretInput{SecretID: secret.ID, Actor: actor})
	require.NoError(t, err)

	deps.secretRepo.AssertExpectations(t)
	deps.recorder.AssertExpectations(t)
}

func TestSecretUseCase_List(t *testing.T) {
	ctx := context.Background()
	useCase, deps := newTestSecretUseCase(t)

	actor := identity.Session(uuid.Must(uuid.NewV7()))

	ciphertext1, iv1, err := deps.encryptor.Encrypt("value-one")
	require.NoError(t, err)
	ciphertext2, iv2, err := deps.encryptor.Encrypt("value-two")
	require.NoError(t, err)

	secrets := []*domain.Secret{
		{ID: uuid.Must(uuid.NewV7()), Key: "A", EncryptedValue: ciphertext1, IV: iv1},
		{ID: uuid.Must(uuid.NewV7()), Key: "B", EncryptedValue: ciphertext2, IV: iv2},
	}

	deps.secretRepo.On("List", ctx, actor.UserID, ListSecretsFilter{}).Return(secrets, nil)
	deps.recorder.On("Record", ctx, mock.AnythingOfType("*domain.Entry")).Return()

	got, err := useCase.List(ctx, actor, ListSecretsFilter{}, auditDomain.Origin{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "value-one", got[0].Value)
	assert.Equal(t, "value-two", got[1].Value)
}
