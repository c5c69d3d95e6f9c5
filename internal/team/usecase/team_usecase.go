package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/cosecrets/cosecrets/internal/audit/domain"
	auditUsecase "github.com/cosecrets/cosecrets/internal/audit/usecase"
	"github.com/cosecrets/cosecrets/internal/database"
	apperrors "github.com/cosecrets/cosecrets/internal/errors"
	"github.com/cosecrets/cosecrets/internal/identity"
	"github.com/cosecrets/cosecrets/internal/slug"
	teamDomain "github.com/cosecrets/cosecrets/internal/team/domain"
)

const slugSuffixAttempts = 5

// teamUseCase implements the TeamUseCase interface for team management.
type teamUseCase struct {
	txManager      database.TxManager
	teamRepo       TeamRepository
	membershipRepo MembershipRepository
	access         AccessResolver
	recorder       auditUsecase.Recorder
}

// Create creates a team with a unique slug and enrolls the creator as OWNER.
func (t *teamUseCase) Create(ctx context.Context, input CreateTeamInput) (*teamDomain.Team, error) {
	teamSlug, err := t.uniqueSlug(ctx, input.Name)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	team := &teamDomain.Team{
		ID:          uuid.Must(uuid.NewV7()),
		Name:        input.Name,
		Slug:        teamSlug,
		Description: input.Description,
		OwnerID:     input.Actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	ownerMember := &teamDomain.TeamMember{
		ID:        uuid.Must(uuid.NewV7()),
		TeamID:    team.ID,
		UserID:    input.Actor.UserID,
		Role:      teamDomain.RoleOwner,
		CreatedAt: now,
	}

	err = t.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := t.teamRepo.Create(txCtx, team); err != nil {
			return err
		}
		return t.membershipRepo.Create(txCtx, ownerMember)
	})
	if err != nil {
		return nil, err
	}

	t.recorder.Record(ctx, &auditDomain.Entry{
		Action:       auditDomain.ActionTeamCreate,
		ResourceType: "team",
		ResourceID:   team.ID.String(),
		UserID:       input.Actor.UserID,
		TeamID:       &team.ID,
		APIKeyID:     input.Actor.APIKeyID,
		Details:      map[string]any{"name": team.Name, "slug": team.Slug},
		IPAddress:    input.Origin.IPAddress,
		UserAgent:    input.Origin.UserAgent,
	})

	return team, nil
}

// List returns the teams the actor belongs to.
func (t *teamUseCase) List(ctx context.Context, actor identity.Identity) ([]*teamDomain.Team, error) {
	return t.teamRepo.ListByUser(ctx, actor.UserID)
}

// ListMembers returns the members of a team the actor belongs to.
func (t *teamUseCase) ListMembers(
	ctx context.Context,
	teamID uuid.UUID,
	actor identity.Identity,
) ([]*teamDomain.TeamMember, error) {
	if _, err := t.access.Authorize(ctx, actor.UserID, teamID, teamDomain.ActionTeamRead); err != nil {
		return nil, err
	}
	return t.membershipRepo.List(ctx, teamID)
}

// AddMember adds a user to a team with the given role.
func (t *teamUseCase) AddMember(ctx context.Context, input MemberInput) (*teamDomain.TeamMember, error) {
	if !input.Role.IsValid() {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "invalid role")
	}

	if _, err := t.access.Authorize(
		ctx, input.Actor.UserID, input.TeamID, teamDomain.ActionTeamManageMembers,
	); err != nil {
		return nil, err
	}

	if _, err := t.membershipRepo.Get(ctx, input.TeamID, input.UserID); err == nil {
		return nil, teamDomain.ErrMemberExists
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	member := &teamDomain.TeamMember{
		ID:        uuid.Must(uuid.NewV7()),
		TeamID:    input.TeamID,
		UserID:    input.UserID,
		Role:      input.Role,
		CreatedAt: time.Now().UTC(),
	}
	if err := t.membershipRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	t.recordMemberAction(ctx, auditDomain.ActionMemberAdd, input, map[string]any{
		"member_user_id": input.UserID.String(),
		"role":           string(input.Role),
	})

	return member, nil
}

// UpdateMemberRole changes a member's role within a team.
func (t *teamUseCase) UpdateMemberRole(ctx context.Context, input MemberInput) error {
	if !input.Role.IsValid() {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "invalid role")
	}

	if _, err := t.access.Authorize(
		ctx, input.Actor.UserID, input.TeamID, teamDomain.ActionTeamManageMembers,
	); err != nil {
		return err
	}

	team, err := t.teamRepo.Get(ctx, input.TeamID)
	if err != nil {
		return err
	}
	if team.OwnerID == input.UserID {
		return teamDomain.ErrOwnerImmutable
	}

	if _, err := t.membershipRepo.Get(ctx, input.TeamID, input.UserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return teamDomain.ErrMemberNotFound
		}
		return err
	}

	if err := t.membershipRepo.UpdateRole(ctx, input.TeamID, input.UserID, input.Role); err != nil {
		return err
	}

	t.recordMemberAction(ctx, auditDomain.ActionMemberUpdate, input, map[string]any{
		"member_user_id": input.UserID.String(),
		"role":           string(input.Role),
	})

	return nil
}

// RemoveMember removes a user from a team.
func (t *teamUseCase) RemoveMember(ctx context.Context, input MemberInput) error {
	if _, err := t.access.Authorize(
		ctx, input.Actor.UserID, input.TeamID, teamDomain.ActionTeamManageMembers,
	); err != nil {
		return err
	}

	team, err := t.teamRepo.Get(ctx, input.TeamID)
	if err != nil {
		return err
	}
	if team.OwnerID == input.UserID {
		return teamDomain.ErrOwnerImmutable
	}

	if _, err := t.membershipRepo.Get(ctx, input.TeamID, input.UserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return teamDomain.ErrMemberNotFound
		}
		return err
	}

	if err := t.membershipRepo.Delete(ctx, input.TeamID, input.UserID); err != nil {
		return err
	}

	t.recordMemberAction(ctx, auditDomain.ActionMemberRemove, input, map[string]any{
		"member_user_id": input.UserID.String(),
	})

	return nil
}

// recordMemberAction emits an audit entry for a membership mutation.
func (t *teamUseCase) recordMemberAction(
	ctx context.Context,
	action auditDomain.Action,
	input MemberInput,
	details map[string]any,
) {
	t.recorder.Record(ctx, &auditDomain.Entry{
		Action:       action,
		ResourceType: "team_member",
		ResourceID:   input.UserID.String(),
		UserID:       input.Actor.UserID,
		TeamID:       &input.TeamID,
		APIKeyID:     input.Actor.APIKeyID,
		Details:      details,
		IPAddress:    input.Origin.IPAddress,
		UserAgent:    input.Origin.UserAgent,
	})
}

// uniqueSlug derives a slug from the name, appending a random suffix when the
// plain form is already taken.
func (t *teamUseCase) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := slug.Make(name)

	exists, err := t.teamRepo.SlugExists(ctx, base)
	if err != nil {
		return "", err
	}
	if !exists {
		return base, nil
	}

	for range slugSuffixAttempts {
		suffix := make([]byte, 3)
		if _, err := rand.Read(suffix); err != nil {
			return "", fmt.Errorf("failed to generate slug suffix: %w", err)
		}
		candidate := base + "-" + hex.EncodeToString(suffix)

		exists, err := t.teamRepo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}

	return "", apperrors.Wrap(apperrors.ErrConflict, "could not allocate a unique team slug")
}

// NewTeamUseCase creates a new team use case instance with the provided dependencies.
func NewTeamUseCase(
	txManager database.TxManager,
	teamRepo TeamRepository,
	membershipRepo MembershipRepository,
	access AccessResolver,
	recorder auditUsecase.Recorder,
) TeamUseCase {
	return &teamUseCase{
		txManager:      txManager,
		teamRepo:       teamRepo,
		membershipRepo: membershipRepo,
		access:         access,
		recorder:       recorder,
	}
}
