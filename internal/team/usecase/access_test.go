package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/cosecrets/cosecrets/internal/errors"
	teamDomain "github.com/cosecrets/cosecrets/internal/team/domain"
)

func TestAccessResolver_Authorize_Allowed(t *testing.T) {
	ctx := context.Background()
	membershipRepo := &MockMembershipRepository{}
	resolver := NewAccessResolver(membershipRepo)

	teamID := uuid.Must(uuid.NewV7())
	userID := uuid.Must(uuid.NewV7())
	member := &teamDomain.TeamMember{
		TeamID: teamID,
		UserID: userID,
		Role:   teamDomain.RoleAdmin,
	}

	membershipRepo.On("Get", ctx, teamID, userID).Return(member, nil)

	got, err := resolver.Authorize(ctx, userID, teamID, teamDomain.ActionProjectCreate)
	require.NoError(t, err)
	assert.Equal(t, member, got)

	membershipRepo.AssertExpectations(t)
}

func TestAccessResolver_Authorize_InsufficientRole(t *testing.T) {
	ctx := context.Background()
	membershipRepo := &MockMembershipRepository{}
	resolver := NewAccessResolver(membershipRepo)

	teamID := uuid.Must(uuid.NewV7())
	userID := uuid.Must(uuid.NewV7())
	member := &teamDomain.TeamMember{
		TeamID: teamID,
		UserID: userID,
		Role:   teamDomain.RoleMember,
	}

	membershipRepo.On("Get", ctx, teamID, userID).Return(member, nil)

	got, err := resolver.Authorize(ctx, userID, teamID, teamDomain.ActionSecretDelete)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.NotErrorIs(t, err, teamDomain.ErrNotMember)
}

func TestAccessResolver_Authorize_NotMember(t *testing.T) {
	ctx := context.Background()
	membershipRepo := &MockMembershipRepository{}
	resolver := NewAccessResolver(membershipRepo)

	teamID := uuid.Must(uuid.NewV7())
	userID := uuid.Must(uuid.NewV7())

	membershipRepo.On("Get", ctx, teamID, userID).Return(nil, teamDomain.ErrMemberNotFound)

	got, err := resolver.Authorize(ctx, userID, teamID, teamDomain.ActionTeamRead)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, teamDomain.ErrNotMember)
}

func TestAccessResolver_Authorize_RepositoryError(t *testing.T) {
	ctx := context.Background()
	membershipRepo := &MockMembershipRepository{}
	resolver := NewAccessResolver(membershipRepo)

	teamID := uuid.Must(uuid.NewV7())
	userID := uuid.Must(uuid.NewV7())
	dbError := errors.New("connection refused")

	membershipRepo.On("Get", ctx, teamID, userID).Return(nil, dbError)

	got, err := resolver.Authorize(ctx, userID, teamID, teamDomain.ActionTeamRead)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, dbError)
}

func TestAccessResolver_Authorize_RoleMatrix(t *testing.T) {
	tests := []struct {
		name    string
		role    teamDomain.Role
		action  teamDomain.Action
		allowed bool
	}{
		{"MemberReadsSecret", teamDomain.RoleMember, teamDomain.ActionSecretRead, true},
		{"MemberCreatesSecret", teamDomain.RoleMember, teamDomain.ActionSecretCreate, true},
		{"MemberDeletesSecret", teamDomain.RoleMember, teamDomain.ActionSecretDelete, false},
		{"MemberCreatesProject", teamDomain.RoleMember, teamDomain.ActionProjectCreate, false},
		{"AdminDeletesSecret", teamDomain.RoleAdmin, teamDomain.ActionSecretDelete, true},
		{"AdminDeletesProject", teamDomain.RoleAdmin, teamDomain.ActionProjectDelete, false},
		{"AdminManagesMembers", teamDomain.RoleAdmin, teamDomain.ActionTeamManageMembers, false},
		{"OwnerDeletesProject", teamDomain.RoleOwner, teamDomain.ActionProjectDelete, true},
		{"OwnerManagesMembers", teamDomain.RoleOwner, teamDomain.ActionTeamManageMembers, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			membershipRepo := &MockMembershipRepository{}
			resolver := NewAccessResolver(membershipRepo)

			teamID := uuid.Must(uuid.NewV7())
			userID := uuid.Must(uuid.NewV7())
			member := &teamDomain.TeamMember{TeamID: teamID, UserID: userID, Role: tt.role}

			membershipRepo.On("Get", ctx, teamID, userID).Return(member, nil)

			_, err := resolver.Authorize(ctx, userID, teamID, tt.action)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, apperrors.ErrForbidden)
			}
		})
	}
}
