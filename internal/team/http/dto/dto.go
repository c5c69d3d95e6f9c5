// Package dto provides data transfer objects for the team HTTP layer.
package dto

import (
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	teamDomain "github.com/cosecrets/cosecrets/internal/team/domain"
	appValidation "github.com/cosecrets/cosecrets/internal/validation"
)

// CreateTeamRequest represents the API request for creating a team.
type CreateTeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Validate validates the CreateTeamRequest.
func (r *CreateTeamRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 100).Error("name must be between 1 and 100 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// AddMemberRequest represents the API request for adding a team member.
type AddMemberRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}

// Validate validates the AddMemberRequest.
func (r *AddMemberRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.UserID, validation.Required.Error("user_id is required")),
		validation.Field(&r.Role, validation.Required.Error("role is required")),
	)
	return appValidation.WrapValidationError(err)
}

// UpdateMemberRequest represents the API request for changing a member's role.
type UpdateMemberRequest struct {
	Role string `json:"role"`
}

// Validate validates the UpdateMemberRequest.
func (r *UpdateMemberRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Role, validation.Required.Error("role is required")),
	)
	return appValidation.WrapValidationError(err)
}

// TeamResponse represents a team in API responses.
type TeamResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	OwnerID     uuid.UUID `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MemberResponse represents a team membership in API responses.
type MemberResponse struct {
	ID        uuid.UUID `json:"id"`
	TeamID    uuid.UUID `json:"team_id"`
	UserID    uuid.UUID `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ToTeamResponse converts a domain Team to its API representation.
func ToTeamResponse(team *teamDomain.Team) TeamResponse {
	return TeamResponse{
		ID:          team.ID,
		Name:        team.Name,
		Slug:        team.Slug,
		Description: team.Description,
		OwnerID:     team.OwnerID,
		CreatedAt:   team.CreatedAt,
		UpdatedAt:   team.UpdatedAt,
	}
}

// ToTeamListResponse converts a list of teams to API representations.
func ToTeamListResponse(teams []*teamDomain.Team) []TeamResponse {
	responses := make([]TeamResponse, 0, len(teams))
	for _, team := range teams {
		responses = append(responses, ToTeamResponse(team))
	}
	return responses
}

// ToMemberResponse converts a domain TeamMember to its API representation.
func ToMemberResponse(member *teamDomain.TeamMember) MemberResponse {
	return MemberResponse{
		ID:        member.ID,
		TeamID:    member.TeamID,
		UserID:    member.UserID,
		Role:      string(member.Role),
		CreatedAt: member.CreatedAt,
	}
}

// ToMemberListResponse converts a list of members to API representations.
func ToMemberListResponse(members []*teamDomain.TeamMember) []MemberResponse {
	responses := make([]MemberResponse, 0, len(members))
	for _, member := range members {
		responses = append(responses, ToMemberResponse(member))
	}
	return responses
}
