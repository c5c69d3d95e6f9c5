// Package dto provides data transfer objects for the project HTTP layer.
package dto

import (
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/cosecrets/cosecrets/internal/project/domain"
	appValidation "github.com/cosecrets/cosecrets/internal/validation"
)

// CreateProjectRequest represents the API request for creating a project.
type CreateProjectRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	TeamID      uuid.UUID `json:"team_id"`
}

// Validate validates the CreateProjectRequest.
func (r *CreateProjectRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 100).Error("name must be between 1 and 100 characters"),
		),
		validation.Field(&r.TeamID,
			validation.Required.Error("team_id is required"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// EnvironmentResponse represents an environment in API responses.
type EnvironmentResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// ProjectResponse represents a project in API responses.
type ProjectResponse struct {
	ID           uuid.UUID             `json:"id"`
	TeamID       uuid.UUID             `json:"team_id"`
	Name         string                `json:"name"`
	Slug         string                `json:"slug"`
	Description  string                `json:"description,omitempty"`
	Environments []EnvironmentResponse `json:"environments,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// ToProjectResponse converts a domain Project to its API representation.
func ToProjectResponse(project *domain.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:          project.ID,
		TeamID:      project.TeamID,
		Name:        project.Name,
		Slug:        project.Slug,
		Description: project.Description,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
	for _, env := range project.Environments {
		resp.Environments = append(resp.Environments, EnvironmentResponse{
			ID:        env.ID,
			Name:      env.Name,
			Slug:      env.Slug,
			CreatedAt: env.CreatedAt,
		})
	}
	return resp
}

// ToProjectListResponse converts a list of projects to API representations.
func ToProjectListResponse(projects []*domain.Project) []ProjectResponse {
	responses := make([]ProjectResponse, 0, len(projects))
	for _, project := range projects {
		responses = append(responses, ToProjectResponse(project))
	}
	return responses
}
