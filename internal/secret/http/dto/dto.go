// Package dto provides data transfer objects for the secret HTTP layer.
package dto

import (
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/cosecrets/cosecrets/internal/secret/domain"
	"github.com/cosecrets/cosecrets/internal/secret/usecase"
	appValidation "github.com/cosecrets/cosecrets/internal/validation"
)

// CreateSecretRequest represents the API request for creating a secret.
type CreateSecretRequest struct {
	Key           string    `json:"key"`
	Value         string    `json:"value"`
	Description   string    `json:"description,omitempty"`
	EnvironmentID uuid.UUID `json:"environment_id"`
}

// Validate validates the CreateSecretRequest. Value may be empty; empty
// configuration values are legitimate.
func (r *CreateSecretRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Key,
			validation.Required.Error("key is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("key must be between 1 and 255 characters"),
		),
		validation.Field(&r.EnvironmentID,
			validation.Required.Error("environment_id is required"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// UpdateSecretRequest represents the API request for updating a secret.
// Omitted fields are left unchanged.
type UpdateSecretRequest struct {
	Value       *string `json:"value,omitempty"`
	Description *string `json:"description,omitempty"`
}

// HistoryResponse represents version history metadata. Old ciphertext never
// leaves the server.
type HistoryResponse struct {
	Version   uint      `json:"version"`
	ChangedBy uuid.UUID `json:"changed_by"`
	CreatedAt time.Time `json:"created_at"`
}

// SecretResponse represents a decrypted secret in API responses.
type SecretResponse struct {
	ID            uuid.UUID         `json:"id"`
	Key           string            `json:"key"`
	Value         string            `json:"value"`
	Description   string            `json:"description,omitempty"`
	Version       uint              `json:"version"`
	EnvironmentID uuid.UUID         `json:"environment_id"`
	Environment   string            `json:"environment"`
	Project       string            `json:"project"`
	History       []HistoryResponse `json:"history,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// SecretMetadataResponse represents a secret without its value, returned by
// mutating endpoints.
type SecretMetadataResponse struct {
	ID          uuid.UUID `json:"id"`
	Key         string    `json:"key"`
	Description string    `json:"description,omitempty"`
	Version     uint      `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToSecretResponse converts a decrypted secret with optional history.
func ToSecretResponse(secret *domain.Secret, history []*domain.SecretHistory) SecretResponse {
	resp := SecretResponse{
		ID:            secret.ID,
		Key:           secret.Key,
		Value:         secret.Value,
		Description:   secret.Description,
		Version:       secret.Version,
		EnvironmentID: secret.EnvironmentID,
		Environment:   secret.EnvironmentName,
		Project:       secret.ProjectName,
		CreatedAt:     secret.CreatedAt,
		UpdatedAt:     secret.UpdatedAt,
	}
	for _, entry := range history {
		resp.History = append(resp.History, HistoryResponse{
			Version:   entry.Version,
			ChangedBy: entry.ChangedBy,
			CreatedAt: entry.CreatedAt,
		})
	}
	return resp
}

// ToSecretMetadataResponse converts a secret to its value-free representation.
func ToSecretMetadataResponse(secret *domain.Secret) SecretMetadataResponse {
	return SecretMetadataResponse{
		ID:          secret.ID,
		Key:         secret.Key,
		Description: secret.Description,
		Version:     secret.Version,
		CreatedAt:   secret.CreatedAt,
		UpdatedAt:   secret.UpdatedAt,
	}
}

// ToSecretListResponse converts decrypted secrets for listing.
func ToSecretListResponse(secrets []*domain.Secret) []SecretResponse {
	responses := make([]SecretResponse, 0, len(secrets))
	for _, secret := range secrets {
		responses = append(responses, ToSecretResponse(secret, nil))
	}
	return responses
}

// ToUpdateSecretInput converts an update request to a use case input.
func ToUpdateSecretInput(secretID uuid.UUID, req UpdateSecretRequest) usecase.UpdateSecretInput {
	return usecase.UpdateSecretInput{
		SecretID:    secretID,
		Value:       req.Value,
		Description: req.Description,
	}
}
