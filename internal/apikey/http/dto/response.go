// Package dto provides data transfer objects for the API key HTTP layer.
package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/cosecrets/cosecrets/internal/apikey/domain"
	"github.com/cosecrets/cosecrets/internal/apikey/usecase"
)

// ApiKeyResponse represents key metadata. The digest never leaves the server;
// KeyPrefix is the only identifying fragment exposed after issuance.
type ApiKeyResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	KeyPrefix   string     `json:"key_prefix"`
	Permissions []string   `json:"permissions"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreateApiKeyResponse carries the plaintext key exactly once, at issuance.
type CreateApiKeyResponse struct {
	ApiKeyResponse
	Key string `json:"key"`
}

// ToApiKeyResponse converts a domain ApiKey to its metadata representation.
func ToApiKeyResponse(key *domain.ApiKey) ApiKeyResponse {
	return ApiKeyResponse{
		ID:          key.ID,
		Name:        key.Name,
		KeyPrefix:   key.KeyPrefix,
		Permissions: key.Permissions,
		ExpiresAt:   key.ExpiresAt,
		LastUsedAt:  key.LastUsedAt,
		CreatedAt:   key.CreatedAt,
	}
}

// ToCreateApiKeyResponse converts an issuance result including the plaintext key.
func ToCreateApiKeyResponse(output *usecase.IssueApiKeyOutput) CreateApiKeyResponse {
	return CreateApiKeyResponse{
		ApiKeyResponse: ToApiKeyResponse(output.ApiKey),
		Key:            output.PlainKey,
	}
}

// ToApiKeyListResponse converts a list of keys to metadata representations.
func ToApiKeyListResponse(keys []*domain.ApiKey) []ApiKeyResponse {
	responses := make([]ApiKeyResponse, 0, len(keys))
	for _, key := range keys {
		responses = append(responses, ToApiKeyResponse(key))
	}
	return responses
}
