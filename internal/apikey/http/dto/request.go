// Package dto provides data transfer objects for the API key HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	appValidation "github.com/cosecrets/cosecrets/internal/validation"
)

// CreateApiKeyRequest represents the API request for issuing a key.
type CreateApiKeyRequest struct {
	Name          string   `json:"name"`
	Permissions   []string `json:"permissions,omitempty"`
	ExpiresInDays *int     `json:"expires_in_days,omitempty"`
}

// Validate validates the CreateApiKeyRequest.
func (r *CreateApiKeyRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 100).Error("name must be between 1 and 100 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}
