// Package http provides HTTP handlers for secret management operations.
// Secret values are encrypted at rest and decrypted only for authorized reads.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cosecrets/cosecrets/internal/httputil"
	"github.com/cosecrets/cosecrets/internal/secret/http/dto"
	"github.com/cosecrets/cosecrets/internal/secret/usecase"
)

// SecretHandler handles HTTP requests for secret management operations.
type SecretHandler struct {
	secretUseCase usecase.SecretUseCase
	logger        *slog.Logger
}

// NewSecretHandler creates a new secret handler with required dependencies.
func NewSecretHandler(secretUseCase usecase.SecretUseCase, logger *slog.Logger) *SecretHandler {
	return &SecretHandler{
		secretUseCase: secretUseCase,
		logger:        logger,
	}
}

// CreateHandler creates a new secret.
// POST /api/v1/secrets
// Returns 201 Created with metadata only; the value is never echoed back.
func (h *SecretHandler) CreateHandler(c *gin.Context) {
	actor, ok := httputil.RequireIdentity(c, h.logger)
	if !ok {
		return
	}

	var req dto.CreateSecretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	secret, err := h.secretUseCase.Create(c.Request.Context(), usecase.CreateSecretInput{
		EnvironmentID: req.EnvironmentID,
		Key:           req.Key,
		Value:         req.Value,
		Description:   req.Description,
		Actor:         actor,
		Origin:        httputil.RequestOrigin(c),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSecretMetadataResponse(secret))
}

// GetHandler reads and decrypts a single secret with history metadata.
// GET /api/v1/secrets/:id
func (h *SecretHandler) GetHandler(c *gin.Context) {
	actor, ok := httputil.RequireIdentity(c, h.logger)
	if !ok {
		return
	}

	secretID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid secret id: %w", err), h.logger)
		return
	}

	output, err := h.secretUseCase.Read(c.Request.Context(), secretID, actor, httputil.RequestOrigin(c))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"secret": dto.ToSecretResponse(output.Secret, output.History)})
}

// UpdateHandler updates a secret's value and/or description.
// PUT /api/v1/secrets/:id
// Returns metadata only.
func (h *SecretHandler) UpdateHandler(c *gin.Context) {
	actor, ok := httputil.RequireIdentity(c, h.logger)
	if !ok {
		return
	}

	secretID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid secret id: %w", err), h.logger)
		return
	}

	var req dto.UpdateSecretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	input := dto.ToUpdateSecretInput(secretID, req)
	input.Actor = actor
	input.Origin = httputil.RequestOrigin(c)

	secret, err := h.secretUseCase.Update(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "secret updated",
		"secret":  dto.ToSecretMetadataResponse(secret),
	})
}

// DeleteHandler removes a secret and its history.
// DELETE /api/v1/secrets/:id
func (h *SecretHandler) DeleteHandler(c *gin.Context) {
	actor, ok := httputil.RequireIdentity(c, h.logger)
	if !ok {
		return
	}

	secretID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid secret id: %w", err), h.logger)
		return
	}

	err = h.secretUseCase.Delete(c.Request.Context(), usecase.DeleteSecretInput{
		SecretID: secretID,
		Actor:    actor,
		Origin:   httputil.RequestOrigin(c),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "secret deleted"})
}

// ListHandler lists decrypted secrets visible to the caller.
// GET /api/v1/secrets?environmentId=<uuid>|projectId=<uuid>
func (h *SecretHandler) ListHandler(c *gin.Context) {
	actor, ok := httputil.RequireIdentity(c, h.logger)
	if !ok {
		return
	}

	var filter usecase.ListSecretsFilter
	if raw := c.Query("environmentId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			httputil.HandleBadRequestGin(c, fmt.Errorf("invalid environmentId parameter: %w", err), h.logger)
			return
		}
		filter.EnvironmentID = &parsed
	} else if raw := c.Query("projectId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			httputil.HandleBadRequestGin(c, fmt.Errorf("invalid projectId parameter: %w", err), h.logger)
			return
		}
		filter.ProjectID = &parsed
	}

	secrets, err := h.secretUseCase.List(c.Request.Context(), actor, filter, httputil.RequestOrigin(c))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"secrets": dto.ToSecretListResponse(secrets)})
}
