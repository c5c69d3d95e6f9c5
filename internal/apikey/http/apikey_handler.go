package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cosecrets/cosecrets/internal/apikey/http/dto"
	"github.com/cosecrets/cosecrets/internal/apikey/usecase"
	"github.com/cosecrets/cosecrets/internal/httputil"
)

// ApiKeyHandler handles API key HTTP requests.
type ApiKeyHandler struct {
	apiKeyUseCase usecase.ApiKeyUseCase
	logger        *slog.Logger
}

// NewApiKeyHandler creates a new ApiKeyHandler.
func NewApiKeyHandler(apiKeyUseCase usecase.ApiKeyUseCase, logger *slog.Logger) *ApiKeyHandler {
	return &ApiKeyHandler{
		apiKeyUseCase: apiKeyUseCase,
		logger:        logger,
	}
}

// CreateHandler issues a new API key.
// POST /api/v1/api-keys
// The plaintext key appears only in this response.
func (h *ApiKeyHandler) CreateHandler(c *gin.Context) {
	actor, ok := httputil.RequireIdentity(c, h.logger)
	if !ok {
		return
	}

	var req dto.CreateApiKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	output, err := h.apiKeyUseCase.Issue(c.Request.Context(), usecase.IssueApiKeyInput{
		Name:          req.Name,
		Permissions:   req.Permissions,
		ExpiresInDays: req.ExpiresInDays,
		Actor:         actor,
		Origin:        httputil.RequestOrigin(c),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCreateApiKeyResponse(output))
}

// ListHandler returns the caller's keys, metadata only.
// GET /api/v1/api-keys
func (h *ApiKeyHandler) ListHandler(c *gin.Context) {
	actor, ok := httputil.RequireIdentity(c, h.logger)
	if !ok {
		return
	}

	keys, err := h.apiKeyUseCase.List(c.Request.Context(), actor)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"api_keys": dto.ToApiKeyListResponse(keys)})
}

// DeleteHandler revokes one of the caller's keys.
// DELETE /api/v1/api-keys?id=<uuid>
func (h *ApiKeyHandler) DeleteHandler(c *gin.Context) {
	actor, ok := httputil.RequireIdentity(c, h.logger)
	if !ok {
		return
	}

	keyID, err := uuid.Parse(c.Query("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid id parameter: %w", err), h.logger)
		return
	}

	err = h.apiKeyUseCase.Revoke(c.Request.Context(), usecase.RevokeApiKeyInput{
		KeyID:  keyID,
		Actor:  actor,
		Origin: httputil.RequestOrigin(c),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "api key revoked"})
}
