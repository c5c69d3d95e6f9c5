// Package http provides the identity middleware and HTTP handlers for API keys.
package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cosecrets/cosecrets/internal/apikey/usecase"
	apperrors "github.com/cosecrets/cosecrets/internal/errors"
	"github.com/cosecrets/cosecrets/internal/httputil"
	"github.com/cosecrets/cosecrets/internal/identity"
)

// SessionResolver resolves a browser session to an identity. Implementations
// return ErrUnauthorized when the request carries no usable session, letting
// the middleware fall through to bearer authentication.
type SessionResolver interface {
	Resolve(c *gin.Context) (identity.Identity, error)
}

// IdentityMiddleware authenticates every request, trying session resolution
// first and falling back to a bearer API key. Both paths store the same
// Identity in the request context for handlers to read via GetIdentity.
func IdentityMiddleware(
	sessions SessionResolver,
	apiKeyUseCase usecase.ApiKeyUseCase,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessions != nil {
			id, err := sessions.Resolve(c)
			if err == nil {
				c.Request = c.Request.WithContext(identity.NewContext(c.Request.Context(), id))
				c.Next()
				return
			}
			if !apperrors.Is(err, apperrors.ErrUnauthorized) {
				httputil.HandleErrorGin(c, err, logger)
				c.Abort()
				return
			}
		}

		plainKey, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			logger.Debug("authentication failed: no session and no bearer token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		id, err := apiKeyUseCase.Authenticate(c.Request.Context(), plainKey)
		if err != nil {
			logger.Debug("authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(identity.NewContext(c.Request.Context(), id))
		c.Next()
	}
}

// bearerToken extracts the token from an Authorization header value. The
// "bearer" scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	const bearerPrefix = "bearer "
	if len(header) < len(bearerPrefix) ||
		!strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := header[len(bearerPrefix):]
	if token == "" {
		return "", false
	}
	return token, true
}
