package httputil

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	apperrors "github.com/cosecrets/cosecrets/internal/errors"
	"github.com/cosecrets/cosecrets/internal/identity"
)

// RequireIdentity reads the authenticated identity from the request context.
// When the identity middleware never ran it writes a 401 response and returns
// false, so handlers can return immediately.
func RequireIdentity(c *gin.Context, logger *slog.Logger) (identity.Identity, bool) {
	id, ok := identity.FromContext(c.Request.Context())
	if !ok {
		HandleErrorGin(c, apperrors.Wrap(apperrors.ErrUnauthorized, "no authenticated identity"), logger)
		return identity.Identity{}, false
	}
	return id, true
}
