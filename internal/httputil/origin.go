package httputil

import (
	"github.com/gin-gonic/gin"

	auditDomain "github.com/cosecrets/cosecrets/internal/audit/domain"
)

// RequestOrigin extracts audit attribution metadata from the request.
// ClientIP honors trusted proxy headers (X-Forwarded-For, X-Real-IP).
func RequestOrigin(c *gin.Context) auditDomain.Origin {
	return auditDomain.Origin{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}
