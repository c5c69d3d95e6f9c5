package http

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/cosecrets/cosecrets/internal/errors"
	"github.com/cosecrets/cosecrets/internal/identity"
	"github.com/cosecrets/cosecrets/internal/user/usecase"
)

// BasicSessionResolver authenticates requests carrying HTTP Basic credentials
// against the user store. Requests without Basic credentials fall through to
// bearer API key authentication.
type BasicSessionResolver struct {
	userUseCase usecase.UseCase
}

// NewBasicSessionResolver creates a BasicSessionResolver.
func NewBasicSessionResolver(userUseCase usecase.UseCase) *BasicSessionResolver {
	return &BasicSessionResolver{userUseCase: userUseCase}
}

// Resolve verifies the email/password pair from the Authorization header.
func (s *BasicSessionResolver) Resolve(c *gin.Context) (identity.Identity, error) {
	email, password, ok := c.Request.BasicAuth()
	if !ok {
		return identity.Identity{}, apperrors.ErrUnauthorized
	}

	user, err := s.userUseCase.Authenticate(c.Request.Context(), email, password)
	if err != nil {
		return identity.Identity{}, err
	}

	return identity.Session(user.ID), nil
}
