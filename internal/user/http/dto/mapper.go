// Package dto provides data transfer objects for the user HTTP layer.
package dto

import (
	"github.com/cosecrets/cosecrets/internal/user/domain"
	"github.com/cosecrets/cosecrets/internal/user/usecase"
)

// ToRegisterUserInput maps a registration request onto the use case input.
func ToRegisterUserInput(req RegisterUserRequest) usecase.RegisterUserInput {
	return usecase.RegisterUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
}

// ToUserResponse maps a domain user onto its API representation.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
