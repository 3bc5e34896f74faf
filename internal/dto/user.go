package dto

import (
	"time"

	"github.com/mtakagi/discussion-board-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64           `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Phone     string           `json:"phone,omitempty"`
	AuthLevel models.AuthLevel `json:"auth_level"`
	CreatedAt time.Time        `json:"created_at"`
}

// TokenDTO is the login/register response: a bearer token plus the user.
type TokenDTO struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	User        UserDTO `json:"user"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		AuthLevel: user.AuthLevel,
		CreatedAt: user.CreatedAt,
	}
}

// ToTokenDTO wraps a freshly issued access token with its user
func ToTokenDTO(token string, user models.User) TokenDTO {
	return TokenDTO{
		AccessToken: token,
		TokenType:   "bearer",
		User:        ToUserDTO(user),
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, user := range users {
		dtos[i] = ToUserDTO(user)
	}
	return dtos
}
