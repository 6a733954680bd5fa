package dto

import (
	"time"

	"github.com/taskflow/taskflow-api/internal/models"
)

// UserDTO represents a user in API responses. The password hash is never included.
type UserDTO struct {
	ID             uint64          `json:"id"`
	Username       string          `json:"username"`
	Email          string          `json:"email"`
	Name           string          `json:"name"`
	Role           models.UserRole `json:"role"`
	GoogleID       *string         `json:"googleId,omitempty"`
	ProfilePicture *string         `json:"profilePicture,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// AuthResponse is returned by login, registration and OAuth token exchange.
type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// RegisteredUserDTO is the registration response: the new user plus a token
// so the client can sign in without a second round trip.
type RegisteredUserDTO struct {
	UserDTO
	Token string `json:"token"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		Name:           user.Name,
		Role:           user.Role,
		GoogleID:       user.GoogleID,
		ProfilePicture: user.ProfilePicture,
		CreatedAt:      user.CreatedAt,
	}
}

func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, 0, len(users))
	for _, user := range users {
		dtos = append(dtos, ToUserDTO(user))
	}
	return dtos
}
