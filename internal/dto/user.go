package dto

import (
	"time"

	"github.com/Sahitha-chunduri/projectflow/internal/models"
)

// UserDTO represents the caller's own account in API responses
type UserDTO struct {
	ID        string          `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Role      models.UserRole `json:"role"`
	IsActive  bool            `json:"isActive"`
	CreatedAt time.Time       `json:"created_at"`
}

// UserRefDTO is the display subset used when a task or project references a
// user (assignee, creator, member pickers).
type UserRefDTO struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID.Hex(),
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

// ToUserRefDTO converts a User model to its display reference
func ToUserRefDTO(user models.User) UserRefDTO {
	return UserRefDTO{
		ID:        user.ID.Hex(),
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	}
}

// ToUserRefDTOs converts a slice of users to display references
func ToUserRefDTOs(users []models.User) []UserRefDTO {
	refs := make([]UserRefDTO, len(users))
	for i, user := range users {
		refs[i] = ToUserRefDTO(user)
	}
	return refs
}
