package dto

import (
	"time"

	"github.com/yigit/uniattend/internal/app/models"
)

// CreateUserRequest is the admin form of registration
type CreateUserRequest = RegisterRequest

// UpdateUserRequest carries only the fields to change
type UpdateUserRequest struct {
	Email     *string      `json:"email" binding:"omitempty,email"`
	FirstName *string      `json:"firstName" binding:"omitempty,notblank"`
	LastName  *string      `json:"lastName" binding:"omitempty,notblank"`
	Role      *models.Role `json:"role" binding:"omitempty,role"`
	StudentID *string      `json:"studentId" binding:"omitempty,notblank"`
}

// UserResponse represents user information without credentials
type UserResponse struct {
	ID        int64       `json:"id"`
	Email     string      `json:"email"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Role      models.Role `json:"role"`
	StudentID *string     `json:"studentId,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// NewUserResponse strips the password hash from a user
func NewUserResponse(u *models.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		StudentID: u.StudentID,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NewUserResponses converts a slice of users
func NewUserResponses(users []*models.User) []*UserResponse {
	out := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}
