package dto

import "github.com/yigit/uniattend/internal/app/models"

// LoginRequest represents login credentials. UserType must match the stored role.
type LoginRequest struct {
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required"`
	UserType models.Role `json:"userType" binding:"required,role"`
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Email     string      `json:"email" binding:"required,email"`
	Password  string      `json:"password" binding:"required,min=6"`
	FirstName string      `json:"firstName" binding:"required,notblank"`
	LastName  string      `json:"lastName" binding:"required,notblank"`
	Role      models.Role `json:"role" binding:"required,role"`
	StudentID *string     `json:"studentId" binding:"omitempty,notblank"`
}

// UpdateProfileRequest represents profile update data
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName" binding:"omitempty,notblank"`
	LastName  *string `json:"lastName" binding:"omitempty,notblank"`
}

// ChangePasswordRequest represents a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	User  *UserResponse `json:"user"`
	Token string        `json:"token"`
}
