package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Email     string    `json:"email" db:"email" example:"user@school.edu"`
	Password  string    `json:"-" db:"password"` // bcrypt hash, never serialized
	FirstName string    `json:"firstName" db:"first_name" example:"John"`
	LastName  string    `json:"lastName" db:"last_name" example:"Doe"`
	Role      Role      `json:"role" db:"role" example:"STUDENT"`
	StudentID *string   `json:"studentId,omitempty" db:"student_id" example:"20240001"` // only set for students
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// IsStudent reports whether the account is a student account
func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// UserSummary is the public subset of a user embedded in other resources
type UserSummary struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	StudentID *string `json:"studentId,omitempty"`
}
