package models

import "time"

// Faculty is the top level of the academic hierarchy
type Faculty struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	DepartmentCount *int64        `json:"departmentCount,omitempty"`
	Departments     []*Department `json:"departments,omitempty"`
}
