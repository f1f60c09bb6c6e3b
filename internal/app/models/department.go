package models

import "time"

// Department represents a department in a faculty
type Department struct {
	ID          int64     `json:"id" db:"id"`
	FacultyID   int64     `json:"facultyId" db:"faculty_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	Faculty     *FacultyRef `json:"faculty,omitempty"`
	CourseCount *int64      `json:"courseCount,omitempty"`
	Courses     []*Course   `json:"courses,omitempty"`
}

// FacultyRef is the short form of a faculty embedded in children
type FacultyRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
