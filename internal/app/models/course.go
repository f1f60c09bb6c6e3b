package models

import "time"

// Course represents a course offered by a department and taught by one teacher.
type Course struct {
	ID           int64     `json:"id" db:"id"`
	Code         string    `json:"code" db:"code"`
	Name         string    `json:"name" db:"name"`
	Description  *string   `json:"description,omitempty" db:"description"` // Nullable
	Credits      int       `json:"credits" db:"credits"`
	DepartmentID int64     `json:"departmentId" db:"department_id"`
	TeacherID    int64     `json:"teacherId" db:"teacher_id"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Department      *DepartmentRef `json:"department,omitempty"`
	Teacher         *UserSummary   `json:"teacher,omitempty"`
	Sections        []*Section     `json:"sections,omitempty"`
	SectionCount    *int64         `json:"sectionCount,omitempty"`
	EnrollmentCount *int64         `json:"enrollmentCount,omitempty"`
}

// DepartmentRef is the short form of a department with its faculty
type DepartmentRef struct {
	ID      int64       `json:"id"`
	Name    string      `json:"name"`
	Faculty *FacultyRef `json:"faculty,omitempty"`
}
