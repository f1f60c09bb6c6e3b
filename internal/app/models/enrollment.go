package models

import "time"

// Enrollment binds a student to one section of a course
type Enrollment struct {
	ID         int64     `json:"id" db:"id"`
	StudentID  int64     `json:"studentId" db:"student_id"`
	CourseID   int64     `json:"courseId" db:"course_id"`
	SectionID  int64     `json:"sectionId" db:"section_id"`
	EnrolledAt time.Time `json:"enrolledAt" db:"enrolled_at"`

	Student *UserSummary `json:"student,omitempty"`
	Course  *CourseRef   `json:"course,omitempty"`
	Section *SectionRef  `json:"section,omitempty"`
}

// SectionRef is the short form of a section
type SectionRef struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Schedule string `json:"schedule,omitempty"`
	Room     string `json:"room,omitempty"`
}
