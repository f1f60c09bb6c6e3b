package models

import "time"

// Section is a scheduled group of a course with a seat capacity
type Section struct {
	ID        int64     `json:"id" db:"id"`
	CourseID  int64     `json:"courseId" db:"course_id"`
	Name      string    `json:"name" db:"name"`
	Schedule  string    `json:"schedule" db:"schedule"`
	Room      string    `json:"room" db:"room"`
	Capacity  int       `json:"capacity" db:"capacity"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Course          *CourseRef `json:"course,omitempty"`
	EnrollmentCount *int64     `json:"enrollmentCount,omitempty"`
}

// CourseRef is the short form of a course embedded in sections
type CourseRef struct {
	ID        int64  `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	TeacherID int64  `json:"teacherId"`
}

// HasSeat reports whether another student fits given the current enrollment count
func (s *Section) HasSeat(enrolled int64) bool {
	return enrolled < int64(s.Capacity)
}
