package models

import "time"

// Attendance is the record of one student in one lesson
type Attendance struct {
	ID         int64            `json:"id" db:"id"`
	LessonID   int64            `json:"lessonId" db:"lesson_id"`
	StudentID  int64            `json:"studentId" db:"student_id"`
	Status     AttendanceStatus `json:"status" db:"status"`
	Note       *string          `json:"note,omitempty" db:"note"`
	RecordedAt time.Time        `json:"recordedAt" db:"recorded_at"`

	Student *UserSummary `json:"student,omitempty"`
	Lesson  *Lesson      `json:"lesson,omitempty"`
}

// AttendanceMark is one entry of a bulk marking request
type AttendanceMark struct {
	StudentID int64
	Status    AttendanceStatus
	Note      *string
}

// AttendanceSummary aggregates a student's records for one section
type AttendanceSummary struct {
	SectionID   int64  `json:"sectionId"`
	SectionName string `json:"sectionName"`
	CourseCode  string `json:"courseCode"`
	CourseName  string `json:"courseName"`
	Present     int64  `json:"present"`
	Absent      int64  `json:"absent"`
	Late        int64  `json:"late"`
	Total       int64  `json:"total"`
}

// Rate returns the share of lessons attended, counting late as attended
func (s AttendanceSummary) Rate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Present+s.Late) / float64(s.Total)
}
