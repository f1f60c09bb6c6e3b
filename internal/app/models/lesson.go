package models

import "time"

// Lesson is one meeting of a section. StartTime and EndTime are "HH:MM".
type Lesson struct {
	ID        int64        `json:"id" db:"id"`
	SectionID int64        `json:"sectionId" db:"section_id"`
	Date      time.Time    `json:"date" db:"date"`
	StartTime string       `json:"startTime" db:"start_time"`
	EndTime   string       `json:"endTime" db:"end_time"`
	Topic     *string      `json:"topic,omitempty" db:"topic"`
	Status    LessonStatus `json:"status" db:"status"`
	CreatedAt time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time    `json:"updatedAt" db:"updated_at"`
}
