package dto

import "github.com/yigit/uniattend/internal/app/models"

// CreateLessonRequest represents lesson creation data
type CreateLessonRequest struct {
	SectionID int64                `json:"sectionId" binding:"required,min=1"`
	Date      string               `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime string               `json:"startTime" binding:"required,clock"`
	EndTime   string               `json:"endTime" binding:"required,clock"`
	Topic     *string              `json:"topic"`
	Status    *models.LessonStatus `json:"status" binding:"omitempty,lesson_status"`
}

// UpdateLessonRequest represents lesson update data
type UpdateLessonRequest struct {
	Date      *string              `json:"date" binding:"omitempty,datetime=2006-01-02"`
	StartTime *string              `json:"startTime" binding:"omitempty,clock"`
	EndTime   *string              `json:"endTime" binding:"omitempty,clock"`
	Topic     *string              `json:"topic"`
	Status    *models.LessonStatus `json:"status" binding:"omitempty,lesson_status"`
}
