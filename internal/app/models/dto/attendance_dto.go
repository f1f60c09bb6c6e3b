package dto

import "github.com/yigit/uniattend/internal/app/models"

// AttendanceRecordRequest is one student's mark
type AttendanceRecordRequest struct {
	StudentID int64                   `json:"studentId" binding:"required,min=1"`
	Status    models.AttendanceStatus `json:"status" binding:"required,attendance_status"`
	Note      *string                 `json:"note"`
}

// MarkAttendanceRequest marks several students of one lesson at once
type MarkAttendanceRequest struct {
	Records []AttendanceRecordRequest `json:"records" binding:"required,min=1,dive"`
}

// UpdateAttendanceRequest changes a single record. Omitting note keeps the stored one.
type UpdateAttendanceRequest struct {
	Status models.AttendanceStatus `json:"status" binding:"required,attendance_status"`
	Note   *string                 `json:"note"`
}

// AttendanceSummaryResponse wraps a per-section summary with its rate
type AttendanceSummaryResponse struct {
	models.AttendanceSummary
	Rate float64 `json:"rate"`
}

// NewAttendanceSummaryResponses adds the attendance rate to each summary
func NewAttendanceSummaryResponses(in []models.AttendanceSummary) []AttendanceSummaryResponse {
	out := make([]AttendanceSummaryResponse, 0, len(in))
	for _, s := range in {
		out = append(out, AttendanceSummaryResponse{AttendanceSummary: s, Rate: s.Rate()})
	}
	return out
}
