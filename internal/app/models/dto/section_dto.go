package dto

// CreateSectionRequest represents section creation data
type CreateSectionRequest struct {
	Name     string `json:"name" binding:"required,notblank"`
	CourseID int64  `json:"courseId" binding:"required,min=1"`
	Schedule string `json:"schedule" binding:"required,notblank"`
	Room     string `json:"room" binding:"required,notblank"`
	Capacity int    `json:"capacity" binding:"required,min=1"`
}

// UpdateSectionRequest represents section update data
type UpdateSectionRequest struct {
	Name     *string `json:"name" binding:"omitempty,notblank"`
	Schedule *string `json:"schedule" binding:"omitempty,notblank"`
	Room     *string `json:"room" binding:"omitempty,notblank"`
	Capacity *int    `json:"capacity" binding:"omitempty,min=1"`
}

// EnrollmentRequest names the student to enroll or unenroll
type EnrollmentRequest struct {
	StudentID int64 `json:"studentId" binding:"required,min=1"`
}
