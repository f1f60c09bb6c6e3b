package dto

// CreateCourseRequest represents course creation data
type CreateCourseRequest struct {
	Code         string  `json:"code" binding:"required,notblank"`
	Name         string  `json:"name" binding:"required,notblank"`
	DepartmentID int64   `json:"departmentId" binding:"required,min=1"`
	TeacherID    int64   `json:"teacherId" binding:"required,min=1"`
	Credits      int     `json:"credits" binding:"required,min=1,max=10"`
	Description  *string `json:"description"`
}

// UpdateCourseRequest represents course update data
type UpdateCourseRequest struct {
	Code         *string `json:"code" binding:"omitempty,notblank"`
	Name         *string `json:"name" binding:"omitempty,notblank"`
	DepartmentID *int64  `json:"departmentId" binding:"omitempty,min=1"`
	TeacherID    *int64  `json:"teacherId" binding:"omitempty,min=1"`
	Credits      *int    `json:"credits" binding:"omitempty,min=1,max=10"`
	Description  *string `json:"description"`
}
