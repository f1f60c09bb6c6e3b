package dto

// CreateDepartmentRequest represents department creation data
type CreateDepartmentRequest struct {
	Name        string  `json:"name" binding:"required,notblank"`
	FacultyID   int64   `json:"facultyId" binding:"required,min=1"`
	Description *string `json:"description"`
}

// UpdateDepartmentRequest represents department update data
type UpdateDepartmentRequest struct {
	Name        *string `json:"name" binding:"omitempty,notblank"`
	FacultyID   *int64  `json:"facultyId" binding:"omitempty,min=1"`
	Description *string `json:"description"`
}
