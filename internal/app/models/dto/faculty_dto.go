package dto

// CreateFacultyRequest represents faculty creation data
type CreateFacultyRequest struct {
	Name        string  `json:"name" binding:"required,notblank"`
	Description *string `json:"description"`
}

// UpdateFacultyRequest represents faculty update data
type UpdateFacultyRequest struct {
	Name        *string `json:"name" binding:"omitempty,notblank"`
	Description *string `json:"description"`
}
