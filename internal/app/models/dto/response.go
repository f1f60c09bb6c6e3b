package dto

// APIResponse is the envelope of every response body
type APIResponse struct {
	Success bool        `json:"success" example:"true"`
	Message string      `json:"message,omitempty" example:"Operation completed successfully"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty" example:"Resource not found"`
	Debug   string      `json:"debug,omitempty"` // development mode only
}

// PaginationInfo describes the page of a list response
type PaginationInfo struct {
	Page       int   `json:"page" example:"1"`
	Limit      int   `json:"limit" example:"10"`
	Total      int64 `json:"total" example:"15"`
	TotalPages int   `json:"totalPages" example:"2"`
	HasNext    bool  `json:"hasNext" example:"true"`
	HasPrev    bool  `json:"hasPrev" example:"false"`
}

// NewSuccessResponse creates a successful envelope
func NewSuccessResponse(data interface{}, message string) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// NewListResponse creates a successful envelope whose data holds the items
// under key next to their pagination: {"<key>": [...], "pagination": {...}}
func NewListResponse(key string, items interface{}, pagination PaginationInfo) APIResponse {
	return APIResponse{
		Success: true,
		Data: map[string]interface{}{
			key:          items,
			"pagination": pagination,
		},
	}
}

// NewErrorResponse creates a failed envelope
func NewErrorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Error:   message,
	}
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status    string `json:"status" example:"OK"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp" example:"2025-04-23T12:01:05Z"`
}
