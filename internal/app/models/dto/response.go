package dto

import (
	"time"

	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
)

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	Success   bool         `json:"success" example:"true"`
	Message   string       `json:"message,omitempty"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Message string `json:"message"`
}

// NewSuccessResponse wraps data in a successful envelope.
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewMessageResponse wraps data with a human readable message.
func NewMessageResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewFailureResponse wraps an error detail in the envelope.
func NewFailureResponse(detail *ErrorDetail) APIResponse {
	return APIResponse{
		Success:   false,
		Error:     detail,
		Timestamp: time.Now(),
	}
}

// PaginationInfo represents pagination metadata
type PaginationInfo struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
}

// PaginatedResponse represents a paginated list with metadata
type PaginatedResponse struct {
	Items      interface{}    `json:"items"`
	Pagination PaginationInfo `json:"pagination"`
}

// BulkItemSuccess reports one upserted row of a bulk upload.
type BulkItemSuccess struct {
	Key    string `json:"key" example:"21A91A0501"`
	Action string `json:"action" example:"created" enums:"created,updated"`
}

// BulkItemFailure reports one rejected row of a bulk upload.
type BulkItemFailure struct {
	Key   string `json:"key" example:"21A91A0502"`
	Error string `json:"error" example:"dob is required"`
}

// BulkResult collects per-item outcomes; one bad row never aborts the rest.
type BulkResult struct {
	Success []BulkItemSuccess `json:"success"`
	Failed  []BulkItemFailure `json:"failed"`
}

// NewBulkResult returns a result with non-nil slices so both keys always render.
func NewBulkResult() *BulkResult {
	return &BulkResult{Success: []BulkItemSuccess{}, Failed: []BulkItemFailure{}}
}

// Succeeded records a created or updated row.
func (r *BulkResult) Succeeded(key string, created bool) {
	action := "updated"
	if created {
		action = "created"
	}
	r.Success = append(r.Success, BulkItemSuccess{Key: key, Action: action})
}

// Fail records a rejected row.
func (r *BulkResult) Fail(key string, err error) {
	msg, ok := apperrors.MessageOf(err)
	if !ok {
		msg = err.Error()
	}
	r.Failed = append(r.Failed, BulkItemFailure{Key: key, Error: msg})
}
