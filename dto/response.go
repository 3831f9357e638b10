package dto

import "errors"

// Custom errors
var (
	ErrNoFiles      = errors.New("at least one file is required")
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
