package errors

import (
	"fmt"
	"net/http"
)

// Code represents an error code with HTTP status and message
type Code struct {
	Code    int    // Business error code
	Status  int    // HTTP status code
	Message string // Error message
}

// Error codes for different modules
const (
	// Success
	Success = 0

	// Common errors (1000-1999)
	ErrInternalServer  = 1000
	ErrInvalidParams   = 1001
	ErrNotFound        = 1002
	ErrUnauthorized    = 1003
	ErrForbidden       = 1004
	ErrBadRequest      = 1005
	ErrTooManyRequests = 1006

	// Auth errors (2000-2999)
	ErrAuthMissingToken = 2000
	ErrAuthInvalidToken = 2001
	ErrAuthTokenExpired = 2002

	// Resource errors (3000-3999)
	ErrResourceNotFound        = 3000
	ErrResourceMissingFields   = 3001
	ErrResourceInvalidCategory = 3002
	ErrResourceNoFile          = 3003
	ErrResourceInvalidFileType = 3004
	ErrResourceFileTooLarge    = 3005
	ErrResourceNotOwner        = 3006
	ErrResourceUploadFailed    = 3007
	ErrResourceStorageFailed   = 3008
)

// codeMap maps error codes to their details
var codeMap = map[int]Code{
	Success: {Success, http.StatusOK, "Success"},

	// Common errors
	ErrInternalServer:  {ErrInternalServer, http.StatusInternalServerError, "Internal server error"},
	ErrInvalidParams:   {ErrInvalidParams, http.StatusBadRequest, "Invalid parameters"},
	ErrNotFound:        {ErrNotFound, http.StatusNotFound, "Resource not found"},
	ErrUnauthorized:    {ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
	ErrForbidden:       {ErrForbidden, http.StatusForbidden, "Forbidden"},
	ErrBadRequest:      {ErrBadRequest, http.StatusBadRequest, "Bad request"},
	ErrTooManyRequests: {ErrTooManyRequests, http.StatusTooManyRequests, "Too many requests"},

	// Auth errors
	ErrAuthMissingToken: {ErrAuthMissingToken, http.StatusUnauthorized, "No authentication token provided"},
	ErrAuthInvalidToken: {ErrAuthInvalidToken, http.StatusUnauthorized, "Invalid authentication token"},
	ErrAuthTokenExpired: {ErrAuthTokenExpired, http.StatusUnauthorized, "Authentication token expired"},

	// Resource errors
	ErrResourceNotFound:        {ErrResourceNotFound, http.StatusNotFound, "Resource not found"},
	ErrResourceMissingFields:   {ErrResourceMissingFields, http.StatusBadRequest, "Title and subject are required fields"},
	ErrResourceInvalidCategory: {ErrResourceInvalidCategory, http.StatusBadRequest, "Unknown resource category"},
	ErrResourceNoFile:          {ErrResourceNoFile, http.StatusBadRequest, "No file uploaded"},
	ErrResourceInvalidFileType: {ErrResourceInvalidFileType, http.StatusBadRequest, "Unsupported file type"},
	ErrResourceFileTooLarge:    {ErrResourceFileTooLarge, http.StatusBadRequest, "File size exceeds limit"},
	ErrResourceNotOwner:        {ErrResourceNotOwner, http.StatusForbidden, "Not authorized to modify this resource"},
	ErrResourceUploadFailed:    {ErrResourceUploadFailed, http.StatusInternalServerError, "Upload failed"},
	ErrResourceStorageFailed:   {ErrResourceStorageFailed, http.StatusInternalServerError, "Storage operation failed"},
}

// GetCode returns the Code for a given error code
func GetCode(code int) Code {
	if c, ok := codeMap[code]; ok {
		return c
	}
	return codeMap[ErrInternalServer]
}

// GetHTTPStatus returns HTTP status for a given error code
func GetHTTPStatus(code int) int {
	return GetCode(code).Status
}

// GetMessage returns the message for a given error code
func GetMessage(code int) string {
	return GetCode(code).Message
}

// IsClientError checks if the code represents a client error (4xx)
func IsClientError(code int) bool {
	status := GetHTTPStatus(code)
	return status >= 400 && status < 500
}

// IsServerError checks if the code represents a server error (5xx)
func IsServerError(code int) bool {
	return GetHTTPStatus(code) >= 500
}

// FormatError formats an error message with code
func FormatError(code int, details ...string) string {
	msg := GetMessage(code)
	if len(details) > 0 && details[0] != "" {
		return fmt.Sprintf("%s: %s", msg, details[0])
	}
	return msg
}
