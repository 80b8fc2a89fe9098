package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/studyshare/studyshare-backend/internal/pkg/errors"
)

// Every endpoint answers with a flat JSON object carrying a "success" flag,
// an "error" message on failure, and payload fields at the top level.

// OK writes a 200 success response with the given payload fields
func OK(c *gin.Context, payload gin.H) {
	c.JSON(http.StatusOK, envelope(payload))
}

// Created writes a 201 success response with the given payload fields
func Created(c *gin.Context, payload gin.H) {
	c.JSON(http.StatusCreated, envelope(payload))
}

// Error writes an error response with the given HTTP status
func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, gin.H{
		"success": false,
		"error":   message,
	})
}

// BadRequest writes a 400 error
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized writes a 401 error
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// Forbidden writes a 403 error
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// NotFound writes a 404 error
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// InternalError writes a 500 error
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// HandleError maps an application error to its HTTP status and message
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	code := apperrors.ExtractCode(err)
	message := apperrors.GetMessage(code)
	if apperrors.IsClientError(code) {
		// Client errors carry their details so the caller can see what to fix
		message = apperrors.FormatError(code, apperrors.GetDetails(err))
	}

	Error(c, apperrors.GetHTTPStatus(code), message)
}

func envelope(payload gin.H) gin.H {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	return body
}
