package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(ErrResourceNotFound, "id=abc")

	assert.Equal(t, ErrResourceNotFound, err.Code)
	assert.Equal(t, 404, err.HTTPStatus())
	assert.Contains(t, err.Error(), "id=abc")
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, ErrResourceStorageFailed)

	assert.Equal(t, ErrResourceStorageFailed, err.Code)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 500, err.HTTPStatus())

	// Wrapping an AppError keeps the original code
	again := Wrap(fmt.Errorf("outer: %w", err), ErrInternalServer)
	assert.Equal(t, ErrResourceStorageFailed, again.Code)
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrInternalServer))
}

func TestIs(t *testing.T) {
	err := New(ErrResourceNotOwner)

	assert.True(t, Is(err, ErrResourceNotOwner))
	assert.False(t, Is(err, ErrResourceNotFound))
	assert.False(t, Is(stderrors.New("plain"), ErrResourceNotOwner))
}

func TestExtractCode(t *testing.T) {
	assert.Equal(t, ErrResourceFileTooLarge, ExtractCode(New(ErrResourceFileTooLarge)))
	assert.Equal(t, ErrInternalServer, ExtractCode(stderrors.New("plain")))
}

func TestCodeMapping(t *testing.T) {
	tests := []struct {
		code   int
		status int
	}{
		{ErrAuthMissingToken, 401},
		{ErrAuthInvalidToken, 401},
		{ErrResourceNotOwner, 403},
		{ErrResourceNotFound, 404},
		{ErrResourceMissingFields, 400},
		{ErrResourceFileTooLarge, 400},
		{ErrResourceUploadFailed, 500},
		{9999999, 500}, // unknown codes map to internal error
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, GetHTTPStatus(tt.code), "code %d", tt.code)
	}
}
