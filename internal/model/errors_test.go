package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	wrapped := fmt.Errorf("load tweet: %w", NewNotFoundError("tweet", 7))

	assert.Equal(t, CodeNotFound, ErrorCode(wrapped))
	assert.True(t, IsNotFound(wrapped))
	assert.Equal(t, CodeInternal, ErrorCode(errors.New("boom")))
	assert.False(t, IsNotFound(nil))
	assert.Equal(t, CodeDomainRejection, ErrorCode(NewDomainRejection("cannot follow yourself")))
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternalError("failed to like tweet", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "INTERNAL_ERROR")
	assert.Contains(t, err.Error(), "connection reset")
}
