package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromKeepsApplicationErrors(t *testing.T) {
	wrapped := fmt.Errorf("loading product: %w", NotFound("Product not found"))

	appErr := From(wrapped)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
	assert.Equal(t, "Product not found", appErr.Message)
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsInvalidInput(wrapped))
}

func TestFromHidesUnknownErrors(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.3:3306: connection refused")

	appErr := From(cause)
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.Equal(t, MsgInternal, appErr.Message)
	assert.ErrorIs(t, appErr, cause)
}
