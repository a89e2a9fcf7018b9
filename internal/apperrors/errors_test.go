package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"task-assignment/backend/internal/apperrors"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", apperrors.Validation("Title is required"), http.StatusBadRequest},
		{"not found", apperrors.TaskNotFound(), http.StatusNotFound},
		{"conflict", apperrors.Conflict("email already exists", nil), http.StatusConflict},
		{"too large", apperrors.TooLarge("Request body too large", nil), http.StatusRequestEntityTooLarge},
		{"wrapped validation", fmt.Errorf("bind: %w", apperrors.Validation("x")), http.StatusBadRequest},
		{"plain error", errors.New("FOREIGN KEY constraint failed"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, apperrors.StatusCode(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "Task not found", apperrors.PublicMessage(apperrors.TaskNotFound()))
	assert.Equal(t, "Title is required", apperrors.PublicMessage(apperrors.Validation("Title is required")))
	assert.Equal(t, "Internal Server Error", apperrors.PublicMessage(errors.New("dial tcp: connection refused")))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("duplicate")
	err := apperrors.Conflict("email already exists", cause)

	assert.True(t, errors.Is(err, cause))
	assert.False(t, apperrors.IsNotFound(err))
	assert.True(t, apperrors.IsValidation(apperrors.Validation("bad")))
}
