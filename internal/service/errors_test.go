package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/taskhub/internal/domain"
	"github.com/phrazzld/taskhub/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestTaskServiceError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *TaskServiceError
		expected string
	}{
		{
			name: "with underlying error",
			err: &TaskServiceError{
				Operation: "create_task",
				Message:   "failed to save task",
				Err:       errors.New("connection refused"),
			},
			expected: "task service create_task failed: failed to save task: connection refused",
		},
		{
			name:     "without underlying error",
			err:      &TaskServiceError{Operation: "create_service", Message: "taskStore cannot be nil"},
			expected: "task service create_service failed: taskStore cannot be nil",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.err.Error())
		})
	}
}

func TestNewTaskServiceError(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		assert.NoError(t, NewTaskServiceError("op", "msg", nil))
	})

	t.Run("validation error passes through", func(t *testing.T) {
		valErr := domain.NewValidationError("title", "is required", domain.ErrEmptyContent)
		err := NewTaskServiceError("create_task", "failed", valErr)
		assert.Same(t, valErr, err)
	})

	t.Run("duplicate error passes through", func(t *testing.T) {
		err := NewTaskServiceError("create_task", "failed", store.ErrTaskExists)
		assert.ErrorIs(t, err, store.ErrDuplicate)
		var svcErr *TaskServiceError
		assert.False(t, errors.As(err, &svcErr))
	})

	t.Run("unexpected error is wrapped", func(t *testing.T) {
		cause := fmt.Errorf("query: %w", store.ErrUnavailable)
		err := NewTaskServiceError("list_tasks", "failed to list tasks", cause)

		var svcErr *TaskServiceError
		assert.True(t, errors.As(err, &svcErr))
		assert.Equal(t, "list_tasks", svcErr.Operation)
		assert.ErrorIs(t, err, store.ErrUnavailable)
	})
}
