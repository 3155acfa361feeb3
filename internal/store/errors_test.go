package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic error", err: errors.New("some error"), expected: false},
		{name: "ErrDuplicate", err: ErrDuplicate, expected: true},
		{name: "ErrTaskExists", err: ErrTaskExists, expected: true},
		{
			name:     "wrapped ErrTaskExists",
			err:      fmt.Errorf("insert failed: %w", ErrTaskExists),
			expected: true,
		},
		{name: "ErrInvalidEntity", err: ErrInvalidEntity, expected: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsDuplicateError(tc.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewStoreError("task", "insert", "failed to insert task", cause)

	assert.Equal(t, "insert operation on task failed: failed to insert task: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewStoreError("task", "query", "no rows", nil)
	assert.Equal(t, "query operation on task failed: no rows", bare.Error())
	assert.Nil(t, bare.Unwrap())

	wrapped := NewStoreError("task", "ping", "database unreachable", ErrUnavailable)
	var se *StoreError
	assert.True(t, errors.As(fmt.Errorf("outer: %w", wrapped), &se))
	assert.ErrorIs(t, wrapped, ErrUnavailable)
}
