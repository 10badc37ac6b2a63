package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel() // Enable parallel execution

	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "ErrNotFound itself",
			err:      ErrNotFound,
			expected: true,
		},
		{
			name:     "entity-specific variant",
			err:      ErrProgressNotFound,
			expected: true,
		},
		{
			name:     "wrapped variant",
			err:      fmt.Errorf("loading record: %w", ErrProgressNotFound),
			expected: true,
		},
		{
			name:     "unrelated error",
			err:      ErrWriteFailed,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsNotFoundError(tc.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	t.Parallel() // Enable parallel execution

	t.Run("with wrapped error", func(t *testing.T) {
		inner := errors.New("connection refused")
		err := NewStoreError("kana_progress", "list", "query failed", inner)

		assert.Contains(t, err.Error(), "list operation on kana_progress failed")
		assert.Contains(t, err.Error(), "connection refused")
		assert.ErrorIs(t, err, inner)
	})

	t.Run("without wrapped error", func(t *testing.T) {
		err := NewStoreError("kana_progress", "save", "no rows affected", nil)

		assert.Equal(t, "save operation on kana_progress failed: no rows affected", err.Error())
		assert.Nil(t, err.Unwrap())
	})

	t.Run("supports errors.Is through sentinel wrapping", func(t *testing.T) {
		err := NewStoreError("kana_progress", "list", "query failed", ErrStoreUnavailable)

		assert.ErrorIs(t, err, ErrStoreUnavailable)

		var storeErr *StoreError
		assert.True(t, errors.As(err, &storeErr))
		assert.Equal(t, "list", storeErr.Operation)
	})
}
