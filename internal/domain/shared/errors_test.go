package shared

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_Is(t *testing.T) {
	err := fmt.Errorf("load draft: %w", NewDomainError("NOT_FOUND", "draft missing"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrInvalidState))
}

func TestAsDomainError(t *testing.T) {
	t.Run("wrapped", func(t *testing.T) {
		de, ok := AsDomainError(fmt.Errorf("outer: %w", ErrConflict))
		require.True(t, ok)
		assert.Equal(t, "CONFLICT", de.Code)
	})

	t.Run("plain error", func(t *testing.T) {
		_, ok := AsDomainError(errors.New("boom"))
		assert.False(t, ok)
	})
}

func TestSessionContext(t *testing.T) {
	_, ok := SessionFromContext(context.Background())
	assert.False(t, ok)

	_, ok = SessionFromContext(WithSession(context.Background(), SessionContext{}))
	assert.False(t, ok, "zero session is not a session")

	s := SessionContext{SessionID: uuid.New(), ClientID: "C001", UserName: "ops"}
	got, ok := SessionFromContext(WithSession(context.Background(), s))
	require.True(t, ok)
	assert.Equal(t, s, got)
}
