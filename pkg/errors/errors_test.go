package errors

import (
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	err := Clone(ErrLockedSemester, "First semester of 2023/2024 is locked")
	got := FromError(err)
	require.NotNil(t, got)
	assert.Equal(t, "SEMESTER_LOCKED", got.Code)
	assert.Equal(t, http.StatusLocked, got.Status)
	assert.Equal(t, "First semester of 2023/2024 is locked", got.Message)
}

func TestFromErrorWrapsUnknownErrors(t *testing.T) {
	got := FromError(sql.ErrConnDone)
	require.NotNil(t, got)
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.ErrorIs(t, got, sql.ErrConnDone)
}

func TestIsMatchesByCode(t *testing.T) {
	wrapped := Wrap(sql.ErrNoRows, ErrNotFound.Code, ErrNotFound.Status, "result not found")
	assert.True(t, Is(wrapped, ErrNotFound))
	assert.False(t, Is(wrapped, ErrConflict))
	assert.False(t, Is(nil, ErrNotFound))
}

func TestCloneDoesNotMutateSentinel(t *testing.T) {
	_ = Clone(ErrImmutableState, "published results are read-only")
	assert.Equal(t, "result can no longer be modified", ErrImmutableState.Message)
}
