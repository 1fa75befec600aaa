package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	t.Run("passes domain errors through", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", NewForbidden("admin only"))
		de := ToDomainError(err)
		require.NotNil(t, de)
		assert.Equal(t, CodeForbidden, de.Code)
		assert.Equal(t, http.StatusForbidden, de.HTTPStatus)
	})

	t.Run("maps no rows to not found", func(t *testing.T) {
		de := ToDomainError(pgx.ErrNoRows)
		assert.Equal(t, CodeNotFound, de.Code)
	})

	t.Run("unknown errors become internal", func(t *testing.T) {
		de := ToDomainError(errors.New("boom"))
		assert.Equal(t, CodeInternal, de.Code)
		assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, ToDomainError(nil))
	})
}

func TestWriteErrorUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewWriteError("items", "update", cause)

	assert.True(t, HasCode(err, CodeWriteFailed))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "update items failed")
}

func TestHasCode(t *testing.T) {
	assert.False(t, HasCode(errors.New("plain"), CodeNotFound))
	assert.False(t, HasCode(nil, CodeNotFound))
	assert.True(t, HasCode(NewNotFound("item", nil), CodeNotFound))
	assert.True(t, HasCode(NewEmailNotConfirmed(true), CodeEmailNotConfirmed))
}
