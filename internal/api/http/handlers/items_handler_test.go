package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

func TestParseItemDate(t *testing.T) {
	got, err := parseItemDate("2026-10-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = parseItemDate("2026-10-01T09:30:00+05:30")
	require.NoError(t, err)
	assert.Equal(t, 4, got.UTC().Hour())

	got, err = parseItemDate("  ")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = parseItemDate("last tuesday")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}
