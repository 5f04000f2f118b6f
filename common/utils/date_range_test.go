package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResolveDateRange(t *testing.T) {
	loc := time.UTC
	now := time.Date(2024, 6, 10, 15, 30, 0, 0, loc)

	t.Run("defaults", func(t *testing.T) {
		start, end, err := ResolveDateRange("", "  ", now, loc)
		require.NoError(t, err)
		require.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, loc).Unix(), start)
		require.Equal(t, now.Add(time.Hour).Unix(), end)
	})

	t.Run("explicit", func(t *testing.T) {
		start, end, err := ResolveDateRange("2024-06-01 00:00:00", "2024-06-02 12:00:00", now, loc)
		require.NoError(t, err)
		require.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, loc).Unix(), start)
		require.Equal(t, time.Date(2024, 6, 2, 12, 0, 0, 0, loc).Unix(), end)
	})

	t.Run("only start", func(t *testing.T) {
		start, end, err := ResolveDateRange("2024-06-01", "", now, loc)
		require.NoError(t, err)
		require.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, loc).Unix(), start)
		require.Equal(t, now.Add(time.Hour).Unix(), end)
	})

	t.Run("bad input", func(t *testing.T) {
		_, _, err := ResolveDateRange("junk", "", now, loc)
		require.ErrorContains(t, err, "invalid start time")

		_, _, err = ResolveDateRange("", "junk", now, loc)
		require.ErrorContains(t, err, "invalid end time")
	})

	t.Run("inverted", func(t *testing.T) {
		_, _, err := ResolveDateRange("2024-06-02", "2024-06-01", now, loc)
		require.Error(t, err)
	})
}
