package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validCriteria() QueryCriteria {
	return QueryCriteria{
		TokenKey:       "sk-abc",
		Type:           LogTypeConsume,
		StartTimestamp: 100,
		EndTimestamp:   200,
		PaginationMode: PaginationOffset,
	}
}

func TestQueryCriteriaValidate(t *testing.T) {
	require.NoError(t, validCriteria().Validate())

	t.Run("blank token key", func(t *testing.T) {
		q := validCriteria()
		q.TokenKey = "   "
		err := q.Validate()
		require.Error(t, err)
		require.True(t, MissingTokenKey(err))
	})

	t.Run("type out of range", func(t *testing.T) {
		q := validCriteria()
		q.Type = 7
		err := q.Validate()
		require.Error(t, err)
		require.False(t, MissingTokenKey(err))

		q.Type = LogTypeRefund
		require.NoError(t, q.Validate())
	})

	t.Run("inverted range", func(t *testing.T) {
		q := validCriteria()
		q.EndTimestamp = 50
		require.Error(t, q.Validate())
	})

	t.Run("unknown mode", func(t *testing.T) {
		q := validCriteria()
		q.PaginationMode = "page"
		require.Error(t, q.Validate())
	})
}

func TestParsePaginationMode(t *testing.T) {
	m, err := ParsePaginationMode(" Cursor ")
	require.NoError(t, err)
	require.Equal(t, PaginationCursor, m)

	m, err = ParsePaginationMode("offset")
	require.NoError(t, err)
	require.Equal(t, PaginationOffset, m)

	_, err = ParsePaginationMode("")
	require.Error(t, err)
}

func TestMissingTokenKeyOnForeignError(t *testing.T) {
	require.False(t, MissingTokenKey(nil))
	require.False(t, MissingTokenKey(ErrPreferenceNotFound))
}

func TestLogHelpers(t *testing.T) {
	l := Log{LegacyChannelId: 9}
	require.Equal(t, 9, l.ChannelID())
	l.ChannelId = 3
	require.Equal(t, 3, l.ChannelID())

	require.False(t, l.HasPriceDisplay())
	l.OutputAmountDisplay = "0.1"
	require.True(t, l.HasPriceDisplay())
}
