package model

import (
	"context"
	"testing"

	"github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/require"

	"github.com/songquanpeng/finlogs/common"
)

func withSQLiteFlag(t *testing.T, on bool) {
	t.Helper()
	prev := common.UsingSQLite.Load()
	common.UsingSQLite.Store(on)
	t.Cleanup(func() { common.UsingSQLite.Store(prev) })
}

func TestRunWithSQLiteBusyRetryEventualSuccess(t *testing.T) {
	withSQLiteFlag(t, true)

	attempts := 0
	err := runWithSQLiteBusyRetry(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("database is locked")
		}
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 3, attempts)
}

func TestRunWithSQLiteBusyRetryGivesUp(t *testing.T) {
	withSQLiteFlag(t, true)

	attempts := 0
	err := runWithSQLiteBusyRetry(context.Background(), func() error {
		attempts++
		return errors.New("database is busy")
	})

	require.ErrorContains(t, err, "remained busy")
	require.Equal(t, sqliteBusyRetryAttempts+1, attempts)
}

func TestRunWithSQLiteBusyRetryContextCanceled(t *testing.T) {
	withSQLiteFlag(t, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runWithSQLiteBusyRetry(ctx, func() error {
		return errors.New("database is locked")
	})
	require.ErrorContains(t, err, "context canceled")
}

func TestRunWithSQLiteBusyRetrySkipsWhenNotSQLite(t *testing.T) {
	withSQLiteFlag(t, false)

	attempts := 0
	err := runWithSQLiteBusyRetry(context.Background(), func() error {
		attempts++
		return errors.New("database is locked")
	})
	require.Error(t, err)
	require.Equal(t, 1, attempts)
}

func TestRunWithSQLiteBusyRetryPassesOtherErrors(t *testing.T) {
	withSQLiteFlag(t, true)

	attempts := 0
	err := runWithSQLiteBusyRetry(context.Background(), func() error {
		attempts++
		return errors.New("constraint failed")
	})
	require.ErrorContains(t, err, "constraint failed")
	require.Equal(t, 1, attempts)
}
