package model

import (
	"context"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"

	"github.com/songquanpeng/finlogs/common"
)

const (
	sqliteBusyRetryAttempts  = 4
	sqliteBusyRetryBaseDelay = 25 * time.Millisecond
)

// runWithSQLiteBusyRetry retries operation with doubling backoff while SQLite reports a lock.
// Other backends run operation exactly once.
func runWithSQLiteBusyRetry(ctx context.Context, operation func() error) error {
	if !common.UsingSQLite.Load() {
		return operation()
	}

	delay := sqliteBusyRetryBaseDelay
	err := operation()
	for attempt := 0; attempt < sqliteBusyRetryAttempts && isSQLiteBusy(err); attempt++ {
		select {
		case <-ctx.Done():
			return errors.Wrap(err, "context canceled while waiting for SQLite lock")
		case <-time.After(delay):
		}
		delay *= 2
		err = operation()
	}

	if isSQLiteBusy(err) {
		return errors.Wrap(err, "SQLite remained busy after retries")
	}
	return err
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "database is busy")
}
