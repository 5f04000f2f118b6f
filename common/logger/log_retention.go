package logger

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	errors "github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
)

// StartLogRetentionCleaner deletes finlogs log files older than retentionDays from logDir,
// once immediately and then daily until ctx is cancelled.
func StartLogRetentionCleaner(ctx context.Context, retentionDays int, logDir string) {
	if retentionDays <= 0 {
		Logger.Debug("log retention disabled", zap.Int("log_retention_days", retentionDays))
		return
	}
	if strings.TrimSpace(logDir) == "" {
		Logger.Warn("log retention enabled but log directory is empty", zap.Int("log_retention_days", retentionDays))
		return
	}

	cleanup := func() {
		removed, err := deleteExpiredLogFiles(time.Now(), retentionDays, logDir)
		if err != nil {
			Logger.Warn("log retention cleanup failed", zap.Error(err))
			return
		}
		if removed > 0 {
			Logger.Info("log retention cleanup done", zap.Int("removed", removed))
		}
	}

	cleanup()

	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				Logger.Debug("log retention cleaner stopped", zap.Error(ctx.Err()))
				return
			case <-ticker.C:
				cleanup()
			}
		}
	}()
}

// deleteExpiredLogFiles only touches files this program writes (finlogs*.log).
func deleteExpiredLogFiles(now time.Time, retentionDays int, logDir string) (int, error) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "read log directory")
	}

	cutoff := now.UTC().AddDate(0, 0, -retentionDays)
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !isOwnLogFile(name) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			Logger.Warn("skip log file without metadata", zap.String("log_path", name), zap.Error(err))
			continue
		}
		if !info.ModTime().UTC().Before(cutoff) {
			continue
		}

		fullPath := filepath.Join(logDir, name)
		if err := os.Remove(fullPath); err != nil {
			Logger.Warn("failed to delete expired log file", zap.String("log_path", fullPath), zap.Error(err))
			continue
		}
		removed++
	}

	return removed, nil
}

func isOwnLogFile(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasPrefix(lower, "finlogs") && strings.HasSuffix(lower, ".log")
}
