package model

import (
	"context"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/songquanpeng/finlogs/common/logger"
)

// OpenDB opens and migrates a preference database without touching DB.
// An empty dsn selects the SQLite file.
func OpenDB(dsn string) (*gorm.DB, error) {
	db, err := chooseDB(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open preference database")
	}
	if err = migrateSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

// MigrationStats summarizes a preference copy.
type MigrationStats struct {
	Batches int
	Rows    int64
}

// MigratePreferences copies every preference row from src to dst in batches,
// overwriting rows dst already holds for the same profile and key.
// With dryRun set, rows are counted but not written.
func MigratePreferences(ctx context.Context, src, dst *gorm.DB, batchSize int, dryRun bool) (MigrationStats, error) {
	var stats MigrationStats
	if batchSize <= 0 {
		batchSize = 500
	}
	if !dryRun {
		if err := migrateSchema(dst.WithContext(ctx)); err != nil {
			return stats, err
		}
	}

	// Keyset pagination over the composite (profile, pref_key) key.
	var lastProfile, lastKey string
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		var batch []Preference
		query := src.WithContext(ctx).Order("profile, pref_key").Limit(batchSize)
		if stats.Batches > 0 {
			query = query.Where("profile > ? OR (profile = ? AND pref_key > ?)", lastProfile, lastProfile, lastKey)
		}
		if err := query.Find(&batch).Error; err != nil {
			return stats, errors.Wrapf(err, "read batch %d", stats.Batches+1)
		}
		if len(batch) == 0 {
			break
		}

		if !dryRun {
			err := dst.WithContext(ctx).Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "profile"}, {Name: "pref_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&batch).Error
			if err != nil {
				return stats, errors.Wrapf(err, "write batch %d", stats.Batches+1)
			}
		}

		stats.Batches++
		stats.Rows += int64(len(batch))
		last := batch[len(batch)-1]
		lastProfile, lastKey = last.Profile, last.Key
		logger.Logger.Debug("preference batch copied",
			zap.Int("batch", stats.Batches),
			zap.Int64("rows", stats.Rows),
			zap.Bool("dry_run", dryRun))

		if len(batch) < batchSize {
			break
		}
	}
	return stats, nil
}
