package main

import (
	"context"
	"fmt"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"gorm.io/gorm"

	"github.com/songquanpeng/finlogs/model"
)

func (a *app) runMigrate(ctx context.Context, args []string) error {
	fs := newFlagSet("migrate", a.stdout)
	from := fs.String("from", "", "source DSN; empty means the local SQLite file")
	to := fs.String("to", "", "target DSN; empty means the local SQLite file")
	batch := fs.Int("batch", 500, "rows per batch")
	dryRun := fs.Bool("dry-run", false, "count rows without writing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *from == *to {
		return errors.New("--from and --to must differ")
	}

	src, err := model.OpenDB(*from)
	if err != nil {
		return errors.Wrap(err, "open source")
	}
	defer closeDB(a, src)
	dst, err := model.OpenDB(*to)
	if err != nil {
		return errors.Wrap(err, "open target")
	}
	defer closeDB(a, dst)

	stats, err := model.MigratePreferences(ctx, src, dst, *batch, *dryRun)
	if err != nil {
		return err
	}
	a.logger.Info("preferences migrated",
		zap.Int64("rows", stats.Rows),
		zap.Int("batches", stats.Batches),
		zap.Bool("dry_run", *dryRun))
	fmt.Fprintf(a.stdout, "rows: %d, batches: %d\n", stats.Rows, stats.Batches)
	return nil
}

func closeDB(a *app, db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		a.logger.Debug("close database", zap.Error(err))
	}
}
