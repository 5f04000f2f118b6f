package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openMemoryDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Preference{}))
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestMigratePreferences(t *testing.T) {
	ctx := context.Background()
	src := openMemoryDB(t, "prefs_src")
	dst := openMemoryDB(t, "prefs_dst")

	for _, profile := range []string{"a", "b", "cli"} {
		store := NewSQLPreferenceStore(src, profile)
		require.NoError(t, SavePageSize(ctx, store, 40))
		require.NoError(t, SaveCompactMode(ctx, store, true))
	}
	require.NoError(t, SavePageSize(ctx, NewSQLPreferenceStore(dst, "a"), 10))

	stats, err := MigratePreferences(ctx, src, dst, 4, true)
	require.NoError(t, err)
	require.EqualValues(t, 6, stats.Rows)
	require.Equal(t, 10, LoadPageSize(ctx, NewSQLPreferenceStore(dst, "a")))

	stats, err = MigratePreferences(ctx, src, dst, 4, false)
	require.NoError(t, err)
	require.EqualValues(t, 6, stats.Rows)
	require.Equal(t, 2, stats.Batches)

	for _, profile := range []string{"a", "b", "cli"} {
		store := NewSQLPreferenceStore(dst, profile)
		require.Equal(t, 40, LoadPageSize(ctx, store))
		require.True(t, LoadCompactMode(ctx, store))
	}
}

func TestMigrateSchemaIsIdempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:prefs_schema?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, migrateSchema(db))
	require.NoError(t, migrateSchema(db))
	require.True(t, db.Migrator().HasTable(&Preference{}))
	require.True(t, db.Migrator().HasTable("migrations"))
}

func TestMigratePreferencesBatchBoundaries(t *testing.T) {
	ctx := context.Background()
	src := openMemoryDB(t, "prefs_bound_src")
	for _, profile := range []string{"a", "b", "c"} {
		store := NewSQLPreferenceStore(src, profile)
		require.NoError(t, SavePageSize(ctx, store, 20))
		require.NoError(t, SaveCompactMode(ctx, store, true))
	}

	for _, tc := range []struct {
		batch   int
		batches int
	}{
		{batch: 1, batches: 6},
		{batch: 3, batches: 2},
		{batch: 6, batches: 1},
		{batch: 100, batches: 1},
	} {
		stats, err := MigratePreferences(ctx, src, src, tc.batch, true)
		require.NoError(t, err, "batch %d", tc.batch)
		require.EqualValues(t, 6, stats.Rows, "batch %d", tc.batch)
		require.Equal(t, tc.batches, stats.Batches, "batch %d", tc.batch)
	}
}
