package model

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/songquanpeng/finlogs/common"
	"github.com/songquanpeng/finlogs/common/config"
	"github.com/songquanpeng/finlogs/common/logger"
)

// DB holds view preferences. It stays nil when Redis serves preferences instead.
var DB *gorm.DB

func chooseDB(dsn string) (*gorm.DB, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return openPostgreSQL(dsn)
	case dsn != "":
		return openMySQL(dsn)
	default:
		return openSQLite()
	}
}

func openPostgreSQL(dsn string) (*gorm.DB, error) {
	logger.Logger.Info("using PostgreSQL as preference database")
	common.UsingPostgreSQL.Store(true)
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{PrepareStmt: true})
}

func openMySQL(dsn string) (*gorm.DB, error) {
	logger.Logger.Info("using MySQL as preference database")
	common.UsingMySQL.Store(true)
	normalized, err := common.NormalizeMySQLDSN(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "normalize MySQL DSN")
	}
	return gorm.Open(mysql.Open(normalized), &gorm.Config{PrepareStmt: true})
}

func openSQLite() (*gorm.DB, error) {
	logger.Logger.Info("SQL_DSN not set, using SQLite as preference database",
		zap.String("path", common.SQLitePath))
	common.UsingSQLite.Store(true)
	dsn := fmt.Sprintf("%s?_busy_timeout=%d", common.SQLitePath, common.SQLiteBusyTimeout)
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{PrepareStmt: true})
}

// InitDB opens the preference database selected by SQL_DSN and migrates it.
func InitDB() error {
	db, err := chooseDB(config.SQLDSN)
	if err != nil {
		return errors.Wrap(err, "open preference database")
	}
	if config.DebugSQLEnabled {
		db = db.Debug()
	}
	if _, err = setDBConns(db); err != nil {
		return err
	}
	if err = migrateSchema(db); err != nil {
		return err
	}

	DB = db
	logger.Logger.Debug("preference database ready")
	return nil
}

func setDBConns(db *gorm.DB) (*sql.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql.DB")
	}

	sqlDB.SetMaxIdleConns(config.SQLMaxIdleConns)
	sqlDB.SetMaxOpenConns(config.SQLMaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Second * time.Duration(config.SQLMaxLifetimeSeconds))
	return sqlDB, nil
}

// CloseDB closes DB if it was opened.
func CloseDB() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(sqlDB.Close())
}

// NewPreferenceStore picks Redis when it is enabled, then the SQL database, then memory.
func NewPreferenceStore(profile string) PreferenceStore {
	switch {
	case common.IsRedisEnabled() && common.RDB != nil:
		return NewRedisPreferenceStore(common.RDB, profile)
	case DB != nil:
		return NewSQLPreferenceStore(DB, profile)
	default:
		return NewMemoryPreferenceStore()
	}
}
