package model

import (
	"github.com/Laisky/errors/v2"
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// migrateSchema applies the versioned schema changes of the preference database.
func migrateSchema(db *gorm.DB) error {
	m := gormigrate.New(db, &gormigrate.Options{UseTransaction: false}, []*gormigrate.Migration{
		{
			ID: "202405-create-preferences",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&Preference{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&Preference{})
			},
		},
	})
	return errors.Wrap(m.Migrate(), "migrate preference database")
}
