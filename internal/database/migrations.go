package database

import (
	"log"
	"log/slog"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

func GetMigrator(db *gorm.DB) *gormigrate.Gormigrate {
	migrator := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "0",
			Migrate: func(txn *gorm.DB) error {
				return txn.AutoMigrate(
					&UserProfile{}, &BusinessProfile{}, &GtmStrategy{},
				)
			},
		},
		{
			ID: "1",
			Migrate: func(txn *gorm.DB) error {
				return txn.AutoMigrate(&ChatSession{}, &ChatMessage{})
			},
			Rollback: func(txn *gorm.DB) error {
				if err := txn.Migrator().DropTable(&ChatMessage{}); err != nil {
					return err
				}
				return txn.Migrator().DropTable(&ChatSession{})
			},
		},
		{
			ID: "2",
			Migrate: func(txn *gorm.DB) error {
				return txn.AutoMigrate(&UsageLog{})
			},
			Rollback: func(txn *gorm.DB) error {
				return txn.Migrator().DropTable(&UsageLog{})
			},
		},
	})

	migrator.InitSchema(func(txn *gorm.DB) error {
		// This is run by the migrator if no previous migration is detected. It
		// allows it to bypass running all the migrations sequentially and just create
		// the latest database state.

		log.Println("clean database detected, running full schema initialization")

		dbType := db.Dialector.Name()
		if dbType == "sqlite" || dbType == "sqlite3" {
			// Sqlite does not enable foreign key constraints by default, so we need to enable them manually.
			if err := txn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
				slog.Error("error enabling foreign keys for SQLite", "error", err)
			}
		}

		return db.AutoMigrate(
			&UserProfile{}, &BusinessProfile{}, &GtmStrategy{}, &ChatSession{}, &ChatMessage{}, &UsageLog{},
		)
	})

	return migrator
}
