package sqlite

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

func runMigrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "001_moodboards",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&moodboardRecord{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("moodboards")
			},
		},
	})
	return m.Migrate()
}
