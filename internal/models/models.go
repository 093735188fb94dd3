package models

import (
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for every model. Called from
// db.Init on startup and from test setup against in-memory databases.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Link{},
		&Comment{},
		&Vote{},
		&KarmaEntry{},
	)
}
