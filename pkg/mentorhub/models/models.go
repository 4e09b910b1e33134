package models

import "gorm.io/gorm"

// AllModels returns all models for migration
// Note: Partnership must be migrated before Group, which references it
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Partnership{},
		&Group{},
		&GroupUser{},
		&Transcript{},
		&VerificationToken{},
	}
}

// AutoMigrate runs GORM auto-migration for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
