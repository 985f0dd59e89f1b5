package database

import (
	"context"
	"fmt"

	"heartline/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Role{},
		&models.UserRole{},
		&models.Photo{},
		&models.Like{},
		&models.Message{},
	}
}

// Migrate brings the schema up to date with PersistentModels.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(PersistentModels()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// EnsureRoles inserts any missing built-in role. Existing rows are left alone.
func EnsureRoles(ctx context.Context, db *gorm.DB) error {
	for _, name := range models.BuiltInRoles {
		role := models.Role{Name: name}
		err := db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
			Create(&role).Error
		if err != nil {
			return fmt.Errorf("failed to ensure role %s: %w", name, err)
		}
	}
	return nil
}
