// Package sqlite provides SQLite database setup for development and tests
package sqlite

import (
	"fmt"

	gormModels "github.com/forkful/v1/internal/infrastructure/persistence/gorm"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupDatabase creates and configures the SQLite database
func SetupDatabase(dbPath string, logLevel logger.LogLevel) (*gorm.DB, error) {
	// Use in-memory database if no path provided
	if dbPath == "" {
		dbPath = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Run auto-migration
	err = db.AutoMigrate(
		&gormModels.UserModel{},
		&gormModels.AuthTokenModel{},
		&gormModels.TagModel{},
		&gormModels.IngredientModel{},
		&gormModels.RecipeModel{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// SeedDatabase populates the database with demo data for local
// development. A no-op when users already exist.
func SeedDatabase(db *gorm.DB) error {
	var userCount int64
	db.Model(&gormModels.UserModel{}).Count(&userCount)
	if userCount > 0 {
		return nil // Already seeded
	}

	demoUsers := []gormModels.UserModel{
		{
			Email:        "chef@forkful.dev",
			Name:         "Demo Chef",
			PasswordHash: "$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi", // password
		},
		{
			Email:        "admin@forkful.dev",
			Name:         "Demo Admin",
			PasswordHash: "$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi", // password
			IsStaff:      true,
			IsSuperuser:  true,
		},
	}

	for i := range demoUsers {
		if err := db.Create(&demoUsers[i]).Error; err != nil {
			return fmt.Errorf("failed to create demo user: %w", err)
		}
	}

	return nil
}
