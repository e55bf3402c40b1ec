package migrations

import (
	"log"

	"github.com/khankhulgun/khanstyle/models"
	"github.com/lambda-platform/lambda/DB"
)

func Migrate() {
	// Create the schema if it doesn't exist
	createSchema := `
	CREATE SCHEMA IF NOT EXISTS map_server;
	`

	err := DB.DB.Exec(createSchema).Error
	if err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}
	err = DB.DB.AutoMigrate(
		&models.LayerStyle{},
		&models.StyleProperty{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate style tables: %v", err)
	}
}
