package db

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"el_node_inventory/models"
)

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	// TranslateError so unique-constraint violations surface as
	// gorm.ErrDuplicatedKey; the code allocator's retry loop depends
	// on recognizing them.
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := Migrate(conn); err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return conn
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Destination{},
		&models.InventoryItem{},
		&models.AuditLog{},
	); err != nil {
		return err
	}

	// Bucket counts scan (category, product, year) including
	// decommissioned rows.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_bucket
	  ON %s (category_id, product_id, year_of_purchase);
	`, models.InventoryItemTable, models.InventoryItemTable)).Error; err != nil {
		return err
	}

	return nil
}
