package database

import (
	"log"

	"hatch-backend/internal/config"
	"hatch-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	log.Println("Database connected, migration complete.")
}

// Migrate runs AutoMigrate for every entity. Exported so tests can build the
// same schema on their own database handle.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.AuditLog{},
		&models.Supplier{},
		&models.Route{},
		&models.Product{},
		&models.Warehouse{},
		&models.Location{},
		&models.LocationAssignedItem{},
		&models.WarehouseStock{},
		&models.LocationStock{},
		&models.LocationConfig{},
		&models.StockBatch{},
		&models.Order{},
		&models.OrderItem{},
		&models.Removal{},
		&models.RemovalItem{},
		&models.Restock{},
		&models.RestockItem{},
		&models.StockCheck{},
		&models.StockCheckItem{},
		&models.Sale{},
		&models.SaleImport{},
		&models.LocationMapping{},
	)
}
