package models

import "time"

// WarehouseStock: quantity on hand per (warehouse, SKU). Never negative;
// writes go through the stock ledger which clamps at zero.
type WarehouseStock struct {
	ID          uint   `gorm:"primaryKey"`
	WarehouseID uint   `gorm:"not null;uniqueIndex:idx_warehouse_stock_key"`
	SKU         string `gorm:"size:50;not null;uniqueIndex:idx_warehouse_stock_key"`
	Quantity    int    `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LocationStock: quantity on hand per (location, SKU), same clamp rule.
type LocationStock struct {
	ID         uint   `gorm:"primaryKey"`
	LocationID uint   `gorm:"not null;uniqueIndex:idx_location_stock_key"`
	SKU        string `gorm:"size:50;not null;uniqueIndex:idx_location_stock_key"`
	Quantity   int    `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// LocationConfig: optional min/max thresholds per (location, SKU), used for
// stock-status classification and order suggestions.
type LocationConfig struct {
	ID         uint   `gorm:"primaryKey"`
	LocationID uint   `gorm:"not null;uniqueIndex:idx_location_config_key"`
	SKU        string `gorm:"size:50;not null;uniqueIndex:idx_location_config_key"`
	MinStock   *int
	MaxStock   *int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
