package models

import "time"

// StockBatch: a lot of received stock. Created only when an order is received.
// RemainingQty tracks expiry-relevant quantity; it is not a FEFO allocator.
type StockBatch struct {
	ID           uint   `gorm:"primaryKey"`
	WarehouseID  uint   `gorm:"index;not null"`
	Warehouse    Warehouse
	SKU          string `gorm:"size:50;index;not null"`
	OrderID      *uint  `gorm:"index"`
	Quantity     int    `gorm:"not null"` // originally received quantity
	RemainingQty int    `gorm:"not null"`
	ExpiryDate   *time.Time
	HasDamage    bool      `gorm:"not null;default:false"`
	DamageNotes  string    `gorm:"size:500"`
	ReceivedAt   time.Time `gorm:"index;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
