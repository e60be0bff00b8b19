package models

import "time"

// Restock: append-only record of a counted delivery into a location.
type Restock struct {
	ID           uint `gorm:"primaryKey"`
	LocationID   uint `gorm:"index;not null"`
	Location     Location
	PerformedBy  string    `gorm:"size:100;not null"`
	PhotoURL     string    `gorm:"size:255"`
	PhotoWaived  bool      `gorm:"not null;default:false"` // explicit override when no photo provided
	StockCheckID *uint     `gorm:"index"`                  // optional link to the check that prompted this restock
	CreatedAt    time.Time `gorm:"index"`

	Items []RestockItem `gorm:"foreignKey:RestockID;constraint:OnDelete:CASCADE"`
}

type RestockItem struct {
	ID        uint   `gorm:"primaryKey"`
	RestockID uint   `gorm:"index;not null"`
	SKU       string `gorm:"size:50;not null"`
	Quantity  int    `gorm:"not null"`
	CreatedAt time.Time
}
