package models

import "time"

type RemovalTarget string

const (
	// RemovalAdhoc consumes warehouse stock without crediting any location
	// (write-offs, tastings, samples).
	RemovalAdhoc RemovalTarget = "adhoc"
	// RemovalRouted is stock taken out for a delivery route. Arrival at a
	// location is recorded separately as a restock, never here.
	RemovalRouted RemovalTarget = "routed"
)

// Removal: append-only record of stock leaving a warehouse.
type Removal struct {
	ID               uint          `gorm:"primaryKey"`
	WarehouseID      uint          `gorm:"index;not null"`
	Warehouse        Warehouse
	TargetKind       RemovalTarget `gorm:"size:10;not null"`
	RouteID          *uint         `gorm:"index"` // set when TargetKind is routed
	Route            *Route
	TargetLocationID *uint     // optional single-location hint within the route
	TakenBy          string    `gorm:"size:100;not null"`
	Note             string    `gorm:"size:500"`
	CreatedAt        time.Time `gorm:"index"`

	Items []RemovalItem `gorm:"foreignKey:RemovalID;constraint:OnDelete:CASCADE"`
}

type RemovalItem struct {
	ID        uint   `gorm:"primaryKey"`
	RemovalID uint   `gorm:"index;not null"`
	SKU       string `gorm:"size:50;not null"`
	Quantity  int    `gorm:"not null"`
	CreatedAt time.Time
}
