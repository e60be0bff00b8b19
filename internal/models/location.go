package models

import "time"

type LocationType string

const (
	LocationVending LocationType = "vending"
	LocationRetail  LocationType = "retail"
	LocationDisplay LocationType = "display"
	LocationStorage LocationType = "storage"
	LocationOther   LocationType = "other"
)

type Location struct {
	ID        uint         `gorm:"primaryKey"`
	Name      string       `gorm:"size:100;not null;unique"`
	Type      LocationType `gorm:"size:20;not null;default:vending"`
	Address   string       `gorm:"size:255"`
	RouteID   *uint        `gorm:"index"`
	Route     *Route
	CreatedAt time.Time
	UpdatedAt time.Time

	AssignedItems []LocationAssignedItem `gorm:"foreignKey:LocationID;constraint:OnDelete:CASCADE"`
}

// LocationAssignedItem restricts which SKUs a location carries.
// A location with no rows here accepts all products.
type LocationAssignedItem struct {
	ID         uint   `gorm:"primaryKey"`
	LocationID uint   `gorm:"index;not null;uniqueIndex:idx_location_assigned_sku"`
	SKU        string `gorm:"size:50;not null;uniqueIndex:idx_location_assigned_sku"`
	CreatedAt  time.Time
}
