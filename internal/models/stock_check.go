package models

import "time"

// Known shrinkage reasons for negative variance. Stored as free text so the
// client can extend the list without a migration.
const (
	ShrinkageTheft       = "theft"
	ShrinkageDamage      = "damage"
	ShrinkageSwap        = "swap"
	ShrinkageMalfunction = "malfunction"
	ShrinkageUnknown     = "unknown"
)

// StockCheck: a physical count reconciliation. Submitting one overwrites the
// location's recorded stock to the counted values; the record itself is
// append-only.
type StockCheck struct {
	ID          uint `gorm:"primaryKey"`
	LocationID  uint `gorm:"index;not null"`
	Location    Location
	PerformedBy string    `gorm:"size:100;not null"`
	CreatedAt   time.Time `gorm:"index"`

	Items []StockCheckItem `gorm:"foreignKey:StockCheckID;constraint:OnDelete:CASCADE"`
}

type StockCheckItem struct {
	ID           uint   `gorm:"primaryKey"`
	StockCheckID uint   `gorm:"index;not null"`
	SKU          string `gorm:"size:50;not null"`
	Expected     int    `gorm:"not null"`
	Counted      int    `gorm:"not null"`
	Variance     int    `gorm:"not null"` // counted - expected
	Reason       string `gorm:"size:50"`  // meaningful only when variance < 0
	CreatedAt    time.Time
}
