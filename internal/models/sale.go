package models

import "time"

// Sale: an imported point-of-sale record. ExternalID comes from the POS
// export and is the dedupe key; the importer trusts it.
type Sale struct {
	ID            uint   `gorm:"primaryKey"`
	ExternalID    string `gorm:"size:100;uniqueIndex;not null"`
	SKU           string `gorm:"size:50;index"`
	ProductName   string `gorm:"size:150"`
	Category      string `gorm:"size:100"`
	Quantity      int    `gorm:"not null;default:1"`
	Charged       float64
	CostPrice     float64
	PaymentMethod string    `gorm:"size:50"`
	LocationName  string    `gorm:"size:100;index"` // free-text machine/site name from the POS export
	SoldAt        time.Time `gorm:"index;not null"`
	CreatedAt     time.Time
}

// SaleImport: history row stamped for each import run.
type SaleImport struct {
	ID             uint   `gorm:"primaryKey"`
	Filename       string `gorm:"size:255;not null"`
	RecordsAdded   int    `gorm:"not null"`
	RecordsSkipped int    `gorm:"not null"`
	ErrorCount     int    `gorm:"not null"`
	CreatedAt      time.Time
}

// LocationMapping: manual POS location name -> location link used when
// reconciling imported sales against location stock.
type LocationMapping struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"size:100;uniqueIndex;not null"`
	LocationID uint   `gorm:"index;not null"`
	Location   Location
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
