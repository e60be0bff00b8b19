package models

import "time"

type Product struct {
	ID          uint   `gorm:"primaryKey"`
	SKU         string `gorm:"size:50;uniqueIndex;not null"` // user-assigned stock keeping unit
	Name        string `gorm:"size:150;not null"`
	Category    string `gorm:"size:100;index"`
	UnitCost    float64
	SalePrice   float64
	UnitsPerBox int `gorm:"not null;default:1"` // box rounding unit for order suggestions
	SupplierID  *uint
	Supplier    *Supplier
	Barcode     string `gorm:"size:64"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
