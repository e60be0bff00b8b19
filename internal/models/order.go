package models

import "time"

type OrderStatus string

const (
	OrderPending  OrderStatus = "pending"
	OrderReceived OrderStatus = "received"
)

// Order: a purchase order against a supplier. Editable only while pending;
// receiving it is the single modeled state transition.
type Order struct {
	ID              uint   `gorm:"primaryKey"`
	Reference       string `gorm:"size:40;uniqueIndex;not null"`
	SupplierID      uint   `gorm:"index;not null"`
	Supplier        Supplier
	WarehouseID     *uint // delivery target; nil when delivering to a free-text address
	Warehouse       *Warehouse
	DeliveryAddress string `gorm:"size:255"`
	DeliveryFee     float64
	TotalAmount     float64     `gorm:"not null"` // sum of item lines plus delivery fee
	Notes           string      `gorm:"size:500"`
	InvoiceRef      string      `gorm:"size:100"`
	InvoiceImageURL string      `gorm:"size:255"`
	Status          OrderStatus `gorm:"size:20;not null;default:pending"`
	ReceivedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey"`
	OrderID   uint    `gorm:"index;not null"`
	SKU       string  `gorm:"size:50;not null"`
	Quantity  int     `gorm:"not null"`
	UnitPrice float64 `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
