package stock

import (
	"errors"
	"math"
	"time"

	"hatch-backend/internal/models"

	"gorm.io/gorm"
)

// ExpiryState classifies how close a batch is to its expiry date.
type ExpiryState string

const (
	ExpiryOk       ExpiryState = "ok"
	ExpiryWarning  ExpiryState = "warning"  // expires within 30 days
	ExpiryCritical ExpiryState = "critical" // expires within 7 days
	ExpiryExpired  ExpiryState = "expired"
)

// ReceiveBatch records a lot of received stock. RemainingQty starts at the
// received quantity and is expiry-tracking information only; removals do not
// consume batches.
func ReceiveBatch(db *gorm.DB, warehouseID uint, sku string, qty int, expiry *time.Time, hasDamage bool, damageNotes string, orderID *uint, now time.Time) (*models.StockBatch, error) {
	if qty <= 0 {
		return nil, errors.New("batch quantity must be positive")
	}

	batch := models.StockBatch{
		WarehouseID:  warehouseID,
		SKU:          sku,
		OrderID:      orderID,
		Quantity:     qty,
		RemainingQty: qty,
		ExpiryDate:   expiry,
		HasDamage:    hasDamage,
		DamageNotes:  damageNotes,
		ReceivedAt:   now,
	}

	if err := db.Create(&batch).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

// DaysUntilExpiry counts whole days from now to expiry, rounding partial days
// up. Yesterday is -1, later today is 0.
func DaysUntilExpiry(expiry, now time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}

// ExpiryStatus classifies an expiry date relative to now.
func ExpiryStatus(expiry, now time.Time) ExpiryState {
	days := DaysUntilExpiry(expiry, now)
	switch {
	case days < 0:
		return ExpiryExpired
	case days <= 7:
		return ExpiryCritical
	case days <= 30:
		return ExpiryWarning
	default:
		return ExpiryOk
	}
}

// EarliestExpiry returns the soonest expiry date among live batches for the
// SKU, optionally restricted to one warehouse. Nil when no dated batch with
// remaining quantity exists.
func EarliestExpiry(db *gorm.DB, sku string, warehouseID *uint) (*time.Time, error) {
	q := db.Model(&models.StockBatch{}).
		Where("sku = ? AND remaining_qty > 0 AND expiry_date IS NOT NULL", sku)
	if warehouseID != nil {
		q = q.Where("warehouse_id = ?", *warehouseID)
	}

	var batch models.StockBatch
	err := q.Order("expiry_date ASC").First(&batch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return batch.ExpiryDate, nil
}
