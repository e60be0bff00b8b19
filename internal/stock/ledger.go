package stock

import (
	"errors"

	"hatch-backend/internal/models"

	"gorm.io/gorm"
)

// ItemQuantity is one (sku, quantity) pair for bulk ledger writes.
type ItemQuantity struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// SetWarehouseStock writes the quantity for (warehouseID, sku). With isDelta
// the quantity is added to the current value, otherwise it replaces it. The
// result is clamped at zero; underflow is not an error.
func SetWarehouseStock(db *gorm.DB, warehouseID uint, sku string, qty int, isDelta bool) (int, error) {
	var row models.WarehouseStock
	err := db.Where("warehouse_id = ? AND sku = ?", warehouseID, sku).First(&row).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.WarehouseStock{WarehouseID: warehouseID, SKU: sku}
	}

	newQty := qty
	if isDelta {
		newQty = row.Quantity + qty
	}
	if newQty < 0 {
		newQty = 0
	}
	row.Quantity = newQty

	if err := db.Save(&row).Error; err != nil {
		return 0, err
	}
	return newQty, nil
}

// SetLocationStock writes the absolute quantity for (locationID, sku),
// clamped at zero.
func SetLocationStock(db *gorm.DB, locationID uint, sku string, qty int) (int, error) {
	return writeLocationStock(db, locationID, sku, qty, false)
}

// AdjustLocationStock adds delta to the current quantity for (locationID,
// sku), clamped at zero. Used by the movement recorder and the sales
// reconciliation; plain handlers use SetLocationStock.
func AdjustLocationStock(db *gorm.DB, locationID uint, sku string, delta int) (int, error) {
	return writeLocationStock(db, locationID, sku, delta, true)
}

func writeLocationStock(db *gorm.DB, locationID uint, sku string, qty int, isDelta bool) (int, error) {
	var row models.LocationStock
	err := db.Where("location_id = ? AND sku = ?", locationID, sku).First(&row).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.LocationStock{LocationID: locationID, SKU: sku}
	}

	newQty := qty
	if isDelta {
		newQty = row.Quantity + qty
	}
	if newQty < 0 {
		newQty = 0
	}
	row.Quantity = newQty

	if err := db.Save(&row).Error; err != nil {
		return 0, err
	}
	return newQty, nil
}

// MergeLocationStock upserts the listed SKUs to the given absolute
// quantities. SKUs not listed are left untouched.
func MergeLocationStock(db *gorm.DB, locationID uint, items []ItemQuantity) error {
	for _, item := range items {
		if _, err := SetLocationStock(db, locationID, item.SKU, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceLocationStock replaces the entire per-location stock map: every SKU
// not listed is dropped, listed SKUs get the given quantities.
func ReplaceLocationStock(db *gorm.DB, locationID uint, items []ItemQuantity) error {
	if err := db.Where("location_id = ?", locationID).Delete(&models.LocationStock{}).Error; err != nil {
		return err
	}
	return MergeLocationStock(db, locationID, items)
}

// GetWarehouseStock returns the quantity for (warehouseID, sku), zero when no
// row exists.
func GetWarehouseStock(db *gorm.DB, warehouseID uint, sku string) (int, error) {
	var row models.WarehouseStock
	err := db.Where("warehouse_id = ? AND sku = ?", warehouseID, sku).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.Quantity, nil
}

// GetLocationStock returns the quantity for (locationID, sku), zero when no
// row exists.
func GetLocationStock(db *gorm.DB, locationID uint, sku string) (int, error) {
	var row models.LocationStock
	err := db.Where("location_id = ? AND sku = ?", locationID, sku).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.Quantity, nil
}
