package sales

import (
	"fmt"
	"sort"
	"time"

	"hatch-backend/internal/models"
	"hatch-backend/internal/stock"

	"gorm.io/gorm"
)

// ReconcileResult reports what a reconciliation run touched.
type ReconcileResult struct {
	UnitsDecremented int      `json:"units_decremented"`
	LocationsTouched int      `json:"locations_touched"`
	SkippedLocations []string `json:"skipped_locations"` // POS names with no mapping; no stock effect
}

// ReconcileStockFromSales decrements location stock by the units sold in the
// window, using the manual POS-name -> location mapping. Unmapped location
// names are skipped without error. Decrements floor at zero like every other
// ledger write. Running the same window twice decrements twice; the caller
// controls the window.
func ReconcileStockFromSales(db *gorm.DB, from, to *time.Time) (*ReconcileResult, error) {
	sales, err := salesInRange(db, from, to)
	if err != nil {
		return nil, err
	}

	type key struct {
		location string
		sku      string
	}
	totals := make(map[key]int)
	for _, sale := range sales {
		if sale.LocationName == "" || sale.SKU == "" {
			continue
		}
		totals[key{sale.LocationName, sale.SKU}] += sale.Quantity
	}

	var mappings []models.LocationMapping
	if err := db.Find(&mappings).Error; err != nil {
		return nil, err
	}
	locationIDByName := make(map[string]uint, len(mappings))
	for _, m := range mappings {
		locationIDByName[m.Name] = m.LocationID
	}

	result := &ReconcileResult{}
	skipped := make(map[string]bool)
	touched := make(map[uint]bool)

	err = db.Transaction(func(tx *gorm.DB) error {
		for k, qty := range totals {
			locationID, ok := locationIDByName[k.location]
			if !ok {
				skipped[k.location] = true
				continue
			}
			if _, err := stock.AdjustLocationStock(tx, locationID, k.sku, -qty); err != nil {
				return fmt.Errorf("could not decrement stock for %s at %s: %w", k.sku, k.location, err)
			}
			result.UnitsDecremented += qty
			touched[locationID] = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.LocationsTouched = len(touched)
	for name := range skipped {
		result.SkippedLocations = append(result.SkippedLocations, name)
	}
	sort.Strings(result.SkippedLocations)

	return result, nil
}
