package sales

import (
	"fmt"

	"hatch-backend/internal/models"

	"gorm.io/gorm"
)

// ImportResult: counts and per-row problems from one import run.
type ImportResult struct {
	Import          *models.SaleImport
	RowErrors       []string
	ProductsCreated int
}

// ImportSales persists parsed records, deduplicating on the caller-supplied
// external ID (both against the database and within the batch). Unseen SKUs
// with a product name get a catalog entry created on the fly. Row problems
// are collected, never fatal; the import history row is written either way.
func ImportSales(db *gorm.DB, records []SaleRecord, filename string, rowErrors []string) (*ImportResult, error) {
	result := &ImportResult{RowErrors: rowErrors}

	added := 0
	skipped := 0
	seen := make(map[string]bool, len(records))

	for _, record := range records {
		if seen[record.ExternalID] {
			skipped++
			continue
		}
		seen[record.ExternalID] = true

		var count int64
		if err := db.Model(&models.Sale{}).Where("external_id = ?", record.ExternalID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("could not check for duplicate sale: %w", err)
		}
		if count > 0 {
			skipped++
			continue
		}

		if record.SKU != "" && record.ProductName != "" {
			created, err := ensureProduct(db, record)
			if err != nil {
				result.RowErrors = append(result.RowErrors, fmt.Sprintf("sale %s: could not create product %s: %v", record.ExternalID, record.SKU, err))
			} else if created {
				result.ProductsCreated++
			}
		}

		sale := models.Sale{
			ExternalID:    record.ExternalID,
			SKU:           record.SKU,
			ProductName:   record.ProductName,
			Category:      record.Category,
			Quantity:      record.Quantity,
			Charged:       record.Charged,
			CostPrice:     record.CostPrice,
			PaymentMethod: record.PaymentMethod,
			LocationName:  record.LocationName,
			SoldAt:        record.SoldAt,
		}
		if err := db.Create(&sale).Error; err != nil {
			result.RowErrors = append(result.RowErrors, fmt.Sprintf("sale %s: %v", record.ExternalID, err))
			continue
		}
		added++
	}

	importRow := models.SaleImport{
		Filename:       filename,
		RecordsAdded:   added,
		RecordsSkipped: skipped,
		ErrorCount:     len(result.RowErrors),
	}
	if err := db.Create(&importRow).Error; err != nil {
		return nil, fmt.Errorf("could not write import history: %w", err)
	}

	result.Import = &importRow
	return result, nil
}

// ensureProduct creates a minimal catalog entry for an unseen SKU. Reports
// whether a product was created.
func ensureProduct(db *gorm.DB, record SaleRecord) (bool, error) {
	var count int64
	if err := db.Model(&models.Product{}).Where("sku = ?", record.SKU).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	product := models.Product{
		SKU:         record.SKU,
		Name:        record.ProductName,
		Category:    record.Category,
		UnitCost:    record.CostPrice,
		SalePrice:   record.Charged,
		UnitsPerBox: 1,
	}
	if err := db.Create(&product).Error; err != nil {
		return false, err
	}
	return true, nil
}
