package sales

import (
	"testing"
	"time"

	"hatch-backend/internal/database"
	"hatch-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func saleRecord(id, sku string, qty int, soldAt time.Time) SaleRecord {
	return SaleRecord{
		ExternalID:  id,
		SKU:         sku,
		ProductName: "Milk Chocolate Bar",
		Category:    "Chocolate",
		Quantity:    qty,
		Charged:     1.10,
		CostPrice:   0.55,
		SoldAt:      soldAt,
	}
}

func TestImportSalesAddsRecords(t *testing.T) {
	db := testDB(t)
	soldAt := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	result, err := ImportSales(db, []SaleRecord{
		saleRecord("TX-1", "CHOC-001", 1, soldAt),
		saleRecord("TX-2", "CHOC-001", 2, soldAt),
	}, "august.csv", nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Import.RecordsAdded)
	assert.Equal(t, 0, result.Import.RecordsSkipped)
	assert.Equal(t, "august.csv", result.Import.Filename)

	var count int64
	db.Model(&models.Sale{}).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestImportSalesDeduplicates(t *testing.T) {
	db := testDB(t)
	soldAt := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	// duplicate within one batch
	result, err := ImportSales(db, []SaleRecord{
		saleRecord("TX-1", "CHOC-001", 1, soldAt),
		saleRecord("TX-1", "CHOC-001", 1, soldAt),
	}, "first.csv", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Import.RecordsAdded)
	assert.Equal(t, 1, result.Import.RecordsSkipped)

	// re-importing the same file adds nothing
	result, err = ImportSales(db, []SaleRecord{
		saleRecord("TX-1", "CHOC-001", 1, soldAt),
	}, "first-again.csv", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Import.RecordsAdded)
	assert.Equal(t, 1, result.Import.RecordsSkipped)

	var count int64
	db.Model(&models.Sale{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestImportSalesCreatesUnseenProducts(t *testing.T) {
	db := testDB(t)
	soldAt := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	result, err := ImportSales(db, []SaleRecord{
		saleRecord("TX-1", "CHOC-001", 1, soldAt),
	}, "august.csv", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ProductsCreated)

	var product models.Product
	require.NoError(t, db.Where("sku = ?", "CHOC-001").First(&product).Error)
	assert.Equal(t, "Milk Chocolate Bar", product.Name)
	assert.Equal(t, 1, product.UnitsPerBox)

	// a second import of the same SKU creates nothing new
	result, err = ImportSales(db, []SaleRecord{
		saleRecord("TX-2", "CHOC-001", 1, soldAt),
	}, "september.csv", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ProductsCreated)
}

func TestImportSalesKeepsExistingCatalogEntry(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.Create(&models.Product{SKU: "CHOC-001", Name: "Proper Name", UnitsPerBox: 6}).Error)

	_, err := ImportSales(db, []SaleRecord{
		saleRecord("TX-1", "CHOC-001", 1, time.Now()),
	}, "august.csv", nil)
	require.NoError(t, err)

	var product models.Product
	require.NoError(t, db.Where("sku = ?", "CHOC-001").First(&product).Error)
	assert.Equal(t, "Proper Name", product.Name)
	assert.Equal(t, 6, product.UnitsPerBox)
}

func TestImportSalesRecordsParserErrors(t *testing.T) {
	db := testDB(t)

	result, err := ImportSales(db, nil, "empty.csv", []string{"row 2: missing transaction id"})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Import.RecordsAdded)
	assert.Equal(t, 1, result.Import.ErrorCount)
}
