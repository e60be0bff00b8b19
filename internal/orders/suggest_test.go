package orders

import (
	"testing"

	"hatch-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func intPtr(v int) *int { return &v }

func seedProduct(t *testing.T, db *gorm.DB, sku, name string, unitsPerBox int) {
	t.Helper()
	require.NoError(t, db.Create(&models.Product{SKU: sku, Name: name, UnitsPerBox: unitsPerBox}).Error)
}

func seedConfig(t *testing.T, db *gorm.DB, locationID uint, sku string, min, max *int) {
	t.Helper()
	require.NoError(t, db.Create(&models.LocationConfig{LocationID: locationID, SKU: sku, MinStock: min, MaxStock: max}).Error)
}

func seedStock(t *testing.T, db *gorm.DB, locationID uint, sku string, qty int) {
	t.Helper()
	require.NoError(t, db.Create(&models.LocationStock{LocationID: locationID, SKU: sku, Quantity: qty}).Error)
}

func TestSuggestRoundsUpToWholeBoxes(t *testing.T) {
	db := testDB(t)

	seedProduct(t, db, "CHOC-001", "Milk Chocolate Bar", 6)
	seedConfig(t, db, 1, "CHOC-001", intPtr(2), intPtr(10))
	seedStock(t, db, 1, "CHOC-001", 4)

	suggestions, err := SuggestOrderItems(db, 1)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)

	// shortage 6 at boxes of 6 is exactly one box
	assert.Equal(t, 6, suggestions[0].Shortage)
	assert.Equal(t, 6, suggestions[0].OrderQty)
	assert.Equal(t, PriorityWarning, suggestions[0].Priority)
}

func TestSuggestSkipsSmallShortage(t *testing.T) {
	db := testDB(t)

	seedProduct(t, db, "CHOC-001", "Milk Chocolate Bar", 6)
	seedConfig(t, db, 1, "CHOC-001", nil, intPtr(10))
	seedStock(t, db, 1, "CHOC-001", 8)

	// shortage 2 is under half of max, not worth a line on the order
	suggestions, err := SuggestOrderItems(db, 1)
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestSuggestCriticalAtOrBelowMin(t *testing.T) {
	db := testDB(t)

	seedProduct(t, db, "CHOC-001", "Milk Chocolate Bar", 1)
	seedConfig(t, db, 1, "CHOC-001", intPtr(3), intPtr(10))
	seedStock(t, db, 1, "CHOC-001", 2)

	suggestions, err := SuggestOrderItems(db, 1)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, PriorityCritical, suggestions[0].Priority)
	assert.Equal(t, 8, suggestions[0].OrderQty)
}

func TestSuggestSkipsUnconfiguredMax(t *testing.T) {
	db := testDB(t)

	seedProduct(t, db, "CHOC-001", "Milk Chocolate Bar", 1)
	seedConfig(t, db, 1, "CHOC-001", intPtr(3), nil)

	suggestions, err := SuggestOrderItems(db, 1)
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestSuggestMissingStockRowMeansZero(t *testing.T) {
	db := testDB(t)

	seedProduct(t, db, "CHOC-001", "Milk Chocolate Bar", 1)
	seedConfig(t, db, 1, "CHOC-001", intPtr(2), intPtr(10))
	// no stock row at all

	suggestions, err := SuggestOrderItems(db, 1)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, 0, suggestions[0].CurrentStock)
	assert.Equal(t, 10, suggestions[0].OrderQty)
	assert.Equal(t, PriorityCritical, suggestions[0].Priority)
}

func TestSuggestHonorsAssignedItems(t *testing.T) {
	db := testDB(t)

	seedProduct(t, db, "CHOC-001", "Milk Chocolate Bar", 1)
	seedProduct(t, db, "CRISP-002", "Salted Crisps", 1)
	seedConfig(t, db, 1, "CHOC-001", nil, intPtr(10))
	seedConfig(t, db, 1, "CRISP-002", nil, intPtr(10))
	require.NoError(t, db.Create(&models.LocationAssignedItem{LocationID: 1, SKU: "CRISP-002"}).Error)

	suggestions, err := SuggestOrderItems(db, 1)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "CRISP-002", suggestions[0].SKU)
}

func TestSuggestOrderingCriticalFirst(t *testing.T) {
	db := testDB(t)

	seedProduct(t, db, "CHOC-001", "Milk Chocolate Bar", 1)
	seedProduct(t, db, "CRISP-002", "Salted Crisps", 1)
	seedConfig(t, db, 1, "CHOC-001", nil, intPtr(10))       // warning only
	seedConfig(t, db, 1, "CRISP-002", intPtr(5), intPtr(10)) // critical
	seedStock(t, db, 1, "CHOC-001", 1)
	seedStock(t, db, 1, "CRISP-002", 4)

	suggestions, err := SuggestOrderItems(db, 1)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	assert.Equal(t, "CRISP-002", suggestions[0].SKU)
	assert.Equal(t, PriorityCritical, suggestions[0].Priority)
}
