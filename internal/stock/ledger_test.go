package stock

import (
	"testing"

	"hatch-backend/internal/database"

	"github.com/glebarez/sqlite"
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

func TestSetWarehouseStockAbsolute(t *testing.T) {
	db := testDB(t)

	qty, err := SetWarehouseStock(db, 1, "CHOC-001", 25, false)
	require.NoError(t, err)
	require.Equal(t, 25, qty)

	qty, err = SetWarehouseStock(db, 1, "CHOC-001", 10, false)
	require.NoError(t, err)
	require.Equal(t, 10, qty)

	got, err := GetWarehouseStock(db, 1, "CHOC-001")
	require.NoError(t, err)
	require.Equal(t, 10, got)
}

func TestSetWarehouseStockDelta(t *testing.T) {
	db := testDB(t)

	_, err := SetWarehouseStock(db, 1, "CHOC-001", 10, false)
	require.NoError(t, err)

	qty, err := SetWarehouseStock(db, 1, "CHOC-001", -4, true)
	require.NoError(t, err)
	require.Equal(t, 6, qty)
}

func TestWarehouseStockClampsAtZero(t *testing.T) {
	db := testDB(t)

	_, err := SetWarehouseStock(db, 1, "CHOC-001", 5, false)
	require.NoError(t, err)

	// removing more than is on hand floors at zero, no error
	qty, err := SetWarehouseStock(db, 1, "CHOC-001", -20, true)
	require.NoError(t, err)
	require.Equal(t, 0, qty)
}

func TestNegativeAbsoluteClampsAtZero(t *testing.T) {
	db := testDB(t)

	qty, err := SetWarehouseStock(db, 1, "CHOC-001", -3, false)
	require.NoError(t, err)
	require.Equal(t, 0, qty)
}

func TestGetStockReturnsZeroWhenAbsent(t *testing.T) {
	db := testDB(t)

	qty, err := GetWarehouseStock(db, 99, "NOPE")
	require.NoError(t, err)
	require.Equal(t, 0, qty)

	qty, err = GetLocationStock(db, 99, "NOPE")
	require.NoError(t, err)
	require.Equal(t, 0, qty)
}

func TestMergeLocationStockLeavesOtherRows(t *testing.T) {
	db := testDB(t)

	_, err := SetLocationStock(db, 1, "CHOC-001", 5)
	require.NoError(t, err)
	_, err = SetLocationStock(db, 1, "CRISP-002", 8)
	require.NoError(t, err)

	err = MergeLocationStock(db, 1, []ItemQuantity{
		{SKU: "CHOC-001", Quantity: 12},
		{SKU: "SODA-003", Quantity: 3},
	})
	require.NoError(t, err)

	qty, _ := GetLocationStock(db, 1, "CHOC-001")
	require.Equal(t, 12, qty)
	qty, _ = GetLocationStock(db, 1, "CRISP-002")
	require.Equal(t, 8, qty) // untouched
	qty, _ = GetLocationStock(db, 1, "SODA-003")
	require.Equal(t, 3, qty)
}

func TestReplaceLocationStockDropsOtherRows(t *testing.T) {
	db := testDB(t)

	_, err := SetLocationStock(db, 1, "CHOC-001", 5)
	require.NoError(t, err)
	_, err = SetLocationStock(db, 1, "CRISP-002", 8)
	require.NoError(t, err)

	err = ReplaceLocationStock(db, 1, []ItemQuantity{
		{SKU: "CHOC-001", Quantity: 12},
	})
	require.NoError(t, err)

	qty, _ := GetLocationStock(db, 1, "CHOC-001")
	require.Equal(t, 12, qty)
	qty, _ = GetLocationStock(db, 1, "CRISP-002")
	require.Equal(t, 0, qty) // replaced away
}

func TestReplaceScopedToLocation(t *testing.T) {
	db := testDB(t)

	_, err := SetLocationStock(db, 1, "CHOC-001", 5)
	require.NoError(t, err)
	_, err = SetLocationStock(db, 2, "CHOC-001", 7)
	require.NoError(t, err)

	err = ReplaceLocationStock(db, 1, nil)
	require.NoError(t, err)

	qty, _ := GetLocationStock(db, 2, "CHOC-001")
	require.Equal(t, 7, qty)
}

func TestAdjustLocationStockFloorsAtZero(t *testing.T) {
	db := testDB(t)

	_, err := SetLocationStock(db, 1, "CHOC-001", 2)
	require.NoError(t, err)

	qty, err := AdjustLocationStock(db, 1, "CHOC-001", -5)
	require.NoError(t, err)
	require.Equal(t, 0, qty)
}
