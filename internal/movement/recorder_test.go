package movement

import (
	"testing"

	"hatch-backend/internal/database"
	"hatch-backend/internal/models"
	"hatch-backend/internal/stock"

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

func uintPtr(v uint) *uint { return &v }

func TestRecordRemovalDecrementsWarehouse(t *testing.T) {
	db := testDB(t)

	_, err := stock.SetWarehouseStock(db, 1, "CHOC-001", 20, false)
	require.NoError(t, err)

	removal, err := RecordRemoval(db, RemovalInput{
		WarehouseID: 1,
		TargetKind:  models.RemovalAdhoc,
		TakenBy:     "dave",
		Items:       []MovementItem{{SKU: "CHOC-001", Quantity: 6}},
	})
	require.NoError(t, err)
	require.Len(t, removal.Items, 1)

	qty, err := stock.GetWarehouseStock(db, 1, "CHOC-001")
	require.NoError(t, err)
	assert.Equal(t, 14, qty)
}

func TestRecordRemovalFloorsAtZero(t *testing.T) {
	db := testDB(t)

	_, err := stock.SetWarehouseStock(db, 1, "CHOC-001", 3, false)
	require.NoError(t, err)

	_, err = RecordRemoval(db, RemovalInput{
		WarehouseID: 1,
		TargetKind:  models.RemovalAdhoc,
		TakenBy:     "dave",
		Items:       []MovementItem{{SKU: "CHOC-001", Quantity: 10}},
	})
	require.NoError(t, err)

	qty, _ := stock.GetWarehouseStock(db, 1, "CHOC-001")
	assert.Equal(t, 0, qty)
}

func TestRecordRemovalNeverCreditsLocation(t *testing.T) {
	db := testDB(t)

	_, err := stock.SetWarehouseStock(db, 1, "CHOC-001", 20, false)
	require.NoError(t, err)

	_, err = RecordRemoval(db, RemovalInput{
		WarehouseID:      1,
		TargetKind:       models.RemovalRouted,
		RouteID:          uintPtr(1),
		TargetLocationID: uintPtr(4),
		TakenBy:          "dave",
		Items:            []MovementItem{{SKU: "CHOC-001", Quantity: 6}},
	})
	require.NoError(t, err)

	// the stock is in transit; the location sees nothing until a restock
	qty, _ := stock.GetLocationStock(db, 4, "CHOC-001")
	assert.Equal(t, 0, qty)
}

func TestRecordRemovalRoutedNeedsRoute(t *testing.T) {
	db := testDB(t)

	_, err := RecordRemoval(db, RemovalInput{
		WarehouseID: 1,
		TargetKind:  models.RemovalRouted,
		TakenBy:     "dave",
		Items:       []MovementItem{{SKU: "CHOC-001", Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrRouteRequired)
}

func TestRecordRemovalAdhocDropsRouteFields(t *testing.T) {
	db := testDB(t)

	removal, err := RecordRemoval(db, RemovalInput{
		WarehouseID:      1,
		TargetKind:       models.RemovalAdhoc,
		RouteID:          uintPtr(2),
		TargetLocationID: uintPtr(3),
		TakenBy:          "dave",
		Items:            []MovementItem{{SKU: "CHOC-001", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Nil(t, removal.RouteID)
	assert.Nil(t, removal.TargetLocationID)
}

func TestRecordRemovalValidation(t *testing.T) {
	db := testDB(t)

	_, err := RecordRemoval(db, RemovalInput{WarehouseID: 1, TargetKind: models.RemovalAdhoc, TakenBy: "dave"})
	require.ErrorIs(t, err, ErrNoItems)

	_, err = RecordRemoval(db, RemovalInput{
		WarehouseID: 1,
		TargetKind:  models.RemovalAdhoc,
		TakenBy:     "dave",
		Items:       []MovementItem{{SKU: "CHOC-001", Quantity: 0}},
	})
	require.ErrorIs(t, err, ErrBadQuantity)
}

func TestRemovalThenRestockConservesUnits(t *testing.T) {
	db := testDB(t)

	_, err := stock.SetWarehouseStock(db, 1, "CHOC-001", 20, false)
	require.NoError(t, err)

	_, err = RecordRemoval(db, RemovalInput{
		WarehouseID:      1,
		TargetKind:       models.RemovalRouted,
		RouteID:          uintPtr(1),
		TargetLocationID: uintPtr(4),
		TakenBy:          "dave",
		Items:            []MovementItem{{SKU: "CHOC-001", Quantity: 6}},
	})
	require.NoError(t, err)

	_, err = RecordRestock(db, RestockInput{
		LocationID:  4,
		PerformedBy: "dave",
		PhotoWaived: true,
		Items:       []MovementItem{{SKU: "CHOC-001", Quantity: 6}},
	})
	require.NoError(t, err)

	warehouseQty, _ := stock.GetWarehouseStock(db, 1, "CHOC-001")
	locationQty, _ := stock.GetLocationStock(db, 4, "CHOC-001")
	assert.Equal(t, 14, warehouseQty)
	assert.Equal(t, 6, locationQty)
	assert.Equal(t, 20, warehouseQty+locationQty)
}

func TestRecordRestockAddsToExistingStock(t *testing.T) {
	db := testDB(t)

	_, err := stock.SetLocationStock(db, 4, "CHOC-001", 3)
	require.NoError(t, err)

	_, err = RecordRestock(db, RestockInput{
		LocationID:  4,
		PerformedBy: "dave",
		PhotoWaived: true,
		Items:       []MovementItem{{SKU: "CHOC-001", Quantity: 5}},
	})
	require.NoError(t, err)

	qty, _ := stock.GetLocationStock(db, 4, "CHOC-001")
	assert.Equal(t, 8, qty)
}

func TestSubmitStockCheckComputesVariance(t *testing.T) {
	db := testDB(t)

	_, err := stock.SetLocationStock(db, 4, "CHOC-001", 10)
	require.NoError(t, err)
	_, err = stock.SetLocationStock(db, 4, "CRISP-002", 5)
	require.NoError(t, err)

	check, err := SubmitStockCheck(db, StockCheckInput{
		LocationID:  4,
		PerformedBy: "dave",
		Items: []StockCheckItemInput{
			{SKU: "CHOC-001", Counted: 7, Reason: models.ShrinkageTheft},
			{SKU: "CRISP-002", Counted: 6},
		},
	})
	require.NoError(t, err)
	require.Len(t, check.Items, 2)

	assert.Equal(t, 10, check.Items[0].Expected)
	assert.Equal(t, -3, check.Items[0].Variance)
	assert.Equal(t, models.ShrinkageTheft, check.Items[0].Reason)

	// overage carries no shrinkage reason
	assert.Equal(t, 1, check.Items[1].Variance)
	assert.Equal(t, "", check.Items[1].Reason)

	// ledger is overwritten to the counted values
	qty, _ := stock.GetLocationStock(db, 4, "CHOC-001")
	assert.Equal(t, 7, qty)
	qty, _ = stock.GetLocationStock(db, 4, "CRISP-002")
	assert.Equal(t, 6, qty)
}

func TestSubmitStockCheckDefaultsReasonToUnknown(t *testing.T) {
	db := testDB(t)

	_, err := stock.SetLocationStock(db, 4, "CHOC-001", 10)
	require.NoError(t, err)

	check, err := SubmitStockCheck(db, StockCheckInput{
		LocationID:  4,
		PerformedBy: "dave",
		Items:       []StockCheckItemInput{{SKU: "CHOC-001", Counted: 8}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.ShrinkageUnknown, check.Items[0].Reason)
}

func TestSubmitStockCheckResubmitIsIdempotent(t *testing.T) {
	db := testDB(t)

	_, err := stock.SetLocationStock(db, 4, "CHOC-001", 10)
	require.NoError(t, err)

	_, err = SubmitStockCheck(db, StockCheckInput{
		LocationID:  4,
		PerformedBy: "dave",
		Items:       []StockCheckItemInput{{SKU: "CHOC-001", Counted: 7}},
	})
	require.NoError(t, err)

	// same count again: expected now matches, variance is zero
	check, err := SubmitStockCheck(db, StockCheckInput{
		LocationID:  4,
		PerformedBy: "dave",
		Items:       []StockCheckItemInput{{SKU: "CHOC-001", Counted: 7}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, check.Items[0].Variance)
	assert.Equal(t, "", check.Items[0].Reason)
}

func TestSubmitStockCheckRejectsNegativeCount(t *testing.T) {
	db := testDB(t)

	_, err := SubmitStockCheck(db, StockCheckInput{
		LocationID:  4,
		PerformedBy: "dave",
		Items:       []StockCheckItemInput{{SKU: "CHOC-001", Counted: -1}},
	})
	require.ErrorIs(t, err, ErrBadQuantity)
}
