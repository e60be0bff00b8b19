package orders

import (
	"testing"
	"time"

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

func TestCreateOrderComputesTotal(t *testing.T) {
	db := testDB(t)

	order, err := CreateOrder(db, CreateOrderInput{
		SupplierID:  1,
		DeliveryFee: 4.99,
		Items: []OrderItemInput{
			{SKU: "CHOC-001", Quantity: 10, UnitPrice: 0.55},
			{SKU: "CRISP-002", Quantity: 24, UnitPrice: 0.30},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderPending, order.Status)
	assert.InDelta(t, 4.99+5.50+7.20, order.TotalAmount, 0.001)
	assert.True(t, len(order.Reference) > 3 && order.Reference[:3] == "PO-")
	require.Len(t, order.Items, 2)
}

func TestCreateOrderValidation(t *testing.T) {
	db := testDB(t)

	_, err := CreateOrder(db, CreateOrderInput{SupplierID: 1})
	require.ErrorIs(t, err, ErrNoItems)

	_, err = CreateOrder(db, CreateOrderInput{
		SupplierID: 1,
		Items:      []OrderItemInput{{SKU: "CHOC-001", Quantity: 0}},
	})
	require.ErrorIs(t, err, ErrBadQuantity)
}

func TestReceiveOrderCreatesBatchAndStock(t *testing.T) {
	db := testDB(t)
	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	order, err := CreateOrder(db, CreateOrderInput{
		SupplierID: 1,
		Items:      []OrderItemInput{{SKU: "CHOC-001", Quantity: 10, UnitPrice: 0.55}},
	})
	require.NoError(t, err)

	received, err := ReceiveOrder(db, order.ID, 1, []ReceiveItemInput{
		{SKU: "CHOC-001", Quantity: 10, ExpiryDate: "2026-12-01"},
	}, now)
	require.NoError(t, err)

	assert.Equal(t, models.OrderReceived, received.Status)
	require.NotNil(t, received.ReceivedAt)
	require.NotNil(t, received.WarehouseID)
	assert.Equal(t, uint(1), *received.WarehouseID)

	qty, err := stock.GetWarehouseStock(db, 1, "CHOC-001")
	require.NoError(t, err)
	assert.Equal(t, 10, qty)

	var batches []models.StockBatch
	require.NoError(t, db.Where("order_id = ?", order.ID).Find(&batches).Error)
	require.Len(t, batches, 1)
	assert.Equal(t, 10, batches[0].Quantity)
	require.NotNil(t, batches[0].ExpiryDate)
}

func TestReceiveOrderAllowsPartialQuantities(t *testing.T) {
	db := testDB(t)

	order, err := CreateOrder(db, CreateOrderInput{
		SupplierID: 1,
		Items:      []OrderItemInput{{SKU: "CHOC-001", Quantity: 10, UnitPrice: 0.55}},
	})
	require.NoError(t, err)

	// delivery was short; the received quantity wins
	_, err = ReceiveOrder(db, order.ID, 1, []ReceiveItemInput{
		{SKU: "CHOC-001", Quantity: 7},
	}, time.Now())
	require.NoError(t, err)

	qty, _ := stock.GetWarehouseStock(db, 1, "CHOC-001")
	assert.Equal(t, 7, qty)
}

func TestReceiveOrderTwiceFails(t *testing.T) {
	db := testDB(t)

	order, err := CreateOrder(db, CreateOrderInput{
		SupplierID: 1,
		Items:      []OrderItemInput{{SKU: "CHOC-001", Quantity: 10, UnitPrice: 0.55}},
	})
	require.NoError(t, err)

	items := []ReceiveItemInput{{SKU: "CHOC-001", Quantity: 10}}
	_, err = ReceiveOrder(db, order.ID, 1, items, time.Now())
	require.NoError(t, err)

	_, err = ReceiveOrder(db, order.ID, 1, items, time.Now())
	require.ErrorIs(t, err, ErrAlreadyReceived)

	// the double receive must not have touched stock again
	qty, _ := stock.GetWarehouseStock(db, 1, "CHOC-001")
	assert.Equal(t, 10, qty)
}

func TestReceiveOrderBadExpiryRollsBack(t *testing.T) {
	db := testDB(t)

	order, err := CreateOrder(db, CreateOrderInput{
		SupplierID: 1,
		Items: []OrderItemInput{
			{SKU: "CHOC-001", Quantity: 10, UnitPrice: 0.55},
			{SKU: "CRISP-002", Quantity: 5, UnitPrice: 0.30},
		},
	})
	require.NoError(t, err)

	_, err = ReceiveOrder(db, order.ID, 1, []ReceiveItemInput{
		{SKU: "CHOC-001", Quantity: 10},
		{SKU: "CRISP-002", Quantity: 5, ExpiryDate: "not-a-date"},
	}, time.Now())
	require.Error(t, err)

	// the whole receive rolled back, including the first item
	qty, _ := stock.GetWarehouseStock(db, 1, "CHOC-001")
	assert.Equal(t, 0, qty)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderPending, reloaded.Status)
}
