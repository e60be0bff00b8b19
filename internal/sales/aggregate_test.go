package sales

import (
	"testing"
	"time"

	"hatch-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedSale(t *testing.T, db *gorm.DB, id, sku, category string, qty int, charged, cost float64, soldAt time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&models.Sale{
		ExternalID:  id,
		SKU:         sku,
		ProductName: sku + " name",
		Category:    category,
		Quantity:    qty,
		Charged:     charged,
		CostPrice:   cost,
		SoldAt:      soldAt,
	}).Error)
}

func TestAggregateByProductMath(t *testing.T) {
	db := testDB(t)
	day := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	// two sales of the same SKU: 3 units, £3.30 revenue, cost 0.55/unit
	seedSale(t, db, "TX-1", "CHOC-001", "Chocolate", 1, 1.10, 0.55, day)
	seedSale(t, db, "TX-2", "CHOC-001", "Chocolate", 2, 2.20, 0.55, day)

	summaries, err := AggregateByProduct(db, nil, nil)
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.Equal(t, "CHOC-001", s.Key)
	assert.Equal(t, 3, s.Units)
	assert.Equal(t, 2, s.SaleCount)
	assert.InDelta(t, 3.30, s.Revenue, 0.001)
	assert.InDelta(t, 1.65, s.Cost, 0.001)
	assert.InDelta(t, 1.65, s.Profit, 0.001)
	assert.InDelta(t, 50.0, s.MarginPct, 0.01)
}

func TestAggregateMarginZeroWhenRevenueZero(t *testing.T) {
	db := testDB(t)

	// a free vend still carries cost but no revenue
	seedSale(t, db, "TX-1", "CHOC-001", "Chocolate", 1, 0, 0.55, time.Now())

	summaries, err := AggregateByProduct(db, nil, nil)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 0.0, summaries[0].MarginPct)
	assert.InDelta(t, -0.55, summaries[0].Profit, 0.001)
}

func TestAggregateByCategoryFallback(t *testing.T) {
	db := testDB(t)
	day := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	seedSale(t, db, "TX-1", "CHOC-001", "Chocolate", 1, 1.10, 0.55, day)
	seedSale(t, db, "TX-2", "MYST-009", "", 1, 0.50, 0.20, day)

	summaries, err := AggregateByCategory(db, nil, nil)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	keys := []string{summaries[0].Key, summaries[1].Key}
	assert.Contains(t, keys, "Chocolate")
	assert.Contains(t, keys, "uncategorized")
}

func TestAggregateByDayOrdering(t *testing.T) {
	db := testDB(t)

	seedSale(t, db, "TX-1", "CHOC-001", "Chocolate", 1, 1.10, 0.55, time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC))
	seedSale(t, db, "TX-2", "CHOC-001", "Chocolate", 1, 1.10, 0.55, time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC))
	seedSale(t, db, "TX-3", "CHOC-001", "Chocolate", 1, 1.10, 0.55, time.Date(2026, 8, 1, 17, 0, 0, 0, time.UTC))

	summaries, err := AggregateByDay(db, nil, nil)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "2026-08-01", summaries[0].Key)
	assert.Equal(t, 2, summaries[0].SaleCount)
	assert.Equal(t, "2026-08-02", summaries[1].Key)
}

func TestAggregateDateWindow(t *testing.T) {
	db := testDB(t)

	seedSale(t, db, "TX-1", "CHOC-001", "Chocolate", 1, 1.10, 0.55, time.Date(2026, 7, 31, 9, 0, 0, 0, time.UTC))
	seedSale(t, db, "TX-2", "CHOC-001", "Chocolate", 1, 1.10, 0.55, time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC))
	seedSale(t, db, "TX-3", "CHOC-001", "Chocolate", 1, 1.10, 0.55, time.Date(2026, 8, 5, 9, 0, 0, 0, time.UTC))

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC) // exclusive

	summaries, err := AggregateByProduct(db, &from, &to)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].SaleCount)
}
