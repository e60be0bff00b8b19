package dashboard

import (
	"time"

	"hatch-backend/internal/database"
	"hatch-backend/internal/models"
	"hatch-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type OverviewResponse struct {
	Products   int64 `json:"products"`
	Warehouses int64 `json:"warehouses"`
	Locations  int64 `json:"locations"`
	Suppliers  int64 `json:"suppliers"`

	LowStockItems     int `json:"low_stock_items"`
	WarningStockItems int `json:"warning_stock_items"`

	PendingOrders int64 `json:"pending_orders"`

	ExpiringBatches int64 `json:"expiring_batches"` // within 30 days
	ExpiredBatches  int64 `json:"expired_batches"`

	RevenueLast7Days float64 `json:"revenue_last_7_days"`
	UnitsLast7Days   int     `json:"units_last_7_days"`
}

// GET /api/dashboard/overview
func OverviewHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		now := time.Now()
		var resp OverviewResponse

		database.DB.Model(&models.Product{}).Count(&resp.Products)
		database.DB.Model(&models.Warehouse{}).Count(&resp.Warehouses)
		database.DB.Model(&models.Location{}).Count(&resp.Locations)
		database.DB.Model(&models.Supplier{}).Count(&resp.Suppliers)

		// stock status is only meaningful where thresholds are configured
		var configs []models.LocationConfig
		if err := database.DB.Find(&configs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not read stock configuration")
		}
		for _, cfg := range configs {
			qty, err := stock.GetLocationStock(database.DB, cfg.LocationID, cfg.SKU)
			if err != nil {
				continue
			}
			switch stock.StatusFor(qty, cfg.MinStock, cfg.MaxStock) {
			case stock.StatusLow:
				resp.LowStockItems++
			case stock.StatusWarning:
				resp.WarningStockItems++
			}
		}

		database.DB.Model(&models.Order{}).Where("status = ?", models.OrderPending).Count(&resp.PendingOrders)

		horizon := now.AddDate(0, 0, 30)
		database.DB.Model(&models.StockBatch{}).
			Where("remaining_qty > 0 AND expiry_date IS NOT NULL AND expiry_date > ? AND expiry_date <= ?", now, horizon).
			Count(&resp.ExpiringBatches)
		database.DB.Model(&models.StockBatch{}).
			Where("remaining_qty > 0 AND expiry_date IS NOT NULL AND expiry_date <= ?", now).
			Count(&resp.ExpiredBatches)

		weekAgo := now.AddDate(0, 0, -7)
		var sales []models.Sale
		if err := database.DB.Where("sold_at >= ?", weekAgo).Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not read recent sales")
		}
		revenue := decimal.Zero
		for _, sale := range sales {
			revenue = revenue.Add(decimal.NewFromFloat(sale.Charged))
			resp.UnitsLast7Days += sale.Quantity
		}
		resp.RevenueLast7Days, _ = revenue.Round(2).Float64()

		return c.JSON(resp)
	}
}
