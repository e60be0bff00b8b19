package stock

import (
	"fmt"
	"strconv"

	"hatch-backend/internal/database"
	"hatch-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SetStockRequest struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
	IsDelta  bool   `json:"is_delta"`
}

type BulkStockRequest struct {
	Items []ItemQuantity `json:"items"`
}

type StockRowResponse struct {
	SKU         string `json:"sku"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	MinStock    *int   `json:"min_stock,omitempty"`
	MaxStock    *int   `json:"max_stock,omitempty"`
	Status      Status `json:"status"`
}

func parseIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	return uint(id), nil
}

// productNamesBySKU is shared display plumbing for the stock listings.
func productNamesBySKU() (map[string]string, error) {
	var products []models.Product
	if err := database.DB.Find(&products).Error; err != nil {
		return nil, err
	}
	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.SKU] = p.Name
	}
	return names, nil
}

// GET /api/warehouses/:id/stock
func ListWarehouseStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		warehouseID, err := parseIDParam(c)
		if err != nil {
			return err
		}

		var warehouse models.Warehouse
		if err := database.DB.First(&warehouse, "id = ?", warehouseID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Warehouse not found")
		}

		var rows []models.WarehouseStock
		if err := database.DB.Where("warehouse_id = ?", warehouseID).Order("sku ASC").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list warehouse stock")
		}

		names, err := productNamesBySKU()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load products")
		}

		resp := make([]StockRowResponse, 0, len(rows))
		for _, row := range rows {
			resp = append(resp, StockRowResponse{
				SKU:         row.SKU,
				ProductName: names[row.SKU],
				Quantity:    row.Quantity,
				Status:      StatusOk, // warehouse stock carries no thresholds
			})
		}

		return c.JSON(resp)
	}
}

// PUT /api/warehouses/:id/stock
func SetWarehouseStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		warehouseID, err := parseIDParam(c)
		if err != nil {
			return err
		}

		var body SetStockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.SKU == "" {
			return fiber.NewError(fiber.StatusBadRequest, "sku is required")
		}

		var warehouse models.Warehouse
		if err := database.DB.First(&warehouse, "id = ?", warehouseID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Warehouse not found")
		}

		newQty, err := SetWarehouseStock(database.DB, warehouseID, body.SKU, body.Quantity, body.IsDelta)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update warehouse stock")
		}

		return c.JSON(fiber.Map{
			"warehouse_id": warehouseID,
			"sku":          body.SKU,
			"quantity":     newQty,
		})
	}
}

// GET /api/locations/:id/stock
// Rows carry min/max config and the classified status.
func ListLocationStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		locationID, err := parseIDParam(c)
		if err != nil {
			return err
		}

		var location models.Location
		if err := database.DB.First(&location, "id = ?", locationID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Location not found")
		}

		var rows []models.LocationStock
		if err := database.DB.Where("location_id = ?", locationID).Order("sku ASC").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list location stock")
		}

		var configs []models.LocationConfig
		if err := database.DB.Where("location_id = ?", locationID).Find(&configs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load location config")
		}
		configBySKU := make(map[string]models.LocationConfig, len(configs))
		for _, cfg := range configs {
			configBySKU[cfg.SKU] = cfg
		}

		names, err := productNamesBySKU()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load products")
		}

		resp := make([]StockRowResponse, 0, len(rows))
		for _, row := range rows {
			var min, max *int
			if cfg, ok := configBySKU[row.SKU]; ok {
				min, max = cfg.MinStock, cfg.MaxStock
			}
			resp = append(resp, StockRowResponse{
				SKU:         row.SKU,
				ProductName: names[row.SKU],
				Quantity:    row.Quantity,
				MinStock:    min,
				MaxStock:    max,
				Status:      StatusFor(row.Quantity, min, max),
			})
		}

		return c.JSON(resp)
	}
}

// PUT /api/locations/:id/stock
// Absolute write for one SKU.
func SetLocationStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		locationID, err := parseIDParam(c)
		if err != nil {
			return err
		}

		var body SetStockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.SKU == "" {
			return fiber.NewError(fiber.StatusBadRequest, "sku is required")
		}
		if body.IsDelta {
			return fiber.NewError(fiber.StatusBadRequest, "Location stock writes are absolute; use restocks for deltas")
		}

		var location models.Location
		if err := database.DB.First(&location, "id = ?", locationID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Location not found")
		}

		newQty, err := SetLocationStock(database.DB, locationID, body.SKU, body.Quantity)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update location stock")
		}

		return c.JSON(fiber.Map{
			"location_id": locationID,
			"sku":         body.SKU,
			"quantity":    newQty,
		})
	}
}

// POST /api/locations/:id/stock/merge
// Upserts the listed SKUs, leaves the rest alone.
func MergeLocationStockHandler() fiber.Handler {
	return bulkLocationStockHandler(MergeLocationStock, "merge")
}

// POST /api/locations/:id/stock/replace
// Full replacement of the location's stock map.
func ReplaceLocationStockHandler() fiber.Handler {
	return bulkLocationStockHandler(ReplaceLocationStock, "replace")
}

func bulkLocationStockHandler(op func(db *gorm.DB, locationID uint, items []ItemQuantity) error, verb string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		locationID, err := parseIDParam(c)
		if err != nil {
			return err
		}

		var body BulkStockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "At least one item is required")
		}
		for _, item := range body.Items {
			if item.SKU == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Every item needs a sku")
			}
		}

		var location models.Location
		if err := database.DB.First(&location, "id = ?", locationID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Location not found")
		}

		if err := op(database.DB, locationID, body.Items); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("Could not %s location stock", verb))
		}

		return c.JSON(fiber.Map{
			"location_id": locationID,
			"updated":     len(body.Items),
		})
	}
}
