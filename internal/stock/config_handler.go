package stock

import (
	"hatch-backend/internal/database"
	"hatch-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SetLocationConfigRequest struct {
	SKU      string `json:"sku"`
	MinStock *int   `json:"min_stock"`
	MaxStock *int   `json:"max_stock"`
}

type LocationConfigResponse struct {
	SKU      string `json:"sku"`
	MinStock *int   `json:"min_stock"`
	MaxStock *int   `json:"max_stock"`
}

// GET /api/locations/:id/config
func ListLocationConfigHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		locationID, err := parseIDParam(c)
		if err != nil {
			return err
		}

		var configs []models.LocationConfig
		if err := database.DB.Where("location_id = ?", locationID).Order("sku ASC").Find(&configs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list location config")
		}

		resp := make([]LocationConfigResponse, 0, len(configs))
		for _, cfg := range configs {
			resp = append(resp, LocationConfigResponse{
				SKU:      cfg.SKU,
				MinStock: cfg.MinStock,
				MaxStock: cfg.MaxStock,
			})
		}

		return c.JSON(resp)
	}
}

// PUT /api/locations/:id/config
// Upserts min/max thresholds for one SKU. Both can be nil to clear a
// threshold; max below min is stored as given.
func SetLocationConfigHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		locationID, err := parseIDParam(c)
		if err != nil {
			return err
		}

		var body SetLocationConfigRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.SKU == "" {
			return fiber.NewError(fiber.StatusBadRequest, "sku is required")
		}
		if body.MinStock != nil && *body.MinStock < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "min_stock cannot be negative")
		}
		if body.MaxStock != nil && *body.MaxStock < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "max_stock cannot be negative")
		}

		var location models.Location
		if err := database.DB.First(&location, "id = ?", locationID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Location not found")
		}

		var cfg models.LocationConfig
		err = database.DB.Where("location_id = ? AND sku = ?", locationID, body.SKU).First(&cfg).Error
		if err != nil {
			cfg = models.LocationConfig{LocationID: locationID, SKU: body.SKU}
		}
		cfg.MinStock = body.MinStock
		cfg.MaxStock = body.MaxStock

		if err := database.DB.Save(&cfg).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save location config")
		}

		return c.JSON(LocationConfigResponse{
			SKU:      cfg.SKU,
			MinStock: cfg.MinStock,
			MaxStock: cfg.MaxStock,
		})
	}
}
