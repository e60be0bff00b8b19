package catalog

import (
	"strings"

	"hatch-backend/internal/database"
	"hatch-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/warehouses
func ListWarehousesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var warehouses []models.Warehouse
		if err := database.DB.Order("name asc").Find(&warehouses).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list warehouses")
		}
		return c.JSON(warehouses)
	}
}

// POST /api/warehouses
func CreateWarehouseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Name    string `json:"name"`
			Address string `json:"address"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}

		var existing models.Warehouse
		if err := database.DB.Where("name = ?", body.Name).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusConflict, "A warehouse with this name already exists")
		}

		w := models.Warehouse{Name: body.Name, Address: strings.TrimSpace(body.Address)}
		if err := database.DB.Create(&w).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create warehouse")
		}

		return c.Status(fiber.StatusCreated).JSON(w)
	}
}

// PUT /api/warehouses/:id
func UpdateWarehouseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var w models.Warehouse
		if err := database.DB.First(&w, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Warehouse not found")
		}

		var body struct {
			Name    *string `json:"name"`
			Address *string `json:"address"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name cannot be empty")
			}
			w.Name = name
		}
		if body.Address != nil {
			w.Address = strings.TrimSpace(*body.Address)
		}

		if err := database.DB.Save(&w).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update warehouse")
		}

		return c.JSON(w)
	}
}

// DELETE /api/warehouses/:id
func DeleteWarehouseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var w models.Warehouse
		if err := database.DB.First(&w, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Warehouse not found")
		}

		var stockRows int64
		database.DB.Model(&models.WarehouseStock{}).Where("warehouse_id = ? AND quantity > 0", w.ID).Count(&stockRows)
		if stockRows > 0 {
			return fiber.NewError(fiber.StatusConflict, "Warehouse still holds stock and cannot be deleted")
		}

		if err := database.DB.Delete(&w).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete warehouse")
		}

		return c.JSON(fiber.Map{"message": "Warehouse deleted"})
	}
}
