package sales

import (
	"strconv"
	"strings"

	"hatch-backend/internal/database"
	"hatch-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/sales/mappings
func ListMappingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var mappings []models.LocationMapping
		if err := database.DB.Preload("Location").Order("name ASC").Find(&mappings).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list location mappings")
		}
		return c.JSON(mappings)
	}
}

// PUT /api/sales/mappings
// Upserts by name, so repointing a POS name at a different location is the
// same call as creating the mapping.
func UpsertMappingHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Name       string `json:"name"`
			LocationID uint   `json:"location_id"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" || body.LocationID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "name and location_id are required")
		}

		var location models.Location
		if err := database.DB.First(&location, "id = ?", body.LocationID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Location not found")
		}

		var mapping models.LocationMapping
		err := database.DB.Where("name = ?", body.Name).First(&mapping).Error
		if err == nil {
			mapping.LocationID = body.LocationID
			if err := database.DB.Save(&mapping).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not update location mapping")
			}
			return c.JSON(mapping)
		}

		mapping = models.LocationMapping{Name: body.Name, LocationID: body.LocationID}
		if err := database.DB.Create(&mapping).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create location mapping")
		}

		return c.Status(fiber.StatusCreated).JSON(mapping)
	}
}

// DELETE /api/sales/mappings/:id
func DeleteMappingHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid mapping ID")
		}

		var mapping models.LocationMapping
		if err := database.DB.First(&mapping, "id = ?", uint(id)).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Location mapping not found")
		}

		if err := database.DB.Delete(&mapping).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete location mapping")
		}

		return c.JSON(fiber.Map{"message": "Location mapping deleted"})
	}
}
