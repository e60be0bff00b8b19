package catalog

import (
	"strings"

	"hatch-backend/internal/database"
	"hatch-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/routes
func ListRoutesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var routes []models.Route
		if err := database.DB.Order("name asc").Find(&routes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list routes")
		}
		return c.JSON(routes)
	}
}

// GET /api/routes/:id/locations
func ListRouteLocationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var route models.Route
		if err := database.DB.First(&route, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Route not found")
		}

		var locations []models.Location
		if err := database.DB.Where("route_id = ?", route.ID).Order("name asc").Find(&locations).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list route locations")
		}

		res := make([]LocationResponse, 0, len(locations))
		for i := range locations {
			res = append(res, locationResponse(&locations[i]))
		}
		return c.JSON(res)
	}
}

// POST /api/routes
func CreateRouteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}

		var existing models.Route
		if err := database.DB.Where("name = ?", body.Name).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusConflict, "A route with this name already exists")
		}

		r := models.Route{Name: body.Name, Description: strings.TrimSpace(body.Description)}
		if err := database.DB.Create(&r).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create route")
		}

		return c.Status(fiber.StatusCreated).JSON(r)
	}
}

// PUT /api/routes/:id
func UpdateRouteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var r models.Route
		if err := database.DB.First(&r, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Route not found")
		}

		var body struct {
			Name        *string `json:"name"`
			Description *string `json:"description"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name cannot be empty")
			}
			r.Name = name
		}
		if body.Description != nil {
			r.Description = strings.TrimSpace(*body.Description)
		}

		if err := database.DB.Save(&r).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update route")
		}

		return c.JSON(r)
	}
}

// DELETE /api/routes/:id
// Locations on the route are unlinked, not deleted.
func DeleteRouteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var r models.Route
		if err := database.DB.First(&r, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Route not found")
		}

		if err := database.DB.Model(&models.Location{}).Where("route_id = ?", r.ID).Update("route_id", nil).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not detach locations from route")
		}

		if err := database.DB.Delete(&r).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete route")
		}

		return c.JSON(fiber.Map{"message": "Route deleted"})
	}
}
