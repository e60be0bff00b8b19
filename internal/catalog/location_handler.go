package catalog

import (
	"strings"

	"hatch-backend/internal/database"
	"hatch-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LocationResponse struct {
	ID           uint                `json:"id"`
	Name         string              `json:"name"`
	Type         models.LocationType `json:"type"`
	Address      string              `json:"address,omitempty"`
	RouteID      *uint               `json:"route_id,omitempty"`
	AssignedSKUs []string            `json:"assigned_skus"` // empty means all products allowed
}

func locationResponse(l *models.Location) LocationResponse {
	resp := LocationResponse{
		ID:           l.ID,
		Name:         l.Name,
		Type:         l.Type,
		Address:      l.Address,
		RouteID:      l.RouteID,
		AssignedSKUs: []string{},
	}
	for _, item := range l.AssignedItems {
		resp.AssignedSKUs = append(resp.AssignedSKUs, item.SKU)
	}
	return resp
}

func validLocationType(t models.LocationType) bool {
	switch t {
	case models.LocationVending, models.LocationRetail, models.LocationDisplay, models.LocationStorage, models.LocationOther:
		return true
	}
	return false
}

// GET /api/locations
func ListLocationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Preload("AssignedItems").Order("name asc")

		if t := c.Query("type"); t != "" {
			q = q.Where("type = ?", t)
		}
		if routeID := c.Query("route_id"); routeID != "" {
			q = q.Where("route_id = ?", routeID)
		}

		var locations []models.Location
		if err := q.Find(&locations).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list locations")
		}

		res := make([]LocationResponse, 0, len(locations))
		for i := range locations {
			res = append(res, locationResponse(&locations[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/locations/:id
func GetLocationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var l models.Location
		if err := database.DB.Preload("AssignedItems").First(&l, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Location not found")
		}
		return c.JSON(locationResponse(&l))
	}
}

// POST /api/locations
func CreateLocationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Name    string              `json:"name"`
			Type    models.LocationType `json:"type"`
			Address string              `json:"address"`
			RouteID *uint               `json:"route_id"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}
		if body.Type == "" {
			body.Type = models.LocationVending
		}
		if !validLocationType(body.Type) {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid location type")
		}

		var existing models.Location
		if err := database.DB.Where("name = ?", body.Name).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusConflict, "A location with this name already exists")
		}
		if body.RouteID != nil {
			var route models.Route
			if err := database.DB.First(&route, "id = ?", *body.RouteID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Route not found")
			}
		}

		l := models.Location{
			Name:    body.Name,
			Type:    body.Type,
			Address: strings.TrimSpace(body.Address),
			RouteID: body.RouteID,
		}
		if err := database.DB.Create(&l).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create location")
		}

		return c.Status(fiber.StatusCreated).JSON(locationResponse(&l))
	}
}

// PUT /api/locations/:id
func UpdateLocationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var l models.Location
		if err := database.DB.Preload("AssignedItems").First(&l, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Location not found")
		}

		var body struct {
			Name       *string              `json:"name"`
			Type       *models.LocationType `json:"type"`
			Address    *string              `json:"address"`
			RouteID    *uint                `json:"route_id"`
			ClearRoute bool                 `json:"clear_route"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name cannot be empty")
			}
			l.Name = name
		}
		if body.Type != nil {
			if !validLocationType(*body.Type) {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid location type")
			}
			l.Type = *body.Type
		}
		if body.Address != nil {
			l.Address = strings.TrimSpace(*body.Address)
		}
		if body.ClearRoute {
			l.RouteID = nil
		} else if body.RouteID != nil {
			var route models.Route
			if err := database.DB.First(&route, "id = ?", *body.RouteID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Route not found")
			}
			l.RouteID = body.RouteID
		}

		if err := database.DB.Save(&l).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update location")
		}

		return c.JSON(locationResponse(&l))
	}
}

// PUT /api/locations/:id/assigned-items
// Replaces the allowed-SKU list in one shot. An empty list removes the
// restriction entirely, which means the location carries anything.
func SetAssignedItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var l models.Location
		if err := database.DB.First(&l, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Location not found")
		}

		var body struct {
			SKUs []string `json:"skus"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		seen := make(map[string]bool, len(body.SKUs))
		skus := make([]string, 0, len(body.SKUs))
		for _, sku := range body.SKUs {
			sku = strings.TrimSpace(sku)
			if sku == "" || seen[sku] {
				continue
			}
			var p models.Product
			if err := database.DB.Where("sku = ?", sku).First(&p).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Unknown SKU: "+sku)
			}
			seen[sku] = true
			skus = append(skus, sku)
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("location_id = ?", l.ID).Delete(&models.LocationAssignedItem{}).Error; err != nil {
				return err
			}
			for _, sku := range skus {
				if err := tx.Create(&models.LocationAssignedItem{LocationID: l.ID, SKU: sku}).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update assigned items")
		}

		return c.JSON(fiber.Map{"location_id": l.ID, "skus": skus})
	}
}

// DELETE /api/locations/:id
func DeleteLocationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var l models.Location
		if err := database.DB.First(&l, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Location not found")
		}

		var stockRows int64
		database.DB.Model(&models.LocationStock{}).Where("location_id = ? AND quantity > 0", l.ID).Count(&stockRows)
		if stockRows > 0 {
			return fiber.NewError(fiber.StatusConflict, "Location still holds stock and cannot be deleted")
		}

		if err := database.DB.Delete(&l).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete location")
		}

		return c.JSON(fiber.Map{"message": "Location deleted"})
	}
}
