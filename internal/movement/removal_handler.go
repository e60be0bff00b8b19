package movement

import (
	"errors"
	"fmt"
	"strconv"

	"hatch-backend/internal/audit"
	"hatch-backend/internal/auth"
	"hatch-backend/internal/database"
	"hatch-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateRemovalRequest struct {
	WarehouseID      uint           `json:"warehouse_id"`
	IsAdhoc          bool           `json:"is_adhoc"`
	RouteID          *uint          `json:"route_id"`
	TargetLocationID *uint          `json:"target_location_id"`
	TakenBy          string         `json:"taken_by"`
	Note             string         `json:"note"`
	Items            []MovementItem `json:"items"`
}

type RemovalResponse struct {
	ID               uint           `json:"id"`
	WarehouseID      uint           `json:"warehouse_id"`
	TargetKind       string         `json:"target_kind"`
	RouteID          *uint          `json:"route_id,omitempty"`
	TargetLocationID *uint          `json:"target_location_id,omitempty"`
	TakenBy          string         `json:"taken_by"`
	Note             string         `json:"note,omitempty"`
	Items            []MovementItem `json:"items"`
	CreatedAt        string         `json:"created_at"`
}

func removalResponse(r *models.Removal) RemovalResponse {
	resp := RemovalResponse{
		ID:               r.ID,
		WarehouseID:      r.WarehouseID,
		TargetKind:       string(r.TargetKind),
		RouteID:          r.RouteID,
		TargetLocationID: r.TargetLocationID,
		TakenBy:          r.TakenBy,
		Note:             r.Note,
		CreatedAt:        r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	for _, item := range r.Items {
		resp.Items = append(resp.Items, MovementItem{SKU: item.SKU, Quantity: item.Quantity})
	}
	return resp
}

// POST /api/removals
func CreateRemovalHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRemovalRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.WarehouseID == 0 || body.TakenBy == "" {
			return fiber.NewError(fiber.StatusBadRequest, "warehouse_id and taken_by are required")
		}

		var warehouse models.Warehouse
		if err := database.DB.First(&warehouse, "id = ?", body.WarehouseID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Warehouse not found")
		}

		kind := models.RemovalRouted
		if body.IsAdhoc {
			kind = models.RemovalAdhoc
		}
		if kind == models.RemovalRouted {
			if body.RouteID == nil {
				return fiber.NewError(fiber.StatusBadRequest, "route_id is required for a routed removal")
			}
			var route models.Route
			if err := database.DB.First(&route, "id = ?", *body.RouteID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Route not found")
			}
			if body.TargetLocationID != nil {
				var location models.Location
				if err := database.DB.First(&location, "id = ?", *body.TargetLocationID).Error; err != nil {
					return fiber.NewError(fiber.StatusNotFound, "Target location not found")
				}
			}
		}

		removal, err := RecordRemoval(database.DB, RemovalInput{
			WarehouseID:      body.WarehouseID,
			TargetKind:       kind,
			RouteID:          body.RouteID,
			TargetLocationID: body.TargetLocationID,
			TakenBy:          body.TakenBy,
			Note:             body.Note,
			Items:            body.Items,
		})
		if err != nil {
			if errors.Is(err, ErrNoItems) || errors.Is(err, ErrBadQuantity) || errors.Is(err, ErrRouteRequired) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not record removal")
		}

		userID, userName, err := auth.CurrentUser(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "removal",
				EntityID:    removal.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Removal from warehouse %d: %d items, taken by %s", removal.WarehouseID, len(removal.Items), removal.TakenBy),
				After:       removal,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(removalResponse(removal))
	}
}

// GET /api/removals
// Filters: warehouse_id, route_id, adhoc=true.
func ListRemovalsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Preload("Items").Order("created_at DESC")

		if warehouseIDStr := c.Query("warehouse_id"); warehouseIDStr != "" {
			warehouseID, err := strconv.ParseUint(warehouseIDStr, 10, 32)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid warehouse_id")
			}
			q = q.Where("warehouse_id = ?", uint(warehouseID))
		}
		if routeIDStr := c.Query("route_id"); routeIDStr != "" {
			routeID, err := strconv.ParseUint(routeIDStr, 10, 32)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid route_id")
			}
			q = q.Where("route_id = ?", uint(routeID))
		}
		if c.Query("adhoc") == "true" {
			q = q.Where("target_kind = ?", models.RemovalAdhoc)
		}

		var removals []models.Removal
		if err := q.Find(&removals).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list removals")
		}

		resp := make([]RemovalResponse, 0, len(removals))
		for i := range removals {
			resp = append(resp, removalResponse(&removals[i]))
		}

		return c.JSON(resp)
	}
}
