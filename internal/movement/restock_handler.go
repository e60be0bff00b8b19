package movement

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"hatch-backend/internal/audit"
	"hatch-backend/internal/auth"
	"hatch-backend/internal/config"
	"hatch-backend/internal/database"
	"hatch-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type RestockResponse struct {
	ID           uint           `json:"id"`
	LocationID   uint           `json:"location_id"`
	PerformedBy  string         `json:"performed_by"`
	PhotoURL     string         `json:"photo_url,omitempty"`
	PhotoWaived  bool           `json:"photo_waived"`
	StockCheckID *uint          `json:"stock_check_id,omitempty"`
	Items        []MovementItem `json:"items"`
	CreatedAt    string         `json:"created_at"`
}

func restockResponse(r *models.Restock) RestockResponse {
	resp := RestockResponse{
		ID:           r.ID,
		LocationID:   r.LocationID,
		PerformedBy:  r.PerformedBy,
		PhotoURL:     r.PhotoURL,
		PhotoWaived:  r.PhotoWaived,
		StockCheckID: r.StockCheckID,
		CreatedAt:    r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	for _, item := range r.Items {
		resp.Items = append(resp.Items, MovementItem{SKU: item.SKU, Quantity: item.Quantity})
	}
	return resp
}

// POST /api/restocks
// Multipart form: "payload" JSON field plus an optional "photo" file. Policy:
// a restock needs photo evidence unless photo_waived is set explicitly.
func CreateRestockHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			LocationID   uint           `json:"location_id"`
			PerformedBy  string         `json:"performed_by"`
			PhotoWaived  bool           `json:"photo_waived"`
			StockCheckID *uint          `json:"stock_check_id"`
			Items        []MovementItem `json:"items"`
		}

		payload := c.FormValue("payload")
		if payload != "" {
			if err := json.Unmarshal([]byte(payload), &body); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid payload field")
			}
		} else if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.LocationID == 0 || body.PerformedBy == "" {
			return fiber.NewError(fiber.StatusBadRequest, "location_id and performed_by are required")
		}

		var location models.Location
		if err := database.DB.First(&location, "id = ?", body.LocationID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Location not found")
		}
		if body.StockCheckID != nil {
			var check models.StockCheck
			if err := database.DB.First(&check, "id = ?", *body.StockCheckID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Linked stock check not found")
			}
		}

		photoURL := ""
		fileHeader, err := c.FormFile("photo")
		if err == nil {
			ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
			if ext != ".jpg" && ext != ".jpeg" && ext != ".png" && ext != ".webp" {
				return fiber.NewError(fiber.StatusBadRequest, "Photo must be jpg, png or webp")
			}
			if err := os.MkdirAll(cfg.PhotoPath, 0o755); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not prepare photo directory")
			}
			filename := uuid.New().String() + ext
			if err := c.SaveFile(fileHeader, filepath.Join(cfg.PhotoPath, filename)); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not save photo")
			}
			photoURL = "/photos/" + filename
		}

		if photoURL == "" && !body.PhotoWaived {
			return fiber.NewError(fiber.StatusBadRequest, "A restock needs a photo or an explicit photo_waived flag")
		}

		restock, err := RecordRestock(database.DB, RestockInput{
			LocationID:   body.LocationID,
			PerformedBy:  body.PerformedBy,
			PhotoURL:     photoURL,
			PhotoWaived:  body.PhotoWaived && photoURL == "",
			StockCheckID: body.StockCheckID,
			Items:        body.Items,
		})
		if err != nil {
			if errors.Is(err, ErrNoItems) || errors.Is(err, ErrBadQuantity) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not record restock")
		}

		userID, userName, err := auth.CurrentUser(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "restock",
				EntityID:    restock.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Restock at %s: %d items by %s", location.Name, len(restock.Items), restock.PerformedBy),
				After:       restock,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(restockResponse(restock))
	}
}

// GET /api/restocks
func ListRestocksHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Preload("Items").Order("created_at DESC")

		if locationIDStr := c.Query("location_id"); locationIDStr != "" {
			locationID, err := strconv.ParseUint(locationIDStr, 10, 32)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid location_id")
			}
			q = q.Where("location_id = ?", uint(locationID))
		}

		var restocks []models.Restock
		if err := q.Find(&restocks).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list restocks")
		}

		resp := make([]RestockResponse, 0, len(restocks))
		for i := range restocks {
			resp = append(resp, restockResponse(&restocks[i]))
		}

		return c.JSON(resp)
	}
}
