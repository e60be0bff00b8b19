package stock

import (
	"strconv"
	"time"

	"hatch-backend/internal/database"
	"hatch-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type BatchResponse struct {
	ID           uint        `json:"id"`
	WarehouseID  uint        `json:"warehouse_id"`
	SKU          string      `json:"sku"`
	ProductName  string      `json:"product_name"`
	OrderID      *uint       `json:"order_id,omitempty"`
	Quantity     int         `json:"quantity"`
	RemainingQty int         `json:"remaining_qty"`
	ExpiryDate   string      `json:"expiry_date,omitempty"`
	ExpiryStatus ExpiryState `json:"expiry_status,omitempty"`
	HasDamage    bool        `json:"has_damage"`
	DamageNotes  string      `json:"damage_notes,omitempty"`
	ReceivedAt   string      `json:"received_at"`
}

func batchResponse(b models.StockBatch, names map[string]string, now time.Time) BatchResponse {
	resp := BatchResponse{
		ID:           b.ID,
		WarehouseID:  b.WarehouseID,
		SKU:          b.SKU,
		ProductName:  names[b.SKU],
		OrderID:      b.OrderID,
		Quantity:     b.Quantity,
		RemainingQty: b.RemainingQty,
		HasDamage:    b.HasDamage,
		DamageNotes:  b.DamageNotes,
		ReceivedAt:   b.ReceivedAt.Format("2006-01-02 15:04:05"),
	}
	if b.ExpiryDate != nil {
		resp.ExpiryDate = b.ExpiryDate.Format("2006-01-02")
		resp.ExpiryStatus = ExpiryStatus(*b.ExpiryDate, now)
	}
	return resp
}

// GET /api/batches
// Filters: warehouse_id, sku, expiry_status (ok/warning/critical/expired),
// live=true to hide fully consumed batches.
func ListBatchesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.StockBatch{}).Order("received_at DESC")

		if warehouseIDStr := c.Query("warehouse_id"); warehouseIDStr != "" {
			warehouseID, err := strconv.ParseUint(warehouseIDStr, 10, 32)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid warehouse_id")
			}
			q = q.Where("warehouse_id = ?", uint(warehouseID))
		}
		if sku := c.Query("sku"); sku != "" {
			q = q.Where("sku = ?", sku)
		}
		if c.Query("live") == "true" {
			q = q.Where("remaining_qty > 0")
		}

		var batches []models.StockBatch
		if err := q.Find(&batches).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list batches")
		}

		names, err := productNamesBySKU()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load products")
		}

		now := time.Now()
		wantStatus := ExpiryState(c.Query("expiry_status"))

		resp := make([]BatchResponse, 0, len(batches))
		for _, b := range batches {
			r := batchResponse(b, names, now)
			if wantStatus != "" && r.ExpiryStatus != wantStatus {
				continue
			}
			resp = append(resp, r)
		}

		return c.JSON(resp)
	}
}

// GET /api/batches/expiring
// Live batches expiring within ?days= (default 30), soonest first.
func ListExpiringBatchesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		days := 30
		if daysStr := c.Query("days"); daysStr != "" {
			n, err := strconv.Atoi(daysStr)
			if err != nil || n < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid days")
			}
			days = n
		}

		now := time.Now()
		cutoff := now.AddDate(0, 0, days)

		var batches []models.StockBatch
		if err := database.DB.
			Where("remaining_qty > 0 AND expiry_date IS NOT NULL AND expiry_date <= ?", cutoff).
			Order("expiry_date ASC").
			Find(&batches).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list expiring batches")
		}

		names, err := productNamesBySKU()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load products")
		}

		resp := make([]BatchResponse, 0, len(batches))
		for _, b := range batches {
			resp = append(resp, batchResponse(b, names, now))
		}

		return c.JSON(resp)
	}
}

// PUT /api/batches/:id/damage
// Flags or clears damage on a batch after the fact.
func UpdateBatchDamageHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		batchID, err := parseIDParam(c)
		if err != nil {
			return err
		}

		var body struct {
			HasDamage   bool   `json:"has_damage"`
			DamageNotes string `json:"damage_notes"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var batch models.StockBatch
		if err := database.DB.First(&batch, "id = ?", batchID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Batch not found")
		}

		batch.HasDamage = body.HasDamage
		batch.DamageNotes = body.DamageNotes
		if err := database.DB.Save(&batch).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update batch")
		}

		names, err := productNamesBySKU()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load products")
		}

		return c.JSON(batchResponse(batch, names, time.Now()))
	}
}
