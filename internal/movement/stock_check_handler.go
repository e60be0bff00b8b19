package movement

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"hatch-backend/internal/audit"
	"hatch-backend/internal/auth"
	"hatch-backend/internal/database"
	"hatch-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateStockCheckRequest struct {
	LocationID  uint                  `json:"location_id"`
	PerformedBy string                `json:"performed_by"`
	Items       []StockCheckItemInput `json:"items"`
}

type StockCheckItemResponse struct {
	SKU      string `json:"sku"`
	Expected int    `json:"expected"`
	Counted  int    `json:"counted"`
	Variance int    `json:"variance"`
	Reason   string `json:"reason,omitempty"`
}

type StockCheckResponse struct {
	ID          uint                     `json:"id"`
	LocationID  uint                     `json:"location_id"`
	PerformedBy string                   `json:"performed_by"`
	Items       []StockCheckItemResponse `json:"items"`
	CreatedAt   string                   `json:"created_at"`
}

func stockCheckResponse(check *models.StockCheck) StockCheckResponse {
	resp := StockCheckResponse{
		ID:          check.ID,
		LocationID:  check.LocationID,
		PerformedBy: check.PerformedBy,
		CreatedAt:   check.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	for _, item := range check.Items {
		resp.Items = append(resp.Items, StockCheckItemResponse{
			SKU:      item.SKU,
			Expected: item.Expected,
			Counted:  item.Counted,
			Variance: item.Variance,
			Reason:   item.Reason,
		})
	}
	return resp
}

// POST /api/stock-checks
func CreateStockCheckHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateStockCheckRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.LocationID == 0 || body.PerformedBy == "" {
			return fiber.NewError(fiber.StatusBadRequest, "location_id and performed_by are required")
		}

		var location models.Location
		if err := database.DB.First(&location, "id = ?", body.LocationID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Location not found")
		}

		check, err := SubmitStockCheck(database.DB, StockCheckInput{
			LocationID:  body.LocationID,
			PerformedBy: body.PerformedBy,
			Items:       body.Items,
		})
		if err != nil {
			if errors.Is(err, ErrNoItems) || errors.Is(err, ErrBadQuantity) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not submit stock check")
		}

		userID, userName, err := auth.CurrentUser(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "stock_check",
				EntityID:    check.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Stock check at %s: %d items by %s", location.Name, len(check.Items), check.PerformedBy),
				After:       check,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(stockCheckResponse(check))
	}
}

// GET /api/stock-checks
func ListStockChecksHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Preload("Items").Order("created_at DESC")

		if locationIDStr := c.Query("location_id"); locationIDStr != "" {
			locationID, err := strconv.ParseUint(locationIDStr, 10, 32)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid location_id")
			}
			q = q.Where("location_id = ?", uint(locationID))
		}

		var checks []models.StockCheck
		if err := q.Find(&checks).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list stock checks")
		}

		resp := make([]StockCheckResponse, 0, len(checks))
		for i := range checks {
			resp = append(resp, stockCheckResponse(&checks[i]))
		}

		return c.JSON(resp)
	}
}

// GET /api/stock-checks/shrinkage
// Aggregates negative variance between ?from= and ?to= (YYYY-MM-DD, both
// optional) grouped by reason and by SKU.
func ShrinkageReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.StockCheck{}).Preload("Items")

		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from must be YYYY-MM-DD")
			}
			q = q.Where("created_at >= ?", from)
		}
		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to must be YYYY-MM-DD")
			}
			q = q.Where("created_at < ?", to.AddDate(0, 0, 1))
		}

		var checks []models.StockCheck
		if err := q.Find(&checks).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load stock checks")
		}

		type skuLoss struct {
			SKU   string `json:"sku"`
			Units int    `json:"units"`
		}

		byReason := make(map[string]int)
		bySKU := make(map[string]int)
		totalLost := 0

		for _, check := range checks {
			for _, item := range check.Items {
				if item.Variance >= 0 {
					continue
				}
				lost := -item.Variance
				totalLost += lost
				bySKU[item.SKU] += lost
				reason := item.Reason
				if reason == "" {
					reason = models.ShrinkageUnknown
				}
				byReason[reason] += lost
			}
		}

		skuRows := make([]skuLoss, 0, len(bySKU))
		for sku, units := range bySKU {
			skuRows = append(skuRows, skuLoss{SKU: sku, Units: units})
		}
		sort.Slice(skuRows, func(i, j int) bool {
			if skuRows[i].Units != skuRows[j].Units {
				return skuRows[i].Units > skuRows[j].Units
			}
			return skuRows[i].SKU < skuRows[j].SKU
		})

		return c.JSON(fiber.Map{
			"total_units_lost": totalLost,
			"by_reason":        byReason,
			"by_sku":           skuRows,
			"checks_scanned":   len(checks),
		})
	}
}
