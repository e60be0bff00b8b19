package audit

import (
	"strconv"

	"hatch-backend/internal/database"
	"hatch-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/audit-logs
// Optional filters: entity_type, entity_id, limit (default 100, max 500).
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := 100
		if limitStr := c.Query("limit"); limitStr != "" {
			if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
				limit = n
			}
		}
		if limit > 500 {
			limit = 500
		}

		q := database.DB.Model(&models.AuditLog{}).Order("created_at DESC").Limit(limit)

		if entityType := c.Query("entity_type"); entityType != "" {
			q = q.Where("entity_type = ?", entityType)
		}
		if entityIDStr := c.Query("entity_id"); entityIDStr != "" {
			entityID, err := strconv.ParseUint(entityIDStr, 10, 32)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid entity_id")
			}
			q = q.Where("entity_id = ?", uint(entityID))
		}

		var logs []models.AuditLog
		if err := q.Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list audit logs")
		}

		return c.JSON(logs)
	}
}
