package orders

import (
	"fmt"
	"log"

	"hatch-backend/internal/database"

	"github.com/gofiber/fiber/v2"
)

// POST /api/orders/parse-invoice
// Takes pasted invoice text in the "text" field and returns draft order
// lines matched against the catalog. Nothing is persisted.
func ParseInvoiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Text string `json:"text"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body; a 'text' field is required")
		}
		if body.Text == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Invoice text cannot be empty")
		}

		result, err := ParseInvoiceText(database.DB, body.Text)
		if err != nil {
			log.Printf("invoice parse failed: %v", err)
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Could not parse invoice: %v", err))
		}

		return c.JSON(result)
	}
}
