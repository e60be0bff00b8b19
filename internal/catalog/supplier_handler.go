package catalog

import (
	"strings"

	"hatch-backend/internal/database"
	"hatch-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/suppliers
func ListSuppliersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var suppliers []models.Supplier
		if err := database.DB.Order("name asc").Find(&suppliers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list suppliers")
		}
		return c.JSON(suppliers)
	}
}

// POST /api/suppliers
func CreateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Name        string `json:"name"`
			ContactName string `json:"contact_name"`
			Email       string `json:"email"`
			Phone       string `json:"phone"`
			Notes       string `json:"notes"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}

		var existing models.Supplier
		if err := database.DB.Where("name = ?", body.Name).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusConflict, "A supplier with this name already exists")
		}

		s := models.Supplier{
			Name:        body.Name,
			ContactName: strings.TrimSpace(body.ContactName),
			Email:       strings.TrimSpace(body.Email),
			Phone:       strings.TrimSpace(body.Phone),
			Notes:       strings.TrimSpace(body.Notes),
		}
		if err := database.DB.Create(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create supplier")
		}

		return c.Status(fiber.StatusCreated).JSON(s)
	}
}

// PUT /api/suppliers/:id
func UpdateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var s models.Supplier
		if err := database.DB.First(&s, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Supplier not found")
		}

		var body struct {
			Name        *string `json:"name"`
			ContactName *string `json:"contact_name"`
			Email       *string `json:"email"`
			Phone       *string `json:"phone"`
			Notes       *string `json:"notes"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name cannot be empty")
			}
			s.Name = name
		}
		if body.ContactName != nil {
			s.ContactName = strings.TrimSpace(*body.ContactName)
		}
		if body.Email != nil {
			s.Email = strings.TrimSpace(*body.Email)
		}
		if body.Phone != nil {
			s.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.Notes != nil {
			s.Notes = strings.TrimSpace(*body.Notes)
		}

		if err := database.DB.Save(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update supplier")
		}

		return c.JSON(s)
	}
}

// DELETE /api/suppliers/:id
func DeleteSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var s models.Supplier
		if err := database.DB.First(&s, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Supplier not found")
		}

		// products keep their history; they just lose the supplier link
		if err := database.DB.Model(&models.Product{}).Where("supplier_id = ?", s.ID).Update("supplier_id", nil).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not detach supplier from products")
		}

		if err := database.DB.Delete(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete supplier")
		}

		return c.JSON(fiber.Map{"message": "Supplier deleted"})
	}
}
