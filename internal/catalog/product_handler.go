package catalog

import (
	"fmt"
	"strings"

	"hatch-backend/internal/audit"
	"hatch-backend/internal/auth"
	"hatch-backend/internal/database"
	"hatch-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ProductResponse struct {
	ID          uint    `json:"id"`
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Category    string  `json:"category,omitempty"`
	UnitCost    float64 `json:"unit_cost"`
	SalePrice   float64 `json:"sale_price"`
	UnitsPerBox int     `json:"units_per_box"`
	SupplierID  *uint   `json:"supplier_id,omitempty"`
	Barcode     string  `json:"barcode,omitempty"`
}

type CreateProductRequest struct {
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	UnitCost    float64 `json:"unit_cost"`
	SalePrice   float64 `json:"sale_price"`
	UnitsPerBox int     `json:"units_per_box"`
	SupplierID  *uint   `json:"supplier_id"`
	Barcode     string  `json:"barcode"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	UnitCost    *float64 `json:"unit_cost"`
	SalePrice   *float64 `json:"sale_price"`
	UnitsPerBox *int     `json:"units_per_box"`
	SupplierID  *uint    `json:"supplier_id"`
	Barcode     *string  `json:"barcode"`
}

func productResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Category:    p.Category,
		UnitCost:    p.UnitCost,
		SalePrice:   p.SalePrice,
		UnitsPerBox: p.UnitsPerBox,
		SupplierID:  p.SupplierID,
		Barcode:     p.Barcode,
	}
}

// GET /api/products
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("name asc")

		if category := c.Query("category"); category != "" {
			q = q.Where("category = ?", category)
		}
		if search := c.Query("search"); search != "" {
			like := "%" + strings.ToLower(search) + "%"
			q = q.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", like, like)
		}

		var products []models.Product
		if err := q.Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list products")
		}

		res := make([]ProductResponse, 0, len(products))
		for i := range products {
			res = append(res, productResponse(&products[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/products/:id
func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p models.Product
		if err := database.DB.First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}
		return c.JSON(productResponse(&p))
	}
}

// POST /api/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.SKU = strings.TrimSpace(body.SKU)
		body.Name = strings.TrimSpace(body.Name)

		if body.SKU == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "sku and name are required")
		}
		if body.UnitsPerBox < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "units_per_box cannot be negative")
		}
		if body.UnitsPerBox == 0 {
			body.UnitsPerBox = 1
		}

		var existing models.Product
		if err := database.DB.Where("sku = ?", body.SKU).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusConflict, "This SKU is already in use")
		}
		if body.SupplierID != nil {
			var supplier models.Supplier
			if err := database.DB.First(&supplier, "id = ?", *body.SupplierID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Supplier not found")
			}
		}

		p := models.Product{
			SKU:         body.SKU,
			Name:        body.Name,
			Category:    strings.TrimSpace(body.Category),
			UnitCost:    body.UnitCost,
			SalePrice:   body.SalePrice,
			UnitsPerBox: body.UnitsPerBox,
			SupplierID:  body.SupplierID,
			Barcode:     strings.TrimSpace(body.Barcode),
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create product")
		}

		userID, userName, err := auth.CurrentUser(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "product",
				EntityID:    p.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Created product %s (%s)", p.Name, p.SKU),
				After:       p,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(productResponse(&p))
	}
}

// PUT /api/products/:id
// SKU is immutable once created; stock, batches and sales all key on it.
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p models.Product
		if err := database.DB.First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}
		before := p

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name cannot be empty")
			}
			p.Name = name
		}
		if body.Category != nil {
			p.Category = strings.TrimSpace(*body.Category)
		}
		if body.UnitCost != nil {
			p.UnitCost = *body.UnitCost
		}
		if body.SalePrice != nil {
			p.SalePrice = *body.SalePrice
		}
		if body.UnitsPerBox != nil {
			if *body.UnitsPerBox < 1 {
				return fiber.NewError(fiber.StatusBadRequest, "units_per_box must be at least 1")
			}
			p.UnitsPerBox = *body.UnitsPerBox
		}
		if body.SupplierID != nil {
			if *body.SupplierID == 0 {
				p.SupplierID = nil
			} else {
				var supplier models.Supplier
				if err := database.DB.First(&supplier, "id = ?", *body.SupplierID).Error; err != nil {
					return fiber.NewError(fiber.StatusNotFound, "Supplier not found")
				}
				p.SupplierID = body.SupplierID
			}
		}
		if body.Barcode != nil {
			p.Barcode = strings.TrimSpace(*body.Barcode)
		}

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update product")
		}

		userID, userName, err := auth.CurrentUser(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "product",
				EntityID:    p.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Updated product %s (%s)", p.Name, p.SKU),
				Before:      before,
				After:       p,
			})
		}

		return c.JSON(productResponse(&p))
	}
}

// DELETE /api/products/:id
// Refused while the product still has stock anywhere; sales and movement
// history reference the SKU so a hard delete would orphan them.
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p models.Product
		if err := database.DB.First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		var warehouseUnits, locationUnits int64
		database.DB.Model(&models.WarehouseStock{}).Where("sku = ? AND quantity > 0", p.SKU).Count(&warehouseUnits)
		database.DB.Model(&models.LocationStock{}).Where("sku = ? AND quantity > 0", p.SKU).Count(&locationUnits)
		if warehouseUnits > 0 || locationUnits > 0 {
			return fiber.NewError(fiber.StatusConflict, "Product still has stock and cannot be deleted")
		}

		if err := database.DB.Delete(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete product")
		}

		userID, userName, err := auth.CurrentUser(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "product",
				EntityID:    p.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Deleted product %s (%s)", p.Name, p.SKU),
				Before:      p,
			})
		}

		return c.JSON(fiber.Map{"message": "Product deleted"})
	}
}
