package orders

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"hatch-backend/internal/audit"
	"hatch-backend/internal/auth"
	"hatch-backend/internal/database"
	"hatch-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateOrderRequest struct {
	SupplierID      uint             `json:"supplier_id"`
	WarehouseID     *uint            `json:"warehouse_id"`
	DeliveryAddress string           `json:"delivery_address"`
	DeliveryFee     float64          `json:"delivery_fee"`
	Notes           string           `json:"notes"`
	InvoiceRef      string           `json:"invoice_ref"`
	InvoiceImageURL string           `json:"invoice_image_url"`
	Items           []OrderItemInput `json:"items"`
}

type ReceiveOrderRequest struct {
	WarehouseID uint               `json:"warehouse_id"`
	Items       []ReceiveItemInput `json:"items"`
}

type OrderItemResponse struct {
	SKU       string  `json:"sku"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type OrderResponse struct {
	ID              uint                `json:"id"`
	Reference       string              `json:"reference"`
	SupplierID      uint                `json:"supplier_id"`
	SupplierName    string              `json:"supplier_name,omitempty"`
	WarehouseID     *uint               `json:"warehouse_id,omitempty"`
	DeliveryAddress string              `json:"delivery_address,omitempty"`
	DeliveryFee     float64             `json:"delivery_fee"`
	TotalAmount     float64             `json:"total_amount"`
	Notes           string              `json:"notes,omitempty"`
	InvoiceRef      string              `json:"invoice_ref,omitempty"`
	Status          string              `json:"status"`
	ReceivedAt      string              `json:"received_at,omitempty"`
	CreatedAt       string              `json:"created_at"`
	Items           []OrderItemResponse `json:"items"`
}

func orderResponse(o *models.Order) OrderResponse {
	resp := OrderResponse{
		ID:              o.ID,
		Reference:       o.Reference,
		SupplierID:      o.SupplierID,
		SupplierName:    o.Supplier.Name,
		WarehouseID:     o.WarehouseID,
		DeliveryAddress: o.DeliveryAddress,
		DeliveryFee:     o.DeliveryFee,
		TotalAmount:     o.TotalAmount,
		Notes:           o.Notes,
		InvoiceRef:      o.InvoiceRef,
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if o.ReceivedAt != nil {
		resp.ReceivedAt = o.ReceivedAt.Format("2006-01-02 15:04:05")
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			SKU:       item.SKU,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return resp
}

// POST /api/orders
func CreateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.SupplierID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "supplier_id is required")
		}
		var supplier models.Supplier
		if err := database.DB.First(&supplier, "id = ?", body.SupplierID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Supplier not found")
		}
		if body.WarehouseID != nil {
			var warehouse models.Warehouse
			if err := database.DB.First(&warehouse, "id = ?", *body.WarehouseID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Warehouse not found")
			}
		}
		if body.WarehouseID == nil && body.DeliveryAddress == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Either warehouse_id or delivery_address is required")
		}

		order, err := CreateOrder(database.DB, CreateOrderInput{
			SupplierID:      body.SupplierID,
			WarehouseID:     body.WarehouseID,
			DeliveryAddress: body.DeliveryAddress,
			DeliveryFee:     body.DeliveryFee,
			Notes:           body.Notes,
			InvoiceRef:      body.InvoiceRef,
			InvoiceImageURL: body.InvoiceImageURL,
			Items:           body.Items,
		})
		if err != nil {
			if errors.Is(err, ErrNoItems) || errors.Is(err, ErrBadQuantity) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create order")
		}
		order.Supplier = supplier

		userID, userName, err := auth.CurrentUser(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "order",
				EntityID:    order.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Order %s created: %d items, total %.2f", order.Reference, len(order.Items), order.TotalAmount),
				After:       order,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(orderResponse(order))
	}
}

// GET /api/orders
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Preload("Items").Preload("Supplier").Order("created_at DESC")

		if status := c.Query("status"); status != "" {
			if status != string(models.OrderPending) && status != string(models.OrderReceived) {
				return fiber.NewError(fiber.StatusBadRequest, "status must be pending or received")
			}
			q = q.Where("status = ?", status)
		}
		if supplierIDStr := c.Query("supplier_id"); supplierIDStr != "" {
			supplierID, err := strconv.ParseUint(supplierIDStr, 10, 32)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid supplier_id")
			}
			q = q.Where("supplier_id = ?", uint(supplierID))
		}

		var orders []models.Order
		if err := q.Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list orders")
		}

		resp := make([]OrderResponse, 0, len(orders))
		for i := range orders {
			resp = append(resp, orderResponse(&orders[i]))
		}

		return c.JSON(resp)
	}
}

// GET /api/orders/:id
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID, err := parseIDParam(c)
		if err != nil {
			return err
		}

		var order models.Order
		if err := database.DB.Preload("Items").Preload("Supplier").First(&order, "id = ?", orderID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Order not found")
		}

		return c.JSON(orderResponse(&order))
	}
}

// PUT /api/orders/:id
// Pending orders only; replaces the item list and header fields.
func UpdateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID, err := parseIDParam(c)
		if err != nil {
			return err
		}

		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, ErrNoItems.Error())
		}

		var order models.Order
		if err := database.DB.Preload("Items").Preload("Supplier").First(&order, "id = ?", orderID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Order not found")
		}
		if order.Status != models.OrderPending {
			return fiber.NewError(fiber.StatusConflict, ErrNotPending.Error())
		}

		before := order

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			order.Items = nil
			for _, item := range body.Items {
				if item.SKU == "" || item.Quantity <= 0 {
					return ErrBadQuantity
				}
				order.Items = append(order.Items, models.OrderItem{
					OrderID:   order.ID,
					SKU:       item.SKU,
					Quantity:  item.Quantity,
					UnitPrice: item.UnitPrice,
				})
			}
			order.DeliveryFee = body.DeliveryFee
			order.DeliveryAddress = body.DeliveryAddress
			order.Notes = body.Notes
			order.InvoiceRef = body.InvoiceRef
			order.TotalAmount = orderTotal(body.Items, body.DeliveryFee)
			if body.WarehouseID != nil {
				order.WarehouseID = body.WarehouseID
			}
			return tx.Save(&order).Error
		})
		if err != nil {
			if errors.Is(err, ErrBadQuantity) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update order")
		}

		userID, userName, err := auth.CurrentUser(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "order",
				EntityID:    order.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Order %s updated", order.Reference),
				Before:      before,
				After:       order,
			})
		}

		return c.JSON(orderResponse(&order))
	}
}

// POST /api/orders/:id/receive
func ReceiveOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID, err := parseIDParam(c)
		if err != nil {
			return err
		}

		var body ReceiveOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.WarehouseID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "warehouse_id is required")
		}

		var warehouse models.Warehouse
		if err := database.DB.First(&warehouse, "id = ?", body.WarehouseID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Warehouse not found")
		}

		order, err := ReceiveOrder(database.DB, orderID, body.WarehouseID, body.Items, time.Now())
		if err != nil {
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				return fiber.NewError(fiber.StatusNotFound, "Order not found")
			case errors.Is(err, ErrAlreadyReceived):
				return fiber.NewError(fiber.StatusConflict, err.Error())
			case errors.Is(err, ErrNoItems), errors.Is(err, ErrBadQuantity):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "Could not receive order")
			}
		}

		userID, userName, err := auth.CurrentUser(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "order",
				EntityID:    order.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Order %s received into warehouse %s", order.Reference, warehouse.Name),
				After:       order,
			})
		}

		return c.JSON(orderResponse(order))
	}
}

// GET /api/orders/suggestions?location_id=
func SuggestOrderItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		locationIDStr := c.Query("location_id")
		if locationIDStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "location_id is required")
		}
		locationID, err := strconv.ParseUint(locationIDStr, 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid location_id")
		}

		var location models.Location
		if err := database.DB.First(&location, "id = ?", uint(locationID)).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Location not found")
		}

		suggestions, err := SuggestOrderItems(database.DB, uint(locationID))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build suggestions")
		}

		return c.JSON(fiber.Map{
			"location_id": location.ID,
			"location":    location.Name,
			"suggestions": suggestions,
		})
	}
}

func parseIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	return uint(id), nil
}
