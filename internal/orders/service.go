package orders

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"hatch-backend/internal/models"
	"hatch-backend/internal/stock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNoItems         = errors.New("an order needs at least one item")
	ErrBadQuantity     = errors.New("item quantities must be positive")
	ErrAlreadyReceived = errors.New("order has already been received")
	ErrNotPending      = errors.New("only pending orders can be changed")
)

type OrderItemInput struct {
	SKU       string  `json:"sku"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type CreateOrderInput struct {
	SupplierID      uint
	WarehouseID     *uint
	DeliveryAddress string
	DeliveryFee     float64
	Notes           string
	InvoiceRef      string
	InvoiceImageURL string
	Items           []OrderItemInput
}

type ReceiveItemInput struct {
	SKU         string `json:"sku"`
	Quantity    int    `json:"quantity"`
	ExpiryDate  string `json:"expiry_date"` // YYYY-MM-DD, optional
	HasDamage   bool   `json:"has_damage"`
	DamageNotes string `json:"damage_notes"`
}

// orderTotal sums the item lines plus the delivery fee with decimal
// arithmetic so repeated float addition cannot drift the stored total.
func orderTotal(items []OrderItemInput, deliveryFee float64) float64 {
	total := decimal.NewFromFloat(deliveryFee)
	for _, item := range items {
		line := decimal.NewFromFloat(item.UnitPrice).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	f, _ := total.Float64()
	return f
}

// CreateOrder validates and stores a new pending purchase order.
func CreateOrder(db *gorm.DB, input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrNoItems
	}
	for _, item := range input.Items {
		if item.SKU == "" || item.Quantity <= 0 {
			return nil, ErrBadQuantity
		}
	}

	order := models.Order{
		Reference:       "PO-" + strings.ToUpper(uuid.New().String()[:8]),
		SupplierID:      input.SupplierID,
		WarehouseID:     input.WarehouseID,
		DeliveryAddress: input.DeliveryAddress,
		DeliveryFee:     input.DeliveryFee,
		TotalAmount:     orderTotal(input.Items, input.DeliveryFee),
		Notes:           input.Notes,
		InvoiceRef:      input.InvoiceRef,
		InvoiceImageURL: input.InvoiceImageURL,
		Status:          models.OrderPending,
	}
	for _, item := range input.Items {
		order.Items = append(order.Items, models.OrderItem{
			SKU:       item.SKU,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	if err := db.Create(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ReceiveOrder moves a pending order to received: one stock batch per item,
// a warehouse stock increment per item, and the status flip all happen in a
// single transaction. Receiving anything but a pending order fails with
// ErrAlreadyReceived.
func ReceiveOrder(db *gorm.DB, orderID uint, warehouseID uint, items []ReceiveItemInput, now time.Time) (*models.Order, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	var order models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
			return err
		}
		if order.Status != models.OrderPending {
			return ErrAlreadyReceived
		}

		for _, item := range items {
			if item.SKU == "" || item.Quantity <= 0 {
				return ErrBadQuantity
			}

			var expiry *time.Time
			if item.ExpiryDate != "" {
				d, err := time.Parse("2006-01-02", item.ExpiryDate)
				if err != nil {
					return fmt.Errorf("invalid expiry date for %s: %w", item.SKU, err)
				}
				expiry = &d
			}

			if _, err := stock.ReceiveBatch(tx, warehouseID, item.SKU, item.Quantity, expiry, item.HasDamage, item.DamageNotes, &order.ID, now); err != nil {
				return fmt.Errorf("could not create batch for %s: %w", item.SKU, err)
			}
			if _, err := stock.SetWarehouseStock(tx, warehouseID, item.SKU, item.Quantity, true); err != nil {
				return fmt.Errorf("could not increment warehouse stock for %s: %w", item.SKU, err)
			}
		}

		order.Status = models.OrderReceived
		order.ReceivedAt = &now
		order.WarehouseID = &warehouseID
		return tx.Save(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
