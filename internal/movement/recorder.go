package movement

import (
	"errors"
	"fmt"

	"hatch-backend/internal/models"
	"hatch-backend/internal/stock"

	"gorm.io/gorm"
)

var (
	ErrNoItems       = errors.New("at least one item is required")
	ErrBadQuantity   = errors.New("item quantities must be positive")
	ErrRouteRequired = errors.New("a routed removal needs a route")
)

type MovementItem struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

type RemovalInput struct {
	WarehouseID      uint
	TargetKind       models.RemovalTarget
	RouteID          *uint
	TargetLocationID *uint
	TakenBy          string
	Note             string
	Items            []MovementItem
}

type RestockInput struct {
	LocationID   uint
	PerformedBy  string
	PhotoURL     string
	PhotoWaived  bool
	StockCheckID *uint
	Items        []MovementItem
}

type StockCheckItemInput struct {
	SKU     string `json:"sku"`
	Counted int    `json:"counted"`
	Reason  string `json:"reason"`
}

type StockCheckInput struct {
	LocationID  uint
	PerformedBy string
	Items       []StockCheckItemInput
}

func validateItems(items []MovementItem) error {
	if len(items) == 0 {
		return ErrNoItems
	}
	for _, item := range items {
		if item.SKU == "" || item.Quantity <= 0 {
			return ErrBadQuantity
		}
	}
	return nil
}

// RecordRemoval decrements warehouse stock per item (floored at zero) and
// appends one removal record, all in one transaction. A removal never credits
// a location, routed or not: arrival is a separate restock.
func RecordRemoval(db *gorm.DB, input RemovalInput) (*models.Removal, error) {
	if err := validateItems(input.Items); err != nil {
		return nil, err
	}
	if input.TargetKind == models.RemovalRouted && input.RouteID == nil {
		return nil, ErrRouteRequired
	}
	if input.TargetKind == models.RemovalAdhoc {
		input.RouteID = nil
		input.TargetLocationID = nil
	}

	removal := models.Removal{
		WarehouseID:      input.WarehouseID,
		TargetKind:       input.TargetKind,
		RouteID:          input.RouteID,
		TargetLocationID: input.TargetLocationID,
		TakenBy:          input.TakenBy,
		Note:             input.Note,
	}
	for _, item := range input.Items {
		removal.Items = append(removal.Items, models.RemovalItem{
			SKU:      item.SKU,
			Quantity: item.Quantity,
		})
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, item := range input.Items {
			if _, err := stock.SetWarehouseStock(tx, input.WarehouseID, item.SKU, -item.Quantity, true); err != nil {
				return fmt.Errorf("could not decrement warehouse stock for %s: %w", item.SKU, err)
			}
		}
		return tx.Create(&removal).Error
	})
	if err != nil {
		return nil, err
	}
	return &removal, nil
}

// RecordRestock delta-adds location stock per item and appends one restock
// record in one transaction. The photo-or-override policy is the handler's
// concern; the recorder just stores what it is given.
func RecordRestock(db *gorm.DB, input RestockInput) (*models.Restock, error) {
	if err := validateItems(input.Items); err != nil {
		return nil, err
	}

	restock := models.Restock{
		LocationID:   input.LocationID,
		PerformedBy:  input.PerformedBy,
		PhotoURL:     input.PhotoURL,
		PhotoWaived:  input.PhotoWaived,
		StockCheckID: input.StockCheckID,
	}
	for _, item := range input.Items {
		restock.Items = append(restock.Items, models.RestockItem{
			SKU:      item.SKU,
			Quantity: item.Quantity,
		})
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, item := range input.Items {
			if _, err := stock.AdjustLocationStock(tx, input.LocationID, item.SKU, item.Quantity); err != nil {
				return fmt.Errorf("could not increment location stock for %s: %w", item.SKU, err)
			}
		}
		return tx.Create(&restock).Error
	})
	if err != nil {
		return nil, err
	}
	return &restock, nil
}

// SubmitStockCheck computes variance = counted - expected per item, appends
// one stock check record and overwrites the location's stock to the counted
// values for every SKU present. Full reconciliation, not a delta.
func SubmitStockCheck(db *gorm.DB, input StockCheckInput) (*models.StockCheck, error) {
	if len(input.Items) == 0 {
		return nil, ErrNoItems
	}
	for _, item := range input.Items {
		if item.SKU == "" || item.Counted < 0 {
			return nil, ErrBadQuantity
		}
	}

	var check models.StockCheck

	err := db.Transaction(func(tx *gorm.DB) error {
		check = models.StockCheck{
			LocationID:  input.LocationID,
			PerformedBy: input.PerformedBy,
		}

		counted := make([]stock.ItemQuantity, 0, len(input.Items))
		for _, item := range input.Items {
			expected, err := stock.GetLocationStock(tx, input.LocationID, item.SKU)
			if err != nil {
				return err
			}
			variance := item.Counted - expected
			reason := ""
			if variance < 0 {
				reason = item.Reason
				if reason == "" {
					reason = models.ShrinkageUnknown
				}
			}
			check.Items = append(check.Items, models.StockCheckItem{
				SKU:      item.SKU,
				Expected: expected,
				Counted:  item.Counted,
				Variance: variance,
				Reason:   reason,
			})
			counted = append(counted, stock.ItemQuantity{SKU: item.SKU, Quantity: item.Counted})
		}

		if err := stock.MergeLocationStock(tx, input.LocationID, counted); err != nil {
			return fmt.Errorf("could not reconcile location stock: %w", err)
		}
		return tx.Create(&check).Error
	})
	if err != nil {
		return nil, err
	}
	return &check, nil
}
