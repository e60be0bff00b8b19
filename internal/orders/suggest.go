package orders

import (
	"sort"

	"hatch-backend/internal/models"

	"gorm.io/gorm"
)

type SuggestionPriority string

const (
	PriorityCritical SuggestionPriority = "critical" // at or below minimum
	PriorityWarning  SuggestionPriority = "warning"
)

type Suggestion struct {
	SKU          string             `json:"sku"`
	ProductName  string             `json:"product_name"`
	SupplierID   *uint              `json:"supplier_id,omitempty"`
	CurrentStock int                `json:"current_stock"`
	MinStock     *int               `json:"min_stock,omitempty"`
	MaxStock     int                `json:"max_stock"`
	Shortage     int                `json:"shortage"`
	ShortagePct  float64            `json:"shortage_pct"`
	UnitsPerBox  int                `json:"units_per_box"`
	OrderQty     int                `json:"order_qty"`
	Priority     SuggestionPriority `json:"priority"`
}

// SuggestOrderItems scans a location's stock against its configured max
// thresholds. Products are in scope when assigned to the location, or all
// products when the location has no assignment list. A product is suggested
// when its shortage reaches half of the configured max; the order quantity
// rounds the shortage up to whole boxes.
func SuggestOrderItems(db *gorm.DB, locationID uint) ([]Suggestion, error) {
	var assigned []models.LocationAssignedItem
	if err := db.Where("location_id = ?", locationID).Find(&assigned).Error; err != nil {
		return nil, err
	}
	assignedSKUs := make(map[string]bool, len(assigned))
	for _, a := range assigned {
		assignedSKUs[a.SKU] = true
	}

	var products []models.Product
	if err := db.Find(&products).Error; err != nil {
		return nil, err
	}

	var stocks []models.LocationStock
	if err := db.Where("location_id = ?", locationID).Find(&stocks).Error; err != nil {
		return nil, err
	}
	stockBySKU := make(map[string]int, len(stocks))
	for _, s := range stocks {
		stockBySKU[s.SKU] = s.Quantity
	}

	var configs []models.LocationConfig
	if err := db.Where("location_id = ?", locationID).Find(&configs).Error; err != nil {
		return nil, err
	}
	configBySKU := make(map[string]models.LocationConfig, len(configs))
	for _, cfg := range configs {
		configBySKU[cfg.SKU] = cfg
	}

	suggestions := make([]Suggestion, 0)
	for _, product := range products {
		// empty assignment list means every product is allowed
		if len(assignedSKUs) > 0 && !assignedSKUs[product.SKU] {
			continue
		}

		cfg, ok := configBySKU[product.SKU]
		if !ok || cfg.MaxStock == nil || *cfg.MaxStock <= 0 {
			continue
		}
		maxStock := *cfg.MaxStock

		current := stockBySKU[product.SKU]
		shortage := maxStock - current
		if shortage <= 0 {
			continue
		}
		if float64(shortage) < float64(maxStock)*0.5 {
			continue
		}

		priority := PriorityWarning
		if cfg.MinStock != nil && current <= *cfg.MinStock {
			priority = PriorityCritical
		}

		unitsPerBox := product.UnitsPerBox
		if unitsPerBox < 1 {
			unitsPerBox = 1
		}
		// round up to whole boxes: never order less than the shortage
		orderQty := ((shortage + unitsPerBox - 1) / unitsPerBox) * unitsPerBox

		suggestions = append(suggestions, Suggestion{
			SKU:          product.SKU,
			ProductName:  product.Name,
			SupplierID:   product.SupplierID,
			CurrentStock: current,
			MinStock:     cfg.MinStock,
			MaxStock:     maxStock,
			Shortage:     shortage,
			ShortagePct:  float64(shortage) / float64(maxStock) * 100,
			UnitsPerBox:  unitsPerBox,
			OrderQty:     orderQty,
			Priority:     priority,
		})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Priority != suggestions[j].Priority {
			return suggestions[i].Priority == PriorityCritical
		}
		if suggestions[i].ShortagePct != suggestions[j].ShortagePct {
			return suggestions[i].ShortagePct > suggestions[j].ShortagePct
		}
		return suggestions[i].SKU < suggestions[j].SKU
	})

	return suggestions, nil
}
