package sales

import (
	"sort"
	"time"

	"hatch-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Summary: money totals over a group of sales. Sums are computed with
// decimals so thousands of float additions cannot drift the result.
type Summary struct {
	Key       string  `json:"key"` // sku, category or day depending on the grouping
	Label     string  `json:"label,omitempty"`
	Units     int     `json:"units"`
	SaleCount int     `json:"sale_count"`
	Revenue   float64 `json:"revenue"`
	Cost      float64 `json:"cost"`
	Profit    float64 `json:"profit"`
	MarginPct float64 `json:"margin_pct"` // zero when revenue is zero
}

type accumulator struct {
	label     string
	units     int
	saleCount int
	revenue   decimal.Decimal
	cost      decimal.Decimal
}

func salesInRange(db *gorm.DB, from, to *time.Time) ([]models.Sale, error) {
	q := db.Model(&models.Sale{})
	if from != nil {
		q = q.Where("sold_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("sold_at < ?", *to)
	}
	var sales []models.Sale
	if err := q.Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

func aggregate(sales []models.Sale, keyFn func(models.Sale) (string, string)) []Summary {
	groups := make(map[string]*accumulator)

	for _, sale := range sales {
		key, label := keyFn(sale)
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{label: label}
			groups[key] = acc
		}
		acc.units += sale.Quantity
		acc.saleCount++
		acc.revenue = acc.revenue.Add(decimal.NewFromFloat(sale.Charged))
		acc.cost = acc.cost.Add(decimal.NewFromFloat(sale.CostPrice).Mul(decimal.NewFromInt(int64(sale.Quantity))))
	}

	summaries := make([]Summary, 0, len(groups))
	for key, acc := range groups {
		profit := acc.revenue.Sub(acc.cost)
		margin := decimal.Zero
		if !acc.revenue.IsZero() {
			margin = profit.Div(acc.revenue).Mul(decimal.NewFromInt(100))
		}

		revenue, _ := acc.revenue.Float64()
		cost, _ := acc.cost.Float64()
		profitF, _ := profit.Float64()
		marginF, _ := margin.Round(2).Float64()

		summaries = append(summaries, Summary{
			Key:       key,
			Label:     acc.label,
			Units:     acc.units,
			SaleCount: acc.saleCount,
			Revenue:   revenue,
			Cost:      cost,
			Profit:    profitF,
			MarginPct: marginF,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Revenue != summaries[j].Revenue {
			return summaries[i].Revenue > summaries[j].Revenue
		}
		return summaries[i].Key < summaries[j].Key
	})

	return summaries
}

// AggregateByProduct groups the in-range sales by SKU (falling back to the
// imported product name when the export carried no SKU).
func AggregateByProduct(db *gorm.DB, from, to *time.Time) ([]Summary, error) {
	sales, err := salesInRange(db, from, to)
	if err != nil {
		return nil, err
	}
	return aggregate(sales, func(s models.Sale) (string, string) {
		if s.SKU != "" {
			return s.SKU, s.ProductName
		}
		return s.ProductName, s.ProductName
	}), nil
}

// AggregateByCategory groups by product category; uncategorized sales fall
// into "uncategorized".
func AggregateByCategory(db *gorm.DB, from, to *time.Time) ([]Summary, error) {
	sales, err := salesInRange(db, from, to)
	if err != nil {
		return nil, err
	}
	return aggregate(sales, func(s models.Sale) (string, string) {
		if s.Category == "" {
			return "uncategorized", "uncategorized"
		}
		return s.Category, s.Category
	}), nil
}

// AggregateByDay groups by calendar day of the sale timestamp, oldest first.
func AggregateByDay(db *gorm.DB, from, to *time.Time) ([]Summary, error) {
	sales, err := salesInRange(db, from, to)
	if err != nil {
		return nil, err
	}
	summaries := aggregate(sales, func(s models.Sale) (string, string) {
		day := s.SoldAt.Format("2006-01-02")
		return day, day
	})
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Key < summaries[j].Key
	})
	return summaries, nil
}
