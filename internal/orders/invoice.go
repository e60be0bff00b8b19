package orders

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"hatch-backend/internal/models"

	"gorm.io/gorm"
)

// ParsedInvoiceLine: one product line extracted from pasted invoice text.
type ParsedInvoiceLine struct {
	SKU              string  `json:"sku"`
	ProductName      string  `json:"product_name"`
	UnitPrice        float64 `json:"unit_price"`
	Quantity         int     `json:"quantity"`
	TotalAmount      float64 `json:"total_amount"`
	MatchedSKU       string  `json:"matched_sku,omitempty"` // catalog SKU when a match was found
	MatchedProductID *uint   `json:"matched_product_id,omitempty"`
}

type ParsedInvoice struct {
	Lines         []ParsedInvoiceLine `json:"lines"`
	InvoiceNumber string              `json:"invoice_number,omitempty"`
	Date          string              `json:"date,omitempty"`
}

var (
	invoiceNumberRe = regexp.MustCompile(`(?i)invoice\s*(?:no\.?|number|#)?\s*[:\-]?\s*([A-Z0-9][A-Z0-9\-/]{3,})`)
	invoiceDateRe   = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})|(\d{2})[./](\d{2})[./](\d{4})`)
	sizeSuffixRe    = regexp.MustCompile(`(?i)\s+[\d.,]+\s*(?:kg|g|gr|l|lt|ml|oz|pk|pack|x\d+)\s*$`)
)

// parseMoney accepts "1,234.56", "1234.56" and "1.234,56".
func parseMoney(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "£")
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "€")
	s = strings.TrimSpace(s)

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	if lastComma > lastDot {
		// European decimal comma
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	return strconv.ParseFloat(s, 64)
}

// normalizeProductName lowercases a name and strips trailing pack-size
// information so "Cola Zero 500ML" matches a catalog entry named "Cola Zero".
func normalizeProductName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = sizeSuffixRe.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// ParseInvoiceText extracts product lines from pasted supplier invoice or
// order-confirmation text. It understands pipe-separated table rows
// (SKU | Product | Unit Price | Qty | Total) and skips header, separator and
// total rows. Parsed lines are matched against the catalog by SKU first, then
// by normalized name.
func ParseInvoiceText(db *gorm.DB, text string) (*ParsedInvoice, error) {
	result := &ParsedInvoice{}

	if m := invoiceNumberRe.FindStringSubmatch(text); len(m) > 1 {
		result.InvoiceNumber = m[1]
	}
	if m := invoiceDateRe.FindStringSubmatch(text); m != nil {
		if m[1] != "" {
			result.Date = fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3])
		} else {
			result.Date = fmt.Sprintf("%s-%s-%s", m[6], m[5], m[4])
		}
	}

	lines := strings.Split(text, "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || !strings.Contains(line, "|") {
			continue
		}

		lower := strings.ToLower(line)
		if strings.Contains(lower, "unit price") || strings.Contains(lower, "product") && strings.Contains(lower, "sku") {
			continue // header row
		}
		if strings.Contains(lower, "total:") || strings.Contains(lower, "subtotal") || strings.Contains(lower, "vat") {
			continue
		}
		if strings.Trim(line, "|-+ ") == "" {
			continue // separator row
		}

		cols := strings.Split(strings.Trim(line, "|"), "|")
		for i := range cols {
			cols[i] = strings.TrimSpace(cols[i])
		}
		if len(cols) < 4 {
			continue
		}

		parsed := ParsedInvoiceLine{
			SKU:         cols[0],
			ProductName: cols[1],
		}
		if price, err := parseMoney(cols[2]); err == nil {
			parsed.UnitPrice = price
		}
		if fields := strings.Fields(cols[3]); len(fields) > 0 {
			if qty, err := strconv.Atoi(fields[0]); err == nil {
				parsed.Quantity = qty
			}
		}
		if len(cols) >= 5 {
			if total, err := parseMoney(cols[len(cols)-1]); err == nil {
				parsed.TotalAmount = total
			}
		}
		if parsed.Quantity <= 0 {
			continue
		}

		result.Lines = append(result.Lines, parsed)
	}

	if len(result.Lines) == 0 {
		return nil, fmt.Errorf("no product lines found in invoice text")
	}

	matchInvoiceLines(db, result.Lines)
	return result, nil
}

func matchInvoiceLines(db *gorm.DB, lines []ParsedInvoiceLine) {
	var products []models.Product
	if err := db.Find(&products).Error; err != nil {
		return
	}

	bySKU := make(map[string]*models.Product, len(products))
	byName := make(map[string]*models.Product, len(products))
	for i := range products {
		p := &products[i]
		bySKU[strings.ToUpper(p.SKU)] = p
		byName[normalizeProductName(p.Name)] = p
	}

	for i := range lines {
		line := &lines[i]
		if p, ok := bySKU[strings.ToUpper(line.SKU)]; ok {
			line.MatchedSKU = p.SKU
			line.MatchedProductID = &p.ID
			continue
		}
		if p, ok := byName[normalizeProductName(line.ProductName)]; ok {
			line.MatchedSKU = p.SKU
			line.MatchedProductID = &p.ID
		}
	}
}
