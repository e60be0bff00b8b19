package sales

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// SaleRecord: one parsed row from a POS export, before persistence.
type SaleRecord struct {
	ExternalID    string
	SKU           string
	ProductName   string
	Category      string
	Quantity      int
	Charged       float64
	CostPrice     float64
	PaymentMethod string
	LocationName  string
	SoldAt        time.Time
}

// splitCSVLine splits one CSV line into fields, honoring double quotes and
// "" escapes inside quoted fields. Hand-rolled because POS exports mix quoted
// and bare fields and occasionally embed commas in product names.
func splitCSVLine(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				cur.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(cur.String()))
	return fields
}

// columnIndexes sniffs which column holds which field by normalized header
// name. Vendlive and similar exports are inconsistent about naming, so each
// field has a list of accepted headers.
func columnIndexes(header []string) map[string]int {
	aliases := map[string][]string{
		"id":       {"transaction id", "transactionid", "sale id", "id", "ref", "reference"},
		"sku":      {"sku", "product code", "productcode", "code"},
		"product":  {"product", "product name", "productname", "item", "item name", "description"},
		"category": {"category", "product category"},
		"quantity": {"quantity", "qty", "units"},
		"charged":  {"charged", "total charged", "amount", "total", "price", "price paid", "revenue"},
		"cost":     {"cost", "cost price", "costprice", "unit cost"},
		"payment":  {"payment", "payment method", "payment type", "card type"},
		"location": {"location", "location name", "machine", "machine name", "site", "venue"},
		"time":     {"time", "timestamp", "date", "datetime", "created at", "transaction time", "sold at"},
	}

	indexes := make(map[string]int)
	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		for field, names := range aliases {
			if _, taken := indexes[field]; taken {
				continue
			}
			for _, candidate := range names {
				if name == candidate {
					indexes[field] = i
					break
				}
			}
		}
	}
	return indexes
}

var saleTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
	time.RFC3339,
}

func parseSaleTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range saleTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

func cell(row []string, idx int, ok bool) string {
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// rowsToRecords turns header+data rows into SaleRecords. Row-level problems
// go into the returned error list; they never abort the whole parse.
func rowsToRecords(rows [][]string) ([]SaleRecord, []string, error) {
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("file is empty")
	}

	indexes := columnIndexes(rows[0])
	idIdx, hasID := indexes["id"]
	if !hasID {
		return nil, nil, fmt.Errorf("could not find a transaction id column in the header")
	}
	if _, hasTime := indexes["time"]; !hasTime {
		return nil, nil, fmt.Errorf("could not find a date/time column in the header")
	}

	skuIdx, hasSKU := indexes["sku"]
	productIdx, hasProduct := indexes["product"]
	categoryIdx, hasCategory := indexes["category"]
	quantityIdx, hasQuantity := indexes["quantity"]
	chargedIdx, hasCharged := indexes["charged"]
	costIdx, hasCost := indexes["cost"]
	paymentIdx, hasPayment := indexes["payment"]
	locationIdx, hasLocation := indexes["location"]
	timeIdx := indexes["time"]

	var records []SaleRecord
	var rowErrors []string

	for n, row := range rows[1:] {
		rowNum := n + 2 // 1-based, counting the header

		isEmpty := true
		for _, f := range row {
			if strings.TrimSpace(f) != "" {
				isEmpty = false
				break
			}
		}
		if isEmpty {
			continue
		}

		externalID := cell(row, idIdx, true)
		if externalID == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: missing transaction id", rowNum))
			continue
		}

		soldAt, err := parseSaleTime(cell(row, timeIdx, true))
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}

		record := SaleRecord{
			ExternalID:    externalID,
			SKU:           cell(row, skuIdx, hasSKU),
			ProductName:   cell(row, productIdx, hasProduct),
			Category:      cell(row, categoryIdx, hasCategory),
			Quantity:      1,
			PaymentMethod: cell(row, paymentIdx, hasPayment),
			LocationName:  cell(row, locationIdx, hasLocation),
			SoldAt:        soldAt,
		}

		if qtyStr := cell(row, quantityIdx, hasQuantity); qtyStr != "" {
			qty, err := strconv.Atoi(qtyStr)
			if err != nil || qty <= 0 {
				rowErrors = append(rowErrors, fmt.Sprintf("row %d: bad quantity %q", rowNum, qtyStr))
				continue
			}
			record.Quantity = qty
		}
		if chargedStr := cell(row, chargedIdx, hasCharged); chargedStr != "" {
			charged, err := strconv.ParseFloat(strings.TrimPrefix(chargedStr, "£"), 64)
			if err != nil {
				rowErrors = append(rowErrors, fmt.Sprintf("row %d: bad charged amount %q", rowNum, chargedStr))
				continue
			}
			record.Charged = charged
		}
		if costStr := cell(row, costIdx, hasCost); costStr != "" {
			if cost, err := strconv.ParseFloat(strings.TrimPrefix(costStr, "£"), 64); err == nil {
				record.CostPrice = cost
			}
		}

		records = append(records, record)
	}

	return records, rowErrors, nil
}

// ParseSalesCSV parses a Vendlive-style CSV export.
func ParseSalesCSV(data []byte) ([]SaleRecord, []string, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimPrefix(text, "\uFEFF") // UTF-8 BOM

	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, splitCSVLine(line))
	}

	return rowsToRecords(rows)
}

// ParseSalesXLSX parses the first sheet of an xlsx export through the same
// column-sniffing path as the CSV parser.
func ParseSalesXLSX(r io.Reader) ([]SaleRecord, []string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("xlsx has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("could not read sheet: %w", err)
	}

	return rowsToRecords(rows)
}
