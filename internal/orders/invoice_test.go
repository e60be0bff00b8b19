package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleInvoice = `ACME WHOLESALE LTD
Invoice No: INV-2026-0815
Date: 2026-08-15

| SKU      | Product              | Unit Price | Qty | Total  |
|----------|----------------------|------------|-----|--------|
| CHOC-001 | Milk Chocolate Bar   | £0.55      | 48  | £26.40 |
| XX-999   | Cola Zero 500ML      | £0.42      | 24  | £10.08 |

Subtotal: £36.48
VAT: £7.30
Total: £43.78
`

func TestParseInvoiceTextExtractsLines(t *testing.T) {
	db := testDB(t)

	parsed, err := ParseInvoiceText(db, sampleInvoice)
	require.NoError(t, err)

	assert.Equal(t, "INV-2026-0815", parsed.InvoiceNumber)
	assert.Equal(t, "2026-08-15", parsed.Date)
	require.Len(t, parsed.Lines, 2)

	assert.Equal(t, "CHOC-001", parsed.Lines[0].SKU)
	assert.Equal(t, 48, parsed.Lines[0].Quantity)
	assert.InDelta(t, 0.55, parsed.Lines[0].UnitPrice, 0.001)
	assert.InDelta(t, 26.40, parsed.Lines[0].TotalAmount, 0.001)
}

func TestParseInvoiceTextMatchesCatalog(t *testing.T) {
	db := testDB(t)
	seedProduct(t, db, "CHOC-001", "Milk Chocolate Bar", 6)
	seedProduct(t, db, "SODA-003", "Cola Zero", 24)

	parsed, err := ParseInvoiceText(db, sampleInvoice)
	require.NoError(t, err)
	require.Len(t, parsed.Lines, 2)

	// direct SKU match
	assert.Equal(t, "CHOC-001", parsed.Lines[0].MatchedSKU)
	require.NotNil(t, parsed.Lines[0].MatchedProductID)

	// unknown SKU falls back to the name with the pack size stripped
	assert.Equal(t, "SODA-003", parsed.Lines[1].MatchedSKU)
}

func TestParseInvoiceTextNoLines(t *testing.T) {
	db := testDB(t)

	_, err := ParseInvoiceText(db, "just a paragraph of text with no table")
	require.Error(t, err)
}

func TestParseMoneyFormats(t *testing.T) {
	cases := map[string]float64{
		"£26.40":   26.40,
		"1,234.56": 1234.56,
		"1.234,56": 1234.56,
		"$9":       9,
	}
	for in, want := range cases {
		got, err := parseMoney(in)
		require.NoError(t, err, in)
		assert.InDelta(t, want, got, 0.001, in)
	}
}

func TestNormalizeProductName(t *testing.T) {
	assert.Equal(t, "cola zero", normalizeProductName("Cola Zero 500ML"))
	assert.Equal(t, "salted crisps", normalizeProductName("  Salted   Crisps "))
	assert.Equal(t, "milk chocolate bar", normalizeProductName("Milk Chocolate Bar 1KG"))
}
