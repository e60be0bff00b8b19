package stock

// Status classifies a quantity against its configured min/max thresholds.
// Every view (dashboard, location page, suggestions) goes through StatusFor so
// there is exactly one precedence: low, then warning, then full, then ok.
type Status string

const (
	StatusOk      Status = "ok"
	StatusLow     Status = "low"
	StatusWarning Status = "warning"
	StatusFull    Status = "full"
)

// StatusFor returns the stock status for a quantity. min and max are nil when
// unconfigured; an unconfigured threshold never triggers its statuses.
func StatusFor(qty int, min, max *int) Status {
	if min != nil && qty <= *min {
		return StatusLow
	}
	if min != nil && float64(qty) <= float64(*min)*1.5 {
		return StatusWarning
	}
	if max != nil && qty >= *max {
		return StatusFull
	}
	return StatusOk
}
