package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestStatusForUnconfigured(t *testing.T) {
	assert.Equal(t, StatusOk, StatusFor(0, nil, nil))
	assert.Equal(t, StatusOk, StatusFor(100, nil, nil))
}

func TestStatusForLowTakesPrecedence(t *testing.T) {
	// at min exactly is low, not warning
	assert.Equal(t, StatusLow, StatusFor(5, intPtr(5), intPtr(50)))
	assert.Equal(t, StatusLow, StatusFor(0, intPtr(5), intPtr(50)))
}

func TestStatusForWarningBand(t *testing.T) {
	// above min but within 1.5x of it
	assert.Equal(t, StatusWarning, StatusFor(6, intPtr(5), intPtr(50)))
	assert.Equal(t, StatusWarning, StatusFor(7, intPtr(5), intPtr(50)))
	assert.Equal(t, StatusOk, StatusFor(8, intPtr(5), intPtr(50)))
}

func TestStatusForFull(t *testing.T) {
	assert.Equal(t, StatusFull, StatusFor(50, intPtr(5), intPtr(50)))
	assert.Equal(t, StatusFull, StatusFor(60, intPtr(5), intPtr(50)))
	assert.Equal(t, StatusOk, StatusFor(49, intPtr(5), intPtr(50)))
}

func TestStatusForMinBeatsMax(t *testing.T) {
	// degenerate config where min >= max still resolves to low first
	assert.Equal(t, StatusLow, StatusFor(10, intPtr(10), intPtr(10)))
}

func TestStatusForOnlyMax(t *testing.T) {
	assert.Equal(t, StatusFull, StatusFor(50, nil, intPtr(50)))
	assert.Equal(t, StatusOk, StatusFor(10, nil, intPtr(50)))
}
