package stock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpiryStatusBands(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		expiry time.Time
		want   ExpiryState
	}{
		{"yesterday is expired", now.AddDate(0, 0, -1), ExpiryExpired},
		{"in five days is critical", now.AddDate(0, 0, 5), ExpiryCritical},
		{"exactly a week is critical", now.AddDate(0, 0, 7), ExpiryCritical},
		{"in two weeks is warning", now.AddDate(0, 0, 14), ExpiryWarning},
		{"in forty days is ok", now.AddDate(0, 0, 40), ExpiryOk},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExpiryStatus(tc.expiry, now))
		})
	}
}

func TestDaysUntilExpiryRoundsUp(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	// half a day away still counts as one day
	assert.Equal(t, 1, DaysUntilExpiry(now.Add(12*time.Hour), now))
	assert.Equal(t, -1, DaysUntilExpiry(now.Add(-30*time.Hour), now))
	assert.Equal(t, 0, DaysUntilExpiry(now, now))
}

func TestReceiveBatchRejectsNonPositiveQty(t *testing.T) {
	db := testDB(t)

	_, err := ReceiveBatch(db, 1, "CHOC-001", 0, nil, false, "", nil, time.Now())
	require.Error(t, err)
}

func TestEarliestExpiry(t *testing.T) {
	db := testDB(t)
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	later := now.AddDate(0, 0, 60)
	sooner := now.AddDate(0, 0, 10)

	_, err := ReceiveBatch(db, 1, "CHOC-001", 10, &later, false, "", nil, now)
	require.NoError(t, err)
	_, err = ReceiveBatch(db, 1, "CHOC-001", 5, &sooner, false, "", nil, now)
	require.NoError(t, err)
	_, err = ReceiveBatch(db, 1, "CHOC-001", 5, nil, false, "", nil, now)
	require.NoError(t, err)

	got, err := EarliestExpiry(db, "CHOC-001", nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Equal(sooner))
}

func TestEarliestExpiryNilWhenNoDatedBatches(t *testing.T) {
	db := testDB(t)

	got, err := EarliestExpiry(db, "CHOC-001", nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}
