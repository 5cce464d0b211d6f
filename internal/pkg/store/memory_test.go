package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tariffhawk/powershop-rates/internal/pkg/model"
)

func sampleResult(customerID string, updated time.Time) model.PollResult {
	primary := 19.08
	return model.PollResult{
		Rates: model.RateSnapshot{
			Rates:       []float64{19.08, 28.40},
			PrimaryRate: &primary,
			RatePeriods: map[string]model.RatePeriod{
				"Off Peak": {Name: "Off Peak", TimeRange: "12am - 7am", Rate: 19.08, RateFormatted: "19.08 c/kWh"},
			},
			CustomerID:  customerID,
			LastUpdated: &updated,
		},
		Usage: model.UsageSnapshot{Available: true, CSVData: "date,kwh\n2026-08-29,12.4\n", RecordCount: 1},
	}
}

func TestMemoryStore_Latest(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore(zap.NewNop())

	_, ok := s.Latest()
	assert.False(t, ok, "empty store should have no latest result")

	first := sampleResult("482931", time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC))
	second := sampleResult("482931", time.Date(2026, 8, 29, 10, 15, 0, 0, time.UTC))

	require.NoError(t, s.UpsertResult(first))
	require.NoError(t, s.UpsertResult(second))

	got, ok := s.Latest()
	require.True(t, ok)
	assert.Equal(t, second, got)
}

func TestMemoryStore_Results(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore(zap.NewNop())

	results, err := s.Results()
	require.NoError(t, err)
	assert.Empty(t, results)

	first := sampleResult("482931", time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC))
	second := sampleResult("482931", time.Date(2026, 8, 29, 10, 15, 0, 0, time.UTC))

	require.NoError(t, s.UpsertResult(first))
	require.NoError(t, s.UpsertResult(second))

	results, err = s.Results()
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, first, results[0], "results should be oldest first")
	assert.Equal(t, second, results[1])
}
