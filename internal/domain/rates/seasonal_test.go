package rates_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innkeep/internal/domain/catalog"
	"innkeep/internal/domain/rates"
)

type stubSeasonalRepo struct {
	rates []*rates.SeasonalRate
}

func (s stubSeasonalRepo) ActiveInRange(_ context.Context, _ catalog.RoomTypeID, _, _ time.Time) ([]*rates.SeasonalRate, error) {
	return s.rates, nil
}

func seasonalWindow(id int64, priority int, pct float64) *rates.SeasonalRate {
	return &rates.SeasonalRate{
		ID:       id,
		Start:    time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		Modifier: rates.Modifier{Kind: rates.ModifierPercentage, Value: pct},
		Priority: priority,
		Active:   true,
	}
}

func TestSeasonalRatesNeverStack(t *testing.T) {
	resolver := rates.SeasonalRateResolver{Rates: stubSeasonalRepo{rates: []*rates.SeasonalRate{
		seasonalWindow(1, 5, 10),
		seasonalWindow(2, 10, 25),
	}}}

	best, err := resolver.ApplicableOn(context.Background(), "std-queen", "bar", stayDate)
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, int64(2), best.ID, "higher priority wins outright")
}

func TestSeasonalTieBreaksOnLowestID(t *testing.T) {
	resolver := rates.SeasonalRateResolver{Rates: stubSeasonalRepo{rates: []*rates.SeasonalRate{
		seasonalWindow(7, 5, 10),
		seasonalWindow(3, 5, 20),
	}}}

	best, err := resolver.ApplicableOn(context.Background(), "std-queen", "bar", stayDate)
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, int64(3), best.ID)
}

func TestSeasonalScopeFilters(t *testing.T) {
	suiteOnly := seasonalWindow(1, 5, 10)
	suiteOnly.RoomTypeID = roomID("suite")
	planScoped := seasonalWindow(2, 5, 10)
	planScoped.RatePlanID = planID("promo")
	weekendOnly := seasonalWindow(3, 5, 10)
	weekendOnly.DaysOfWeek = []time.Weekday{time.Saturday, time.Sunday}

	resolver := rates.SeasonalRateResolver{Rates: stubSeasonalRepo{rates: []*rates.SeasonalRate{
		suiteOnly, planScoped, weekendOnly,
	}}}

	// stayDate is a Friday booked on plan "bar" for std-queen: nothing matches.
	best, err := resolver.ApplicableOn(context.Background(), "std-queen", "bar", stayDate)
	require.NoError(t, err)
	assert.Nil(t, best)

	saturday := time.Date(2026, 7, 11, 0, 0, 0, 0, time.UTC)
	best, err = resolver.ApplicableOn(context.Background(), "std-queen", "bar", saturday)
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, int64(3), best.ID)
}

func TestSeasonalWindowBoundsInclusive(t *testing.T) {
	rate := seasonalWindow(1, 5, 10)
	assert.True(t, rate.AppliesOn("std-queen", "bar", rate.Start))
	assert.True(t, rate.AppliesOn("std-queen", "bar", rate.End))
	assert.False(t, rate.AppliesOn("std-queen", "bar", rate.End.AddDate(0, 0, 1)))
}
