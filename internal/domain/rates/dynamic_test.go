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

type stubRuleRepo struct {
	occupancy []*rates.OccupancyRule
	dow       []*rates.DowRule
	events    []*rates.EventOverride
}

func (s stubRuleRepo) ActiveOccupancyRules(_ context.Context, _ catalog.RoomTypeID) ([]*rates.OccupancyRule, error) {
	return s.occupancy, nil
}

func (s stubRuleRepo) ActiveDowRules(_ context.Context, _ catalog.RoomTypeID, day time.Weekday) ([]*rates.DowRule, error) {
	var out []*rates.DowRule
	for _, rule := range s.dow {
		if rule.Weekday == day {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (s stubRuleRepo) ActiveEventOverrides(_ context.Context, _ catalog.RoomTypeID, _ time.Time) ([]*rates.EventOverride, error) {
	return s.events, nil
}

type fixedOccupancy float64

func (f fixedOccupancy) OccupancyPercent(_ context.Context, _ catalog.RoomTypeID, _ time.Time) (float64, error) {
	return float64(f), nil
}

func pctRule(id int64, threshold, pct float64) *rates.OccupancyRule {
	return &rates.OccupancyRule{
		ID:               id,
		ThresholdPercent: threshold,
		Modifier:         rates.Modifier{Kind: rates.ModifierPercentage, Value: pct},
		Active:           true,
	}
}

func TestOccupancyOnlyMostSpecificRuleApplies(t *testing.T) {
	calc := rates.DynamicModifierCalculator{
		Rules: stubRuleRepo{occupancy: []*rates.OccupancyRule{
			pctRule(1, 50, 5),
			pctRule(2, 80, 15),
		}},
		Occupancy: fixedOccupancy(85),
	}

	adj, err := calc.ModifiersFor(context.Background(), "std-queen", stayDate)
	require.NoError(t, err)
	assert.Equal(t, 15.0, adj.PercentSum, "only the highest satisfied threshold counts")
	assert.Equal(t, 0.0, adj.FixedSum)
}

func TestOccupancyBelowEveryThreshold(t *testing.T) {
	calc := rates.DynamicModifierCalculator{
		Rules: stubRuleRepo{occupancy: []*rates.OccupancyRule{
			pctRule(1, 50, 5),
		}},
		Occupancy: fixedOccupancy(40),
	}

	adj, err := calc.ModifiersFor(context.Background(), "std-queen", stayDate)
	require.NoError(t, err)
	assert.True(t, adj.IsZero())
}

func TestDowRulesStack(t *testing.T) {
	friday := stayDate // 2026-07-10 is a Friday
	calc := rates.DynamicModifierCalculator{
		Rules: stubRuleRepo{dow: []*rates.DowRule{
			{ID: 1, Weekday: time.Friday, Modifier: rates.Modifier{Kind: rates.ModifierPercentage, Value: 8}, Active: true},
			{ID: 2, Weekday: time.Friday, Modifier: rates.Modifier{Kind: rates.ModifierFixed, Value: 12}, Active: true},
			{ID: 3, Weekday: time.Monday, Modifier: rates.Modifier{Kind: rates.ModifierPercentage, Value: 50}, Active: true},
		}},
		Occupancy: fixedOccupancy(0),
	}

	adj, err := calc.ModifiersFor(context.Background(), "std-queen", friday)
	require.NoError(t, err)
	assert.Equal(t, 8.0, adj.PercentSum)
	assert.Equal(t, 12.0, adj.FixedSum)
}

func TestEventOverridesStackWithOtherRules(t *testing.T) {
	calc := rates.DynamicModifierCalculator{
		Rules: stubRuleRepo{
			occupancy: []*rates.OccupancyRule{pctRule(1, 50, 5)},
			events: []*rates.EventOverride{{
				ID:       1,
				Name:     "Summer Fair",
				Start:    stayDate.AddDate(0, 0, -1),
				End:      stayDate.AddDate(0, 0, 3),
				Modifier: rates.Modifier{Kind: rates.ModifierPercentage, Value: 20},
				Active:   true,
			}},
		},
		Occupancy: fixedOccupancy(60),
	}

	adj, err := calc.ModifiersFor(context.Background(), "std-queen", stayDate)
	require.NoError(t, err)
	assert.Equal(t, 25.0, adj.PercentSum)
}

func TestAbsoluteModifiersAreIgnoredInDynamicRules(t *testing.T) {
	calc := rates.DynamicModifierCalculator{
		Rules: stubRuleRepo{dow: []*rates.DowRule{
			{ID: 1, Weekday: stayDate.Weekday(), Modifier: rates.Modifier{Kind: rates.ModifierAbsolute, Value: 999}, Active: true},
		}},
		Occupancy: fixedOccupancy(0),
	}

	adj, err := calc.ModifiersFor(context.Background(), "std-queen", stayDate)
	require.NoError(t, err)
	assert.True(t, adj.IsZero())
}
