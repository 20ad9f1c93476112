package rates

import (
	"context"
	"time"

	"innkeep/internal/domain/catalog"
	"innkeep/internal/domain/shared/daterange"
)

// OccupancyRule bumps prices once live occupancy reaches ThresholdPercent.
// Among satisfied rules the highest threshold wins; Priority only breaks
// ties between equal thresholds.
type OccupancyRule struct {
	ID               int64
	RoomTypeID       *catalog.RoomTypeID
	ThresholdPercent float64
	Modifier         Modifier
	Priority         int
	Active           bool
}

func (r *OccupancyRule) appliesTo(roomTypeID catalog.RoomTypeID) bool {
	return r.Active && (r.RoomTypeID == nil || *r.RoomTypeID == roomTypeID)
}

// DowRule adjusts prices on a fixed weekday. All matching rules stack.
type DowRule struct {
	ID         int64
	RoomTypeID *catalog.RoomTypeID
	Weekday    time.Weekday
	Modifier   Modifier
	Active     bool
}

func (r *DowRule) appliesTo(roomTypeID catalog.RoomTypeID, day time.Weekday) bool {
	return r.Active && r.Weekday == day && (r.RoomTypeID == nil || *r.RoomTypeID == roomTypeID)
}

// EventOverride adjusts prices across a named date window (fairs, holidays).
// All events containing the night stack.
type EventOverride struct {
	ID         int64
	Name       string
	RoomTypeID *catalog.RoomTypeID
	Start      time.Time
	End        time.Time
	Modifier   Modifier
	Priority   int
	Active     bool
}

func (e *EventOverride) appliesOn(roomTypeID catalog.RoomTypeID, date time.Time) bool {
	if !e.Active {
		return false
	}
	if e.RoomTypeID != nil && *e.RoomTypeID != roomTypeID {
		return false
	}
	d := daterange.Day(date)
	return !d.Before(daterange.Day(e.Start)) && !d.After(daterange.Day(e.End))
}

// DynamicAdjustment carries the two running totals produced by dynamic rules.
// Percentage and fixed components compose differently downstream, so they are
// kept separate.
type DynamicAdjustment struct {
	PercentSum float64
	FixedSum   float64
}

// IsZero reports whether the adjustment changes nothing.
func (a DynamicAdjustment) IsZero() bool {
	return a.PercentSum == 0 && a.FixedSum == 0
}

func (a *DynamicAdjustment) add(m Modifier) {
	switch m.Kind {
	case ModifierPercentage:
		a.PercentSum += m.Value
	case ModifierFixed:
		a.FixedSum += m.Value
	}
	// Absolute modifiers have no additive meaning here and are skipped.
}

type DynamicRuleRepository interface {
	ActiveOccupancyRules(ctx context.Context, roomTypeID catalog.RoomTypeID) ([]*OccupancyRule, error)
	ActiveDowRules(ctx context.Context, roomTypeID catalog.RoomTypeID, day time.Weekday) ([]*DowRule, error)
	ActiveEventOverrides(ctx context.Context, roomTypeID catalog.RoomTypeID, date time.Time) ([]*EventOverride, error)
}

// OccupancySource reports live occupancy for a room type and night as a
// percentage of capacity committed.
type OccupancySource interface {
	OccupancyPercent(ctx context.Context, roomTypeID catalog.RoomTypeID, date time.Time) (float64, error)
}

// DynamicModifierCalculator folds occupancy, day-of-week and event rules into
// one adjustment per night.
type DynamicModifierCalculator struct {
	Rules     DynamicRuleRepository
	Occupancy OccupancySource
}

// ModifiersFor computes the night's dynamic adjustment.
func (c DynamicModifierCalculator) ModifiersFor(ctx context.Context, roomTypeID catalog.RoomTypeID, date time.Time) (DynamicAdjustment, error) {
	var adj DynamicAdjustment
	date = daterange.Day(date)

	occupancy, err := c.Occupancy.OccupancyPercent(ctx, roomTypeID, date)
	if err != nil {
		return DynamicAdjustment{}, err
	}
	occRules, err := c.Rules.ActiveOccupancyRules(ctx, roomTypeID)
	if err != nil {
		return DynamicAdjustment{}, err
	}
	if winner := selectOccupancyRule(occRules, roomTypeID, occupancy); winner != nil {
		adj.add(winner.Modifier)
	}

	dowRules, err := c.Rules.ActiveDowRules(ctx, roomTypeID, date.Weekday())
	if err != nil {
		return DynamicAdjustment{}, err
	}
	for _, rule := range dowRules {
		if rule.appliesTo(roomTypeID, date.Weekday()) {
			adj.add(rule.Modifier)
		}
	}

	overrides, err := c.Rules.ActiveEventOverrides(ctx, roomTypeID, date)
	if err != nil {
		return DynamicAdjustment{}, err
	}
	for _, event := range overrides {
		if event.appliesOn(roomTypeID, date) {
			adj.add(event.Modifier)
		}
	}
	return adj, nil
}

// selectOccupancyRule picks the most specific satisfied rule: highest
// threshold first, then highest priority, then lowest id.
func selectOccupancyRule(rules []*OccupancyRule, roomTypeID catalog.RoomTypeID, occupancy float64) *OccupancyRule {
	var winner *OccupancyRule
	for _, rule := range rules {
		if !rule.appliesTo(roomTypeID) || occupancy < rule.ThresholdPercent {
			continue
		}
		if winner == nil ||
			rule.ThresholdPercent > winner.ThresholdPercent ||
			(rule.ThresholdPercent == winner.ThresholdPercent && rule.Priority > winner.Priority) ||
			(rule.ThresholdPercent == winner.ThresholdPercent && rule.Priority == winner.Priority && rule.ID < winner.ID) {
			winner = rule
		}
	}
	return winner
}
