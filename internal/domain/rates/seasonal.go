package rates

import (
	"context"
	"time"

	"innkeep/internal/domain/catalog"
	"innkeep/internal/domain/shared/daterange"
)

// SeasonalRate overrides pricing inside a date window. Nil scoping fields
// match everything; Priority decides which of several overlapping rates wins.
type SeasonalRate struct {
	ID         int64
	Name       string
	RoomTypeID *catalog.RoomTypeID
	RatePlanID *RatePlanID
	Start      time.Time
	End        time.Time
	Modifier   Modifier
	DaysOfWeek []time.Weekday
	Priority   int
	Active     bool
}

// AppliesOn reports whether the rate covers the given room type, plan and night.
func (s *SeasonalRate) AppliesOn(roomTypeID catalog.RoomTypeID, planID RatePlanID, date time.Time) bool {
	if !s.Active {
		return false
	}
	if s.RoomTypeID != nil && *s.RoomTypeID != roomTypeID {
		return false
	}
	if s.RatePlanID != nil && *s.RatePlanID != planID {
		return false
	}
	d := daterange.Day(date)
	if d.Before(daterange.Day(s.Start)) || d.After(daterange.Day(s.End)) {
		return false
	}
	return weekdayMatches(s.DaysOfWeek, d.Weekday())
}

type SeasonalRateRepository interface {
	// ActiveInRange returns active rates whose window intersects [from, to].
	ActiveInRange(ctx context.Context, roomTypeID catalog.RoomTypeID, from, to time.Time) ([]*SeasonalRate, error)
}

// SeasonalRateResolver selects the single seasonal rate applied to a night.
// Seasonal rates never stack; overlapping rates compete on priority.
type SeasonalRateResolver struct {
	Rates SeasonalRateRepository
}

// ApplicableOn returns the highest-priority rate covering the night, or nil.
// Equal priorities break deterministically on the lowest id.
func (r SeasonalRateResolver) ApplicableOn(ctx context.Context, roomTypeID catalog.RoomTypeID, planID RatePlanID, date time.Time) (*SeasonalRate, error) {
	candidates, err := r.Rates.ActiveInRange(ctx, roomTypeID, date, date)
	if err != nil {
		return nil, err
	}
	var best *SeasonalRate
	for _, rate := range candidates {
		if !rate.AppliesOn(roomTypeID, planID, date) {
			continue
		}
		if best == nil || rate.Priority > best.Priority ||
			(rate.Priority == best.Priority && rate.ID < best.ID) {
			best = rate
		}
	}
	return best, nil
}

func weekdayMatches(filter []time.Weekday, day time.Weekday) bool {
	if len(filter) == 0 {
		return true
	}
	for _, wd := range filter {
		if wd == day {
			return true
		}
	}
	return false
}
