package restrictions

import (
	"context"
	"errors"
	"time"

	"innkeep/internal/domain/catalog"
	"innkeep/internal/domain/rates"
	"innkeep/internal/domain/shared/daterange"
)

var (
	ErrStopSellRestricted = errors.New("restrictions: sales closed for date")
	ErrMinStayRequired    = errors.New("restrictions: stay shorter than required minimum")
	ErrMaxStayExceeded    = errors.New("restrictions: stay longer than allowed maximum")
	ErrClosedToArrival    = errors.New("restrictions: arrival not allowed on date")
	ErrClosedToDeparture  = errors.New("restrictions: departure not allowed on date")
)

// RestrictionType is the closed set of booking-rule kinds.
type RestrictionType string

const (
	MinStay           RestrictionType = "min_stay"
	MaxStay           RestrictionType = "max_stay"
	ClosedToArrival   RestrictionType = "cta"
	ClosedToDeparture RestrictionType = "ctd"
	StopSell          RestrictionType = "stop_sell"
)

// RateRestriction limits how a room type may be booked over a date window.
// A nil RatePlanID matches any plan; an empty Channel matches any channel.
type RateRestriction struct {
	ID         int64
	RoomTypeID catalog.RoomTypeID
	RatePlanID *rates.RatePlanID
	Type       RestrictionType
	Value      int
	Channel    string
	Start      time.Time
	End        time.Time
	DaysOfWeek []time.Weekday
	Active     bool
}

// coversNight reports whether the restriction window and weekday filter
// include the given night.
func (r *RateRestriction) coversNight(date time.Time) bool {
	d := daterange.Day(date)
	if d.Before(daterange.Day(r.Start)) || d.After(daterange.Day(r.End)) {
		return false
	}
	if len(r.DaysOfWeek) == 0 {
		return true
	}
	for _, wd := range r.DaysOfWeek {
		if wd == d.Weekday() {
			return true
		}
	}
	return false
}

func (r *RateRestriction) matchesScope(planID *rates.RatePlanID, channel string) bool {
	if !r.Active {
		return false
	}
	if r.RatePlanID != nil {
		if planID == nil || *r.RatePlanID != *planID {
			return false
		}
	}
	if r.Channel != "" && r.Channel != channel {
		return false
	}
	return true
}

// Decision is the outcome of a restriction check. Reason and Restriction are
// set only on denial.
type Decision struct {
	Allowed     bool
	Reason      error
	Restriction *RateRestriction
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason error, r *RateRestriction) Decision {
	return Decision{Allowed: false, Reason: reason, Restriction: r}
}

type Repository interface {
	// ActiveInRange returns active restrictions for the room type whose
	// window intersects [from, to].
	ActiveInRange(ctx context.Context, roomTypeID catalog.RoomTypeID, from, to time.Time) ([]*RateRestriction, error)
}

// Engine evaluates booking-rule restrictions. Any single violation denies the
// whole request.
type Engine struct {
	Restrictions Repository
}

// IsAllowed checks every applicable restriction against the stay. The
// check-out date itself is inspected for closed-to-departure rules even
// though it is not a stayed night.
func (e Engine) IsAllowed(ctx context.Context, roomTypeID catalog.RoomTypeID, planID *rates.RatePlanID, channel string, stay daterange.DateRange) (Decision, error) {
	all, err := e.Restrictions.ActiveInRange(ctx, roomTypeID, stay.CheckIn, stay.CheckOut)
	if err != nil {
		return Decision{}, err
	}
	nights := stay.Nights()

	for _, r := range all {
		if r.RoomTypeID != roomTypeID || !r.matchesScope(planID, channel) {
			continue
		}
		switch r.Type {
		case StopSell:
			for _, night := range stay.Dates() {
				if r.coversNight(night) {
					return deny(ErrStopSellRestricted, r), nil
				}
			}
		case MinStay:
			if restrictionTouchesStay(r, stay) && nights < r.Value {
				return deny(ErrMinStayRequired, r), nil
			}
		case MaxStay:
			if restrictionTouchesStay(r, stay) && nights > r.Value {
				return deny(ErrMaxStayExceeded, r), nil
			}
		case ClosedToArrival:
			if r.coversNight(stay.CheckIn) {
				return deny(ErrClosedToArrival, r), nil
			}
		case ClosedToDeparture:
			if r.coversNight(stay.CheckOut) {
				return deny(ErrClosedToDeparture, r), nil
			}
		}
	}
	return allow(), nil
}

// restrictionTouchesStay reports whether any stayed night falls under the
// restriction's window and weekday filter.
func restrictionTouchesStay(r *RateRestriction, stay daterange.DateRange) bool {
	for _, night := range stay.Dates() {
		if r.coversNight(night) {
			return true
		}
	}
	return false
}
