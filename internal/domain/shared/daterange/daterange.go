package daterange

import (
	"errors"
	"time"
)

var ErrInvalidRange = errors.New("daterange: check-out must be after check-in")

// DateRange is a half-open [CheckIn, CheckOut) stay interval. Both bounds are
// normalized to UTC midnight; each night of the stay is one calendar date.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// New builds a validated DateRange.
func New(checkIn, checkOut time.Time) (DateRange, error) {
	in := Day(checkIn)
	out := Day(checkOut)
	if !out.After(in) {
		return DateRange{}, ErrInvalidRange
	}
	return DateRange{CheckIn: in, CheckOut: out}, nil
}

// Day truncates a timestamp to UTC midnight.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Nights returns the number of nights covered by the range.
func (r DateRange) Nights() int {
	return int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
}

// Dates returns every night of the stay in order, check-out excluded.
func (r DateRange) Dates() []time.Time {
	nights := r.Nights()
	if nights <= 0 {
		return nil
	}
	dates := make([]time.Time, 0, nights)
	for d := r.CheckIn; d.Before(r.CheckOut); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// Contains reports whether the given date is one of the stay's nights.
func (r DateRange) Contains(date time.Time) bool {
	d := Day(date)
	return !d.Before(r.CheckIn) && d.Before(r.CheckOut)
}

// IsZero reports whether the range is unset.
func (r DateRange) IsZero() bool {
	return r.CheckIn.IsZero() && r.CheckOut.IsZero()
}
