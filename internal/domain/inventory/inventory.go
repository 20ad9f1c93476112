package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"innkeep/internal/domain/catalog"
	"innkeep/internal/domain/shared/daterange"
	"innkeep/internal/domain/shared/money"
)

var (
	ErrNoInventoryRecord = errors.New("inventory: no record for night")
	ErrStopSellActive    = errors.New("inventory: stop-sell active")
	ErrInsufficientRooms = errors.New("inventory: not enough rooms available")
	ErrMinStayViolation  = errors.New("inventory: stay shorter than minimum")
	ErrInvalidQuantity   = errors.New("inventory: quantity must be positive")
)

// InventoryDay is one (room type, night) row of the availability ledger — the
// unit of concurrency control. AvailableRooms stays within [0, TotalRooms].
type InventoryDay struct {
	RoomTypeID     catalog.RoomTypeID
	Date           time.Time
	TotalRooms     int
	AvailableRooms int
	PriceOverride  *money.Money
	StopSell       bool
	MinStay        int
}

// Sold returns the number of rooms currently committed for the night.
func (d InventoryDay) Sold() int {
	return d.TotalRooms - d.AvailableRooms
}

// OccupancyPercent is the committed share of capacity, 0–100.
func (d InventoryDay) OccupancyPercent() float64 {
	if d.TotalRooms <= 0 {
		return 0
	}
	return float64(d.Sold()) / float64(d.TotalRooms) * 100
}

// NightlyRate returns the night's base rate: the override when set, the room
// type's base rate otherwise.
func (d InventoryDay) NightlyRate(fallback money.Money) money.Money {
	if d.PriceOverride != nil {
		return *d.PriceOverride
	}
	return fallback
}

// NightFailure pins a reserve failure to the night that caused it, so the
// orchestrator can tell the guest which date is the problem.
type NightFailure struct {
	Reason error
	Date   time.Time
}

func (f *NightFailure) Error() string {
	return fmt.Sprintf("%v on %s", f.Reason, f.Date.Format("2006-01-02"))
}

func (f *NightFailure) Unwrap() error {
	return f.Reason
}

// FailNight wraps a ledger sentinel with the offending date.
func FailNight(reason error, date time.Time) error {
	return &NightFailure{Reason: reason, Date: date}
}

// DayUpdate describes an administrative overwrite of ledger fields. Nil
// pointers leave the field untouched; ClearPriceOverride removes the override.
type DayUpdate struct {
	TotalRooms         *int
	PriceOverride      *money.Money
	ClearPriceOverride bool
	StopSell           *bool
	MinStay            *int
}

// IsZero reports whether the update would change nothing.
func (u DayUpdate) IsZero() bool {
	return u.TotalRooms == nil && u.PriceOverride == nil && !u.ClearPriceOverride &&
		u.StopSell == nil && u.MinStay == nil
}

// Ledger is the mutable availability store. Reserve is the only operation
// that needs strict mutual exclusion: the multi-night check-and-decrement
// must be indivisible, and a failure on any night must leave every night
// untouched.
type Ledger interface {
	// Reserve atomically decrements availability for every night of the
	// range. On failure it returns a *NightFailure wrapping one of the
	// ledger sentinels and no night is modified.
	Reserve(ctx context.Context, roomTypeID catalog.RoomTypeID, stay daterange.DateRange, quantity int) error
	// Release returns rooms for every night, clamped at TotalRooms so a
	// double release can never inflate capacity.
	Release(ctx context.Context, roomTypeID catalog.RoomTypeID, stay daterange.DateRange, quantity int) error
	// ForRange returns the nights of the range in date order. Missing
	// nights are absent from the result, not an error.
	ForRange(ctx context.Context, roomTypeID catalog.RoomTypeID, stay daterange.DateRange) ([]InventoryDay, error)
	// BulkUpdate overwrites ledger fields across a range. Admin-only.
	BulkUpdate(ctx context.Context, roomTypeID catalog.RoomTypeID, stay daterange.DateRange, update DayUpdate) (int, error)
	// Seed creates missing rows across a range from the physical room
	// count, leaving existing rows untouched. Returns rows created.
	Seed(ctx context.Context, roomTypeID catalog.RoomTypeID, stay daterange.DateRange, totalRooms int) (int, error)
}

// ValidateReservation applies the per-night checks shared by every ledger
// implementation: a missing row, stop-sell, a min-stay floor above the stay
// length, or insufficient rooms each fail the whole reservation.
func ValidateReservation(days []InventoryDay, stay daterange.DateRange, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	nights := stay.Nights()
	byDate := make(map[time.Time]InventoryDay, len(days))
	for _, day := range days {
		byDate[daterange.Day(day.Date)] = day
	}
	for _, date := range stay.Dates() {
		day, ok := byDate[date]
		if !ok {
			return FailNight(ErrNoInventoryRecord, date)
		}
		if day.StopSell {
			return FailNight(ErrStopSellActive, date)
		}
		if day.MinStay > 0 && nights < day.MinStay {
			return FailNight(ErrMinStayViolation, date)
		}
		if day.AvailableRooms < quantity {
			return FailNight(ErrInsufficientRooms, date)
		}
	}
	return nil
}
