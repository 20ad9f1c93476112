package memory

import (
	"context"
	"sync"
	"time"

	domaincatalog "innkeep/internal/domain/catalog"
	domaininventory "innkeep/internal/domain/inventory"
	domainrange "innkeep/internal/domain/shared/daterange"
)

// InventoryLedger is the in-memory ledger used in dev mode and tests. One
// mutex guards the whole table: every multi-night check-and-decrement runs
// as a single critical section, which makes Reserve indivisible without a
// database.
type InventoryLedger struct {
	mu   sync.RWMutex
	days map[ledgerKey]*domaininventory.InventoryDay
}

type ledgerKey struct {
	roomTypeID domaincatalog.RoomTypeID
	date       int64
}

func keyFor(roomTypeID domaincatalog.RoomTypeID, date time.Time) ledgerKey {
	return ledgerKey{roomTypeID: roomTypeID, date: domainrange.Day(date).Unix()}
}

// NewInventoryLedger builds an empty ledger.
func NewInventoryLedger() *InventoryLedger {
	return &InventoryLedger{days: make(map[ledgerKey]*domaininventory.InventoryDay)}
}

// Put inserts or replaces a ledger row; fixtures and tests only.
func (l *InventoryLedger) Put(day domaininventory.InventoryDay) {
	l.mu.Lock()
	defer l.mu.Unlock()
	day.Date = domainrange.Day(day.Date)
	l.days[keyFor(day.RoomTypeID, day.Date)] = &day
}

// Reserve checks every night and decrements all of them under one lock, so
// two overlapping reservations can never both pass the availability check.
func (l *InventoryLedger) Reserve(ctx context.Context, roomTypeID domaincatalog.RoomTypeID, stay domainrange.DateRange, quantity int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	snapshot := l.rangeLocked(roomTypeID, stay)
	if err := domaininventory.ValidateReservation(snapshot, stay, quantity); err != nil {
		return err
	}
	for _, date := range stay.Dates() {
		l.days[keyFor(roomTypeID, date)].AvailableRooms -= quantity
	}
	return nil
}

// Release restores availability, clamped at each night's capacity.
func (l *InventoryLedger) Release(ctx context.Context, roomTypeID domaincatalog.RoomTypeID, stay domainrange.DateRange, quantity int) error {
	if quantity < 1 {
		return domaininventory.ErrInvalidQuantity
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, date := range stay.Dates() {
		day, ok := l.days[keyFor(roomTypeID, date)]
		if !ok {
			continue
		}
		day.AvailableRooms += quantity
		if day.AvailableRooms > day.TotalRooms {
			day.AvailableRooms = day.TotalRooms
		}
	}
	return nil
}

// ForRange returns copies of the range's rows in date order.
func (l *InventoryLedger) ForRange(ctx context.Context, roomTypeID domaincatalog.RoomTypeID, stay domainrange.DateRange) ([]domaininventory.InventoryDay, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.rangeLocked(roomTypeID, stay), nil
}

func (l *InventoryLedger) rangeLocked(roomTypeID domaincatalog.RoomTypeID, stay domainrange.DateRange) []domaininventory.InventoryDay {
	out := make([]domaininventory.InventoryDay, 0, stay.Nights())
	for _, date := range stay.Dates() {
		if day, ok := l.days[keyFor(roomTypeID, date)]; ok {
			out = append(out, *day)
		}
	}
	return out
}

// BulkUpdate overwrites fields on every existing row in range.
func (l *InventoryLedger) BulkUpdate(ctx context.Context, roomTypeID domaincatalog.RoomTypeID, stay domainrange.DateRange, update domaininventory.DayUpdate) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	updated := 0
	for _, date := range stay.Dates() {
		day, ok := l.days[keyFor(roomTypeID, date)]
		if !ok {
			continue
		}
		if update.TotalRooms != nil {
			sold := day.Sold()
			day.TotalRooms = *update.TotalRooms
			day.AvailableRooms = *update.TotalRooms - sold
			if day.AvailableRooms < 0 {
				day.AvailableRooms = 0
			}
		}
		if update.ClearPriceOverride {
			day.PriceOverride = nil
		} else if update.PriceOverride != nil {
			override := *update.PriceOverride
			day.PriceOverride = &override
		}
		if update.StopSell != nil {
			day.StopSell = *update.StopSell
		}
		if update.MinStay != nil {
			day.MinStay = *update.MinStay
		}
		updated++
	}
	return updated, nil
}

// Seed creates missing rows from the physical room count.
func (l *InventoryLedger) Seed(ctx context.Context, roomTypeID domaincatalog.RoomTypeID, stay domainrange.DateRange, totalRooms int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	created := 0
	for _, date := range stay.Dates() {
		key := keyFor(roomTypeID, date)
		if _, ok := l.days[key]; ok {
			continue
		}
		l.days[key] = &domaininventory.InventoryDay{
			RoomTypeID:     roomTypeID,
			Date:           date,
			TotalRooms:     totalRooms,
			AvailableRooms: totalRooms,
		}
		created++
	}
	return created, nil
}

var _ domaininventory.Ledger = (*InventoryLedger)(nil)
