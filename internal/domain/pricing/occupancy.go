package pricing

import (
	"context"
	"time"

	"innkeep/internal/domain/catalog"
	"innkeep/internal/domain/inventory"
	"innkeep/internal/domain/shared/daterange"
)

// LedgerOccupancy reads live occupancy from the inventory ledger's sold
// count. The ledger is the single source of truth for committed rooms, so
// pricing and reservations can never disagree about occupancy.
type LedgerOccupancy struct {
	Ledger inventory.Ledger
}

func (s LedgerOccupancy) OccupancyPercent(ctx context.Context, roomTypeID catalog.RoomTypeID, date time.Time) (float64, error) {
	night := daterange.Day(date)
	stay := daterange.DateRange{CheckIn: night, CheckOut: night.AddDate(0, 0, 1)}
	days, err := s.Ledger.ForRange(ctx, roomTypeID, stay)
	if err != nil {
		return 0, err
	}
	if len(days) == 0 {
		return 0, nil
	}
	return days[0].OccupancyPercent(), nil
}
