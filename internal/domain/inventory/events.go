package inventory

import (
	"time"

	"innkeep/internal/domain/catalog"
	"innkeep/internal/domain/shared/daterange"
)

type RoomsReserved struct {
	RoomTypeID catalog.RoomTypeID
	Stay       daterange.DateRange
	Quantity   int
	At         time.Time
}

func (e RoomsReserved) EventName() string     { return "inventory.reserved" }
func (e RoomsReserved) AggregateID() string   { return string(e.RoomTypeID) }
func (e RoomsReserved) OccurredAt() time.Time { return e.At }

type RoomsReleased struct {
	RoomTypeID catalog.RoomTypeID
	Stay       daterange.DateRange
	Quantity   int
	At         time.Time
}

func (e RoomsReleased) EventName() string     { return "inventory.released" }
func (e RoomsReleased) AggregateID() string   { return string(e.RoomTypeID) }
func (e RoomsReleased) OccurredAt() time.Time { return e.At }

type LedgerAdjusted struct {
	RoomTypeID catalog.RoomTypeID
	Stay       daterange.DateRange
	Nights     int
	At         time.Time
}

func (e LedgerAdjusted) EventName() string     { return "inventory.adjusted" }
func (e LedgerAdjusted) AggregateID() string   { return string(e.RoomTypeID) }
func (e LedgerAdjusted) OccurredAt() time.Time { return e.At }
