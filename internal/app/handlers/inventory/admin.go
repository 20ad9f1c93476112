package inventory

import (
	"context"
	"time"

	"innkeep/internal/app/cache"
	"innkeep/internal/app/commands"
	"innkeep/internal/app/middleware"
	"innkeep/internal/app/outbox"
	"innkeep/internal/app/uow"
	domaincatalog "innkeep/internal/domain/catalog"
	domaininventory "innkeep/internal/domain/inventory"
	domainrange "innkeep/internal/domain/shared/daterange"
	"innkeep/internal/domain/shared/events"
	"innkeep/internal/domain/shared/money"
)

const (
	bulkUpdateInventoryKey = "inventory.bulk_update"
	seedInventoryKey       = "inventory.seed"
)

// BulkUpdateInventoryCommand overwrites ledger fields across a date range.
// Administrative and infrequent; it is not part of the booking hot path.
type BulkUpdateInventoryCommand struct {
	CommandID          string
	RoomTypeID         string
	From               time.Time
	To                 time.Time
	TotalRooms         *int
	PriceOverride      *float64
	ClearPriceOverride bool
	StopSell           *bool
	MinStay            *int
	Currency           string
}

func (c BulkUpdateInventoryCommand) Key() string { return bulkUpdateInventoryKey }

func (c BulkUpdateInventoryCommand) InvalidationTags() []string {
	return []string{cache.RoomTypeTag(c.RoomTypeID)}
}

type BulkUpdateInventoryResult struct {
	RoomTypeID string `json:"room_type_id"`
	Updated    int    `json:"updated"`
}

type BulkUpdateInventoryHandler struct {
	UoWFactory uow.UoWFactory
	Encoder    outbox.EventEncoder
}

func (h *BulkUpdateInventoryHandler) Handle(ctx context.Context, cmd BulkUpdateInventoryCommand) (*BulkUpdateInventoryResult, error) {
	unit, managed, err := unitFor(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	committed := false
	if managed {
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	stay, err := domainrange.New(cmd.From, cmd.To)
	if err != nil {
		return nil, err
	}
	update := domaininventory.DayUpdate{
		TotalRooms:         cmd.TotalRooms,
		ClearPriceOverride: cmd.ClearPriceOverride,
		StopSell:           cmd.StopSell,
		MinStay:            cmd.MinStay,
	}
	if cmd.PriceOverride != nil {
		override := money.FromFloat(*cmd.PriceOverride, cmd.Currency)
		update.PriceOverride = &override
	}

	roomTypeID := domaincatalog.RoomTypeID(cmd.RoomTypeID)
	updated, err := unit.Inventory().BulkUpdate(ctx, roomTypeID, stay, update)
	if err != nil {
		return nil, err
	}

	event := domaininventory.LedgerAdjusted{
		RoomTypeID: roomTypeID,
		Stay:       stay,
		Nights:     updated,
		At:         time.Now().UTC(),
	}
	if err := outbox.RecordDomainEvents(ctx, h.Encoder, []events.DomainEvent{event}); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &BulkUpdateInventoryResult{RoomTypeID: cmd.RoomTypeID, Updated: updated}, nil
}

// SeedInventoryCommand creates missing ledger rows across a booking window
// from the room type's physical capacity.
type SeedInventoryCommand struct {
	CommandID  string
	RoomTypeID string
	From       time.Time
	To         time.Time
	TotalRooms int
}

func (c SeedInventoryCommand) Key() string { return seedInventoryKey }

func (c SeedInventoryCommand) InvalidationTags() []string {
	return []string{cache.RoomTypeTag(c.RoomTypeID)}
}

type SeedInventoryResult struct {
	RoomTypeID string `json:"room_type_id"`
	Created    int    `json:"created"`
}

type SeedInventoryHandler struct {
	UoWFactory uow.UoWFactory
	Encoder    outbox.EventEncoder
}

func (h *SeedInventoryHandler) Handle(ctx context.Context, cmd SeedInventoryCommand) (*SeedInventoryResult, error) {
	unit, managed, err := unitFor(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	committed := false
	if managed {
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	stay, err := domainrange.New(cmd.From, cmd.To)
	if err != nil {
		return nil, err
	}
	roomTypeID := domaincatalog.RoomTypeID(cmd.RoomTypeID)

	totalRooms := cmd.TotalRooms
	if totalRooms <= 0 {
		roomType, err := unit.RoomTypes().ByID(ctx, roomTypeID)
		if err != nil {
			return nil, err
		}
		totalRooms = roomType.TotalRooms
	}

	created, err := unit.Inventory().Seed(ctx, roomTypeID, stay, totalRooms)
	if err != nil {
		return nil, err
	}

	event := domaininventory.LedgerAdjusted{
		RoomTypeID: roomTypeID,
		Stay:       stay,
		Nights:     created,
		At:         time.Now().UTC(),
	}
	if err := outbox.RecordDomainEvents(ctx, h.Encoder, []events.DomainEvent{event}); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &SeedInventoryResult{RoomTypeID: cmd.RoomTypeID, Created: created}, nil
}

var _ commands.Handler[BulkUpdateInventoryCommand, *BulkUpdateInventoryResult] = (*BulkUpdateInventoryHandler)(nil)
var _ commands.Handler[SeedInventoryCommand, *SeedInventoryResult] = (*SeedInventoryHandler)(nil)
var _ middleware.CacheInvalidating = BulkUpdateInventoryCommand{}
var _ middleware.CacheInvalidating = SeedInventoryCommand{}
