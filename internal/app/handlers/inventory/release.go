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
)

const releaseInventoryKey = "inventory.release"

// ReleaseInventoryCommand returns rooms to the ledger after a cancellation
// or no-show.
type ReleaseInventoryCommand struct {
	CommandID       string
	RoomTypeID      string
	CheckIn         time.Time
	CheckOut        time.Time
	Quantity        int
	IdempotencyKeyV string
}

func (c ReleaseInventoryCommand) Key() string { return releaseInventoryKey }

func (c ReleaseInventoryCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c ReleaseInventoryCommand) ResultPrototype() any { return &ReleaseInventoryResult{} }

func (c ReleaseInventoryCommand) InvalidationTags() []string {
	return []string{cache.RoomTypeTag(c.RoomTypeID)}
}

type ReleaseInventoryResult struct {
	RoomTypeID string `json:"room_type_id"`
	Nights     int    `json:"nights"`
	Quantity   int    `json:"quantity"`
}

type ReleaseInventoryHandler struct {
	UoWFactory uow.UoWFactory
	Encoder    outbox.EventEncoder
}

func (h *ReleaseInventoryHandler) Handle(ctx context.Context, cmd ReleaseInventoryCommand) (*ReleaseInventoryResult, error) {
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

	stay, err := domainrange.New(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, err
	}
	if cmd.Quantity < 1 {
		return nil, domaininventory.ErrInvalidQuantity
	}

	roomTypeID := domaincatalog.RoomTypeID(cmd.RoomTypeID)
	if err := unit.Inventory().Release(ctx, roomTypeID, stay, cmd.Quantity); err != nil {
		return nil, err
	}

	event := domaininventory.RoomsReleased{
		RoomTypeID: roomTypeID,
		Stay:       stay,
		Quantity:   cmd.Quantity,
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
	return &ReleaseInventoryResult{
		RoomTypeID: cmd.RoomTypeID,
		Nights:     stay.Nights(),
		Quantity:   cmd.Quantity,
	}, nil
}

var _ commands.Handler[ReleaseInventoryCommand, *ReleaseInventoryResult] = (*ReleaseInventoryHandler)(nil)
var _ middleware.IdempotentCommand = ReleaseInventoryCommand{}
var _ middleware.CacheInvalidating = ReleaseInventoryCommand{}
