package inventory

import (
	"context"
	"errors"
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

const reserveInventoryKey = "inventory.reserve"

var ErrUnitOfWorkRequired = errors.New("inventory: unit of work required")

// ReserveInventoryCommand holds rooms for every night of a stay. It is the
// one concurrency-sensitive write in the system.
type ReserveInventoryCommand struct {
	CommandID       string
	RoomTypeID      string
	CheckIn         time.Time
	CheckOut        time.Time
	Quantity        int
	IdempotencyKeyV string
}

func (c ReserveInventoryCommand) Key() string { return reserveInventoryKey }

func (c ReserveInventoryCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c ReserveInventoryCommand) ResultPrototype() any { return &ReserveInventoryResult{} }

func (c ReserveInventoryCommand) InvalidationTags() []string {
	return []string{cache.RoomTypeTag(c.RoomTypeID)}
}

type ReserveInventoryResult struct {
	RoomTypeID string `json:"room_type_id"`
	Nights     int    `json:"nights"`
	Quantity   int    `json:"quantity"`
}

type ReserveInventoryHandler struct {
	UoWFactory uow.UoWFactory
	Encoder    outbox.EventEncoder
}

func (h *ReserveInventoryHandler) Handle(ctx context.Context, cmd ReserveInventoryCommand) (*ReserveInventoryResult, error) {
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
	if err := unit.Inventory().Reserve(ctx, roomTypeID, stay, cmd.Quantity); err != nil {
		return nil, err
	}

	event := domaininventory.RoomsReserved{
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
	return &ReserveInventoryResult{
		RoomTypeID: cmd.RoomTypeID,
		Nights:     stay.Nights(),
		Quantity:   cmd.Quantity,
	}, nil
}

// unitFor reuses the transaction middleware's unit of work when present and
// opens a managed one otherwise.
func unitFor(ctx context.Context, factory uow.UoWFactory) (uow.UnitOfWork, bool, error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return unit, false, nil
	}
	if factory == nil {
		return nil, false, ErrUnitOfWorkRequired
	}
	unit, err := factory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return nil, false, err
	}
	return unit, true, nil
}

var _ commands.Handler[ReserveInventoryCommand, *ReserveInventoryResult] = (*ReserveInventoryHandler)(nil)
var _ middleware.IdempotentCommand = ReserveInventoryCommand{}
var _ middleware.CacheInvalidating = ReserveInventoryCommand{}
