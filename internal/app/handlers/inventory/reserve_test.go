package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcache "innkeep/internal/app/cache"
	"innkeep/internal/app/commands"
	appinventory "innkeep/internal/app/handlers/inventory"
	"innkeep/internal/app/middleware"
	appoutbox "innkeep/internal/app/outbox"
	domaininventory "innkeep/internal/domain/inventory"
	domainrange "innkeep/internal/domain/shared/daterange"
	infracache "innkeep/internal/infra/cache"
	"innkeep/internal/infra/storage/memory"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type busFixture struct {
	ledger *memory.InventoryLedger
	outbox *memory.OutboxStore
	cache  appcache.Cache
	bus    commands.Bus
}

// newBusFixture wires the full command pipeline the way main does: idempotency
// replay, cache invalidation on success, a unit of work per command, then an
// outbox flush inside the transaction.
func newBusFixture(t *testing.T) *busFixture {
	t.Helper()
	f := &busFixture{
		ledger: memory.NewInventoryLedger(),
		outbox: memory.NewOutboxStore(),
		cache:  infracache.NewMemory(),
	}
	factory := memory.Factory{
		RoomTypeRepo:     memory.NewRoomTypeRepository(),
		Ledger:           f.ledger,
		RatePlanRepo:     memory.NewRatePlanRepository(),
		SeasonalRepo:     memory.NewSeasonalRateRepository(),
		DynamicRuleRepo:  memory.NewDynamicRuleRepository(),
		RestrictionsRepo: memory.NewRestrictionRepository(),
	}

	base := commands.NewInMemoryBus()
	commands.RegisterHandler(base, appinventory.ReserveInventoryCommand{}.Key(), &appinventory.ReserveInventoryHandler{
		UoWFactory: factory,
		Encoder:    appoutbox.JSONEventEncoder{},
	})
	commands.RegisterHandler(base, appinventory.ReleaseInventoryCommand{}.Key(), &appinventory.ReleaseInventoryHandler{
		UoWFactory: factory,
		Encoder:    appoutbox.JSONEventEncoder{},
	})

	f.bus = middleware.ChainCommands(base,
		middleware.Idempotency(memory.NewIdempotencyStore(), nil),
		middleware.CacheInvalidation(f.cache, nil),
		middleware.Transaction(factory, nil),
		middleware.OutboxFlush(f.outbox),
	)

	window, err := domainrange.New(date(2026, 7, 10), date(2026, 7, 13))
	require.NoError(t, err)
	_, err = f.ledger.Seed(context.Background(), "std-queen", window, 10)
	require.NoError(t, err)
	return f
}

func (f *busFixture) available(t *testing.T, night time.Time) int {
	t.Helper()
	window, err := domainrange.New(night, night.AddDate(0, 0, 1))
	require.NoError(t, err)
	days, err := f.ledger.ForRange(context.Background(), "std-queen", window)
	require.NoError(t, err)
	require.Len(t, days, 1)
	return days[0].AvailableRooms
}

func reserveCmd(key string, qty int) appinventory.ReserveInventoryCommand {
	return appinventory.ReserveInventoryCommand{
		CommandID:       "cmd-1",
		RoomTypeID:      "std-queen",
		CheckIn:         date(2026, 7, 10),
		CheckOut:        date(2026, 7, 12),
		Quantity:        qty,
		IdempotencyKeyV: key,
	}
}

func TestReserveRetryUnderSameKeyDecrementsOnce(t *testing.T) {
	f := newBusFixture(t)
	ctx := context.Background()

	res, err := f.bus.Dispatch(ctx, reserveCmd("retry-1", 2))
	require.NoError(t, err)
	first, ok := res.(*appinventory.ReserveInventoryResult)
	require.True(t, ok)
	assert.Equal(t, 2, first.Nights)
	assert.Equal(t, 8, f.available(t, date(2026, 7, 10)))

	res, err = f.bus.Dispatch(ctx, reserveCmd("retry-1", 2))
	require.NoError(t, err)
	replayed, ok := res.(*appinventory.ReserveInventoryResult)
	require.True(t, ok)
	assert.Equal(t, first, replayed)
	assert.Equal(t, 8, f.available(t, date(2026, 7, 10)), "replay must not touch the ledger")

	_, err = f.bus.Dispatch(ctx, reserveCmd("retry-2", 2))
	require.NoError(t, err)
	assert.Equal(t, 6, f.available(t, date(2026, 7, 10)), "a fresh key reserves again")
}

func TestReserveFailureIsReplayedUnderSameKey(t *testing.T) {
	f := newBusFixture(t)
	ctx := context.Background()

	_, err := f.bus.Dispatch(ctx, reserveCmd("too-many", 11))
	require.Error(t, err)
	firstMsg := err.Error()
	assert.Equal(t, 10, f.available(t, date(2026, 7, 10)))

	_, err = f.bus.Dispatch(ctx, reserveCmd("too-many", 11))
	require.Error(t, err)
	assert.Equal(t, firstMsg, err.Error())
	assert.Equal(t, 10, f.available(t, date(2026, 7, 10)))
}

func TestReserveFlushesEventToOutboxOnCommitOnly(t *testing.T) {
	f := newBusFixture(t)
	ctx := context.Background()

	_, err := f.bus.Dispatch(ctx, reserveCmd("ok", 1))
	require.NoError(t, err)

	doc, err := f.outbox.Claim(ctx, "test-worker")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, domaininventory.RoomsReserved{}.EventName(), doc.Name)
	assert.Equal(t, "std-queen", doc.Aggregate)

	// A failed command leaves nothing behind to publish.
	_, err = f.bus.Dispatch(ctx, reserveCmd("fail", 99))
	require.Error(t, err)
	doc, err = f.outbox.Claim(ctx, "test-worker")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestReserveDropsCachedEntriesForItsRoomType(t *testing.T) {
	f := newBusFixture(t)
	ctx := context.Background()

	key := appcache.Key("search", "std-queen")
	err := f.cache.Set(ctx, key, []byte(`{"cached":true}`), time.Minute, appcache.RoomTypeTag("std-queen"))
	require.NoError(t, err)

	_, err = f.bus.Dispatch(ctx, reserveCmd("invalidate-1", 1))
	require.NoError(t, err)

	_, ok, err := f.cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "a committed reserve must drop cached availability")
}

func TestFailedReserveKeepsCachedEntries(t *testing.T) {
	f := newBusFixture(t)
	ctx := context.Background()

	key := appcache.Key("search", "std-queen")
	err := f.cache.Set(ctx, key, []byte(`{"cached":true}`), time.Minute, appcache.RoomTypeTag("std-queen"))
	require.NoError(t, err)

	_, err = f.bus.Dispatch(ctx, reserveCmd("invalidate-2", 99))
	require.Error(t, err)

	_, ok, err := f.cache.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok, "a rejected reserve changes nothing, so the cache stays")
}

func TestReleaseRoundTripRestoresAvailability(t *testing.T) {
	f := newBusFixture(t)
	ctx := context.Background()

	_, err := f.bus.Dispatch(ctx, reserveCmd("hold", 3))
	require.NoError(t, err)
	require.Equal(t, 7, f.available(t, date(2026, 7, 10)))

	_, err = f.bus.Dispatch(ctx, appinventory.ReleaseInventoryCommand{
		CommandID:       "cmd-2",
		RoomTypeID:      "std-queen",
		CheckIn:         date(2026, 7, 10),
		CheckOut:        date(2026, 7, 12),
		Quantity:        3,
		IdempotencyKeyV: "release-1",
	})
	require.NoError(t, err)
	assert.Equal(t, 10, f.available(t, date(2026, 7, 10)))
}
