package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innkeep/internal/domain/inventory"
	"innkeep/internal/domain/shared/daterange"
	"innkeep/internal/infra/storage/memory"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func stay(t *testing.T, in, out time.Time) daterange.DateRange {
	t.Helper()
	r, err := daterange.New(in, out)
	require.NoError(t, err)
	return r
}

func seededLedger(t *testing.T, rooms int, in, out time.Time) *memory.InventoryLedger {
	t.Helper()
	ledger := memory.NewInventoryLedger()
	_, err := ledger.Seed(context.Background(), "std-queen", stay(t, in, out), rooms)
	require.NoError(t, err)
	return ledger
}

func TestReserveDecrementsEveryNight(t *testing.T) {
	ledger := seededLedger(t, 10, date(2026, 7, 10), date(2026, 7, 13))

	err := ledger.Reserve(context.Background(), "std-queen", stay(t, date(2026, 7, 10), date(2026, 7, 13)), 2)
	require.NoError(t, err)

	days, err := ledger.ForRange(context.Background(), "std-queen", stay(t, date(2026, 7, 10), date(2026, 7, 13)))
	require.NoError(t, err)
	require.Len(t, days, 3)
	for _, day := range days {
		assert.Equal(t, 8, day.AvailableRooms)
	}
}

func TestReserveFailureLeavesEveryNightUntouched(t *testing.T) {
	ledger := seededLedger(t, 10, date(2026, 7, 10), date(2026, 7, 13))
	// Drain the last night so the third check fails.
	require.NoError(t, ledger.Reserve(context.Background(), "std-queen", stay(t, date(2026, 7, 12), date(2026, 7, 13)), 10))

	err := ledger.Reserve(context.Background(), "std-queen", stay(t, date(2026, 7, 10), date(2026, 7, 13)), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, inventory.ErrInsufficientRooms)

	var failure *inventory.NightFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, date(2026, 7, 12), failure.Date)

	days, err := ledger.ForRange(context.Background(), "std-queen", stay(t, date(2026, 7, 10), date(2026, 7, 12)))
	require.NoError(t, err)
	for _, day := range days {
		assert.Equal(t, 10, day.AvailableRooms, "earlier nights must not be decremented")
	}
}

func TestReserveRejectsStopSellAndMinStay(t *testing.T) {
	ledger := seededLedger(t, 10, date(2026, 7, 10), date(2026, 7, 13))
	stopSell := true
	_, err := ledger.BulkUpdate(context.Background(), "std-queen", stay(t, date(2026, 7, 11), date(2026, 7, 12)), inventory.DayUpdate{StopSell: &stopSell})
	require.NoError(t, err)

	err = ledger.Reserve(context.Background(), "std-queen", stay(t, date(2026, 7, 10), date(2026, 7, 12)), 1)
	assert.ErrorIs(t, err, inventory.ErrStopSellActive)

	minStay := 3
	stopSell = false
	_, err = ledger.BulkUpdate(context.Background(), "std-queen", stay(t, date(2026, 7, 11), date(2026, 7, 12)), inventory.DayUpdate{StopSell: &stopSell, MinStay: &minStay})
	require.NoError(t, err)

	err = ledger.Reserve(context.Background(), "std-queen", stay(t, date(2026, 7, 10), date(2026, 7, 12)), 1)
	assert.ErrorIs(t, err, inventory.ErrMinStayViolation)
}

func TestReserveMissingNight(t *testing.T) {
	ledger := seededLedger(t, 10, date(2026, 7, 10), date(2026, 7, 12))

	err := ledger.Reserve(context.Background(), "std-queen", stay(t, date(2026, 7, 10), date(2026, 7, 14)), 1)
	assert.ErrorIs(t, err, inventory.ErrNoInventoryRecord)
}

func TestConcurrentReservesNeverOversell(t *testing.T) {
	const rooms = 5
	const contenders = 20
	ledger := seededLedger(t, rooms, date(2026, 7, 10), date(2026, 7, 12))
	window := stay(t, date(2026, 7, 10), date(2026, 7, 12))

	var wg sync.WaitGroup
	results := make(chan error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- ledger.Reserve(context.Background(), "std-queen", window, 1)
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, inventory.ErrInsufficientRooms)
		}
	}
	assert.Equal(t, rooms, succeeded)

	days, err := ledger.ForRange(context.Background(), "std-queen", window)
	require.NoError(t, err)
	for _, day := range days {
		assert.Equal(t, 0, day.AvailableRooms)
	}
}

func TestReleaseClampsAtCapacity(t *testing.T) {
	ledger := seededLedger(t, 10, date(2026, 7, 10), date(2026, 7, 12))
	window := stay(t, date(2026, 7, 10), date(2026, 7, 12))
	require.NoError(t, ledger.Reserve(context.Background(), "std-queen", window, 3))

	require.NoError(t, ledger.Release(context.Background(), "std-queen", window, 3))
	// Double release must not inflate capacity.
	require.NoError(t, ledger.Release(context.Background(), "std-queen", window, 3))

	days, err := ledger.ForRange(context.Background(), "std-queen", window)
	require.NoError(t, err)
	for _, day := range days {
		assert.Equal(t, 10, day.AvailableRooms)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	ledger := memory.NewInventoryLedger()
	window := stay(t, date(2026, 7, 10), date(2026, 7, 13))

	created, err := ledger.Seed(context.Background(), "std-queen", window, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	require.NoError(t, ledger.Reserve(context.Background(), "std-queen", window, 4))

	created, err = ledger.Seed(context.Background(), "std-queen", window, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, created, "existing rows stay untouched")

	days, err := ledger.ForRange(context.Background(), "std-queen", window)
	require.NoError(t, err)
	for _, day := range days {
		assert.Equal(t, 6, day.AvailableRooms)
	}
}

func TestBulkUpdateCapacityChangePreservesSold(t *testing.T) {
	ledger := seededLedger(t, 10, date(2026, 7, 10), date(2026, 7, 12))
	window := stay(t, date(2026, 7, 10), date(2026, 7, 12))
	require.NoError(t, ledger.Reserve(context.Background(), "std-queen", window, 4))

	newTotal := 8
	updated, err := ledger.BulkUpdate(context.Background(), "std-queen", window, inventory.DayUpdate{TotalRooms: &newTotal})
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	days, err := ledger.ForRange(context.Background(), "std-queen", window)
	require.NoError(t, err)
	for _, day := range days {
		assert.Equal(t, 8, day.TotalRooms)
		assert.Equal(t, 4, day.AvailableRooms, "sold count survives the capacity change")
	}

	// Cutting below the sold count floors availability at zero.
	newTotal = 2
	_, err = ledger.BulkUpdate(context.Background(), "std-queen", window, inventory.DayUpdate{TotalRooms: &newTotal})
	require.NoError(t, err)

	days, err = ledger.ForRange(context.Background(), "std-queen", window)
	require.NoError(t, err)
	for _, day := range days {
		assert.Equal(t, 0, day.AvailableRooms)
	}
}
