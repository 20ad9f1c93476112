package pricing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innkeep/internal/domain/catalog"
	"innkeep/internal/domain/inventory"
	"innkeep/internal/domain/pricing"
	"innkeep/internal/domain/rates"
	"innkeep/internal/domain/shared/daterange"
	"innkeep/internal/domain/shared/money"
	"innkeep/internal/infra/storage/memory"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	roomTypes *memory.RoomTypeRepository
	ledger    *memory.InventoryLedger
	plans     *memory.RatePlanRepository
	seasonal  *memory.SeasonalRateRepository
	dynamic   *memory.DynamicRuleRepository
	settings  *memory.SettingsStore
	engine    *pricing.Engine
}

func newFixture(t *testing.T, settings pricing.Settings) *fixture {
	t.Helper()
	f := &fixture{
		roomTypes: memory.NewRoomTypeRepository(),
		ledger:    memory.NewInventoryLedger(),
		plans:     memory.NewRatePlanRepository(),
		seasonal:  memory.NewSeasonalRateRepository(),
		dynamic:   memory.NewDynamicRuleRepository(),
		settings:  memory.NewSettingsStore(settings),
	}
	f.engine = &pricing.Engine{
		RoomTypes: f.roomTypes,
		Ledger:    f.ledger,
		Plans:     rates.RatePlanResolver{Plans: f.plans},
		Seasonal:  rates.SeasonalRateResolver{Rates: f.seasonal},
		Dynamic: rates.DynamicModifierCalculator{
			Rules:     f.dynamic,
			Occupancy: pricing.LedgerOccupancy{Ledger: f.ledger},
		},
		Settings:  f.settings,
		Discounts: pricing.NoDiscount{},
	}
	return f
}

func (f *fixture) addRoomType(t *testing.T, id string, baseRate int64, totalRooms int) {
	t.Helper()
	f.roomTypes.Put(catalog.RoomType{
		ID:             catalog.RoomTypeID(id),
		Name:           id,
		BaseRate:       money.Must(baseRate, "USD"),
		BaseOccupancy:  2,
		MaxOccupancy:   4,
		ExtraAdultRate: money.Must(2000, "USD"),
		ExtraChildRate: money.Must(1000, "USD"),
		TotalRooms:     totalRooms,
		Active:         true,
	})
}

func (f *fixture) seed(t *testing.T, id string, from, to time.Time, rooms int) {
	t.Helper()
	window, err := daterange.New(from, to)
	require.NoError(t, err)
	_, err = f.ledger.Seed(context.Background(), catalog.RoomTypeID(id), window, rooms)
	require.NoError(t, err)
}

func (f *fixture) addDefaultPlan(modifier rates.Modifier) {
	f.plans.Put(rates.RatePlan{
		ID:        "bar",
		Name:      "Best Available",
		Modifier:  modifier,
		IsDefault: true,
		Active:    true,
	})
}

func stayInput(id string, in, out time.Time, adults, children int) pricing.StayInput {
	stay, _ := daterange.New(in, out)
	return pricing.StayInput{
		RoomTypeID: catalog.RoomTypeID(id),
		Stay:       stay,
		Adults:     adults,
		Children:   children,
	}
}

// Composition order per night: plan modifier, best seasonal, dynamic percent
// sum, dynamic fixed sum, clamp. ((100 * 1.10) + 5) * 1.02 - 3 = 114.30.
func TestCalculateStayCompositionOrder(t *testing.T) {
	f := newFixture(t, pricing.Settings{TaxRate: 0, ServiceFeeRate: 0, Currency: "USD", ExchangeRate: 1})
	f.addRoomType(t, "std-queen", 10000, 10)
	f.seed(t, "std-queen", date(2026, 7, 10), date(2026, 7, 11), 10)
	f.addDefaultPlan(rates.Modifier{Kind: rates.ModifierPercentage, Value: 10})

	f.seasonal.Put(rates.SeasonalRate{
		ID:       1,
		Name:     "Summer",
		Start:    date(2026, 7, 1),
		End:      date(2026, 7, 31),
		Modifier: rates.Modifier{Kind: rates.ModifierFixed, Value: 5},
		Active:   true,
	})
	f.dynamic.PutDowRule(rates.DowRule{
		ID:       1,
		Weekday:  date(2026, 7, 10).Weekday(),
		Modifier: rates.Modifier{Kind: rates.ModifierPercentage, Value: 2},
		Active:   true,
	})
	f.dynamic.PutEventOverride(rates.EventOverride{
		ID:       1,
		Name:     "Roadworks",
		Start:    date(2026, 7, 10),
		End:      date(2026, 7, 10),
		Modifier: rates.Modifier{Kind: rates.ModifierFixed, Value: -3},
		Active:   true,
	})

	quote, err := f.engine.CalculateStay(context.Background(), stayInput("std-queen", date(2026, 7, 10), date(2026, 7, 11), 2, 0))
	require.NoError(t, err)
	require.Len(t, quote.Nightly, 1)
	assert.Equal(t, int64(11430), quote.Nightly[0].FinalRate.Amount)
	assert.Equal(t, int64(11430), quote.Total.Amount)
	assert.Equal(t, int64(1), quote.Nightly[0].SeasonalID)
}

// Two nights at 100, three adults with base occupancy two: subtotal 200,
// occupant fees 2 nights * 20 = 40, tax 10% of 240 = 24, total 264.
func TestCalculateStayOccupantSurchargeAndTax(t *testing.T) {
	f := newFixture(t, pricing.Settings{TaxRate: 0.10, ServiceFeeRate: 0, Currency: "USD", ExchangeRate: 1})
	f.addRoomType(t, "std-queen", 10000, 10)
	f.seed(t, "std-queen", date(2026, 7, 10), date(2026, 7, 12), 10)
	f.addDefaultPlan(rates.Modifier{Kind: rates.ModifierPercentage, Value: 0})

	quote, err := f.engine.CalculateStay(context.Background(), stayInput("std-queen", date(2026, 7, 10), date(2026, 7, 12), 3, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(20000), quote.Subtotal.Amount)
	assert.Equal(t, int64(4000), quote.Fees.Amount)
	assert.Equal(t, int64(2400), quote.Taxes.Amount)
	assert.Equal(t, int64(26400), quote.Total.Amount)
	assert.Equal(t, 2, quote.Nights)
}

func TestCalculateStayChildSurchargePerNight(t *testing.T) {
	f := newFixture(t, pricing.Settings{Currency: "USD", ExchangeRate: 1})
	f.addRoomType(t, "std-queen", 10000, 10)
	f.seed(t, "std-queen", date(2026, 7, 10), date(2026, 7, 12), 10)
	f.addDefaultPlan(rates.Modifier{Kind: rates.ModifierPercentage, Value: 0})

	quote, err := f.engine.CalculateStay(context.Background(), stayInput("std-queen", date(2026, 7, 10), date(2026, 7, 12), 2, 1))
	require.NoError(t, err)
	// One child at 10.00 per night over two nights.
	assert.Equal(t, int64(2000), quote.Fees.Amount)
}

func TestCalculateStayUsesPriceOverride(t *testing.T) {
	f := newFixture(t, pricing.Settings{Currency: "USD", ExchangeRate: 1})
	f.addRoomType(t, "std-queen", 10000, 10)
	f.seed(t, "std-queen", date(2026, 7, 10), date(2026, 7, 12), 10)
	f.addDefaultPlan(rates.Modifier{Kind: rates.ModifierPercentage, Value: 0})

	override := money.Must(8000, "USD")
	f.ledger.Put(inventory.InventoryDay{
		RoomTypeID:     "std-queen",
		Date:           date(2026, 7, 10),
		TotalRooms:     10,
		AvailableRooms: 10,
		PriceOverride:  &override,
	})

	quote, err := f.engine.CalculateStay(context.Background(), stayInput("std-queen", date(2026, 7, 10), date(2026, 7, 12), 2, 0))
	require.NoError(t, err)
	require.Len(t, quote.Nightly, 2)
	assert.True(t, quote.Nightly[0].Overridden)
	assert.Equal(t, int64(8000), quote.Nightly[0].FinalRate.Amount)
	assert.False(t, quote.Nightly[1].Overridden)
	assert.Equal(t, int64(18000), quote.Subtotal.Amount)
}

func TestCalculateStayClampsNegativeNightAtZero(t *testing.T) {
	f := newFixture(t, pricing.Settings{Currency: "USD", ExchangeRate: 1})
	f.addRoomType(t, "std-queen", 1000, 10)
	f.seed(t, "std-queen", date(2026, 7, 10), date(2026, 7, 11), 10)
	f.addDefaultPlan(rates.Modifier{Kind: rates.ModifierPercentage, Value: 0})
	f.dynamic.PutEventOverride(rates.EventOverride{
		ID:       1,
		Name:     "Fire Sale",
		Start:    date(2026, 7, 10),
		End:      date(2026, 7, 10),
		Modifier: rates.Modifier{Kind: rates.ModifierFixed, Value: -50},
		Active:   true,
	})

	quote, err := f.engine.CalculateStay(context.Background(), stayInput("std-queen", date(2026, 7, 10), date(2026, 7, 11), 2, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(0), quote.Nightly[0].FinalRate.Amount)
}

func TestCalculateStayRejectsStayOutsidePlanBounds(t *testing.T) {
	f := newFixture(t, pricing.Settings{Currency: "USD", ExchangeRate: 1})
	f.addRoomType(t, "std-queen", 10000, 10)
	f.plans.Put(rates.RatePlan{
		ID:        "weekly",
		Name:      "Weekly Saver",
		Modifier:  rates.Modifier{Kind: rates.ModifierPercentage, Value: -20},
		MinStay:   7,
		IsDefault: true,
		Active:    true,
	})

	_, err := f.engine.CalculateStay(context.Background(), stayInput("std-queen", date(2026, 7, 10), date(2026, 7, 12), 2, 0))
	assert.ErrorIs(t, err, pricing.ErrStayLengthViolation)
}

func TestCalculateStayRejectsBadInput(t *testing.T) {
	f := newFixture(t, pricing.Settings{Currency: "USD", ExchangeRate: 1})
	f.addRoomType(t, "std-queen", 10000, 10)
	f.addDefaultPlan(rates.Modifier{Kind: rates.ModifierPercentage, Value: 0})

	in := stayInput("std-queen", date(2026, 7, 10), date(2026, 7, 12), 0, 0)
	_, err := f.engine.CalculateStay(context.Background(), in)
	assert.ErrorIs(t, err, pricing.ErrInvalidGuests)

	_, err = f.engine.CalculateStay(context.Background(), stayInput("missing", date(2026, 7, 10), date(2026, 7, 12), 2, 0))
	assert.ErrorIs(t, err, catalog.ErrRoomTypeNotFound)
}

func TestCalculateStayAppliesDiscountBeforeTax(t *testing.T) {
	f := newFixture(t, pricing.Settings{TaxRate: 0.10, Currency: "USD", ExchangeRate: 1})
	f.addRoomType(t, "std-queen", 10000, 10)
	f.seed(t, "std-queen", date(2026, 7, 10), date(2026, 7, 12), 10)
	f.addDefaultPlan(rates.Modifier{Kind: rates.ModifierPercentage, Value: 0})
	f.engine.Discounts = pricing.FlatDiscount{Amount: money.Must(5000, "USD")}

	quote, err := f.engine.CalculateStay(context.Background(), stayInput("std-queen", date(2026, 7, 10), date(2026, 7, 12), 2, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(5000), quote.Discount.Amount)
	// Tax on (200 - 50) = 15.00; total 200 + 15 - 50 = 165.00.
	assert.Equal(t, int64(1500), quote.Taxes.Amount)
	assert.Equal(t, int64(16500), quote.Total.Amount)
}

func TestCalculateStayRejectsDiscountInForeignCurrency(t *testing.T) {
	f := newFixture(t, pricing.Settings{TaxRate: 0.10, Currency: "USD", ExchangeRate: 1})
	f.addRoomType(t, "std-queen", 10000, 10)
	f.seed(t, "std-queen", date(2026, 7, 10), date(2026, 7, 12), 10)
	f.addDefaultPlan(rates.Modifier{Kind: rates.ModifierPercentage, Value: 0})
	f.engine.Discounts = pricing.FlatDiscount{Amount: money.Must(1000, "EUR")}

	_, err := f.engine.CalculateStay(context.Background(), stayInput("std-queen", date(2026, 7, 10), date(2026, 7, 12), 2, 0))
	assert.ErrorIs(t, err, money.ErrCurrencyMismatch)

	// A zero discount carries no amount, so its currency is irrelevant.
	f.engine.Discounts = pricing.FlatDiscount{Amount: money.Money{Amount: 0, Currency: "EUR"}}
	quote, err := f.engine.CalculateStay(context.Background(), stayInput("std-queen", date(2026, 7, 10), date(2026, 7, 12), 2, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(22000), quote.Total.Amount)
}

// Occupancy pricing feeds off the same ledger reservations come from.
func TestCalculateStayOccupancyFromLedger(t *testing.T) {
	f := newFixture(t, pricing.Settings{Currency: "USD", ExchangeRate: 1})
	f.addRoomType(t, "std-queen", 10000, 10)
	f.seed(t, "std-queen", date(2026, 7, 10), date(2026, 7, 11), 10)
	f.addDefaultPlan(rates.Modifier{Kind: rates.ModifierPercentage, Value: 0})
	f.dynamic.PutOccupancyRule(rates.OccupancyRule{
		ID:               1,
		ThresholdPercent: 80,
		Modifier:         rates.Modifier{Kind: rates.ModifierPercentage, Value: 15},
		Active:           true,
	})

	window, err := daterange.New(date(2026, 7, 10), date(2026, 7, 11))
	require.NoError(t, err)
	require.NoError(t, f.ledger.Reserve(context.Background(), "std-queen", window, 9))

	quote, err := f.engine.CalculateStay(context.Background(), stayInput("std-queen", date(2026, 7, 10), date(2026, 7, 11), 2, 0))
	require.NoError(t, err)
	// 90% occupancy trips the 80% rule: 100 * 1.15.
	assert.Equal(t, int64(11500), quote.Nightly[0].FinalRate.Amount)
}
