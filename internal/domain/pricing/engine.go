package pricing

import (
	"context"
	"fmt"

	"innkeep/internal/domain/catalog"
	"innkeep/internal/domain/inventory"
	"innkeep/internal/domain/rates"
	"innkeep/internal/domain/shared/daterange"
	"innkeep/internal/domain/shared/money"
)

// Engine composes the rate plan, seasonal and dynamic resolvers into nightly
// rates and aggregates them into a Quote. All collaborators are injected; the
// engine itself is stateless and safe for concurrent use.
type Engine struct {
	RoomTypes catalog.Repository
	Ledger    inventory.Ledger
	Plans     rates.RatePlanResolver
	Seasonal  rates.SeasonalRateResolver
	Dynamic   rates.DynamicModifierCalculator
	Settings  SettingsSource
	Discounts DiscountPolicy
}

// CalculateStay prices the stay night by night. Per night the order is fixed:
// rate plan modifier, then the single best seasonal rate, then the dynamic
// percentage sum, then the dynamic fixed sum, then clamp at zero. Rounding to
// whole cents happens at each composition step.
func (e *Engine) CalculateStay(ctx context.Context, in StayInput) (*Quote, error) {
	if in.Stay.Nights() <= 0 {
		return nil, daterange.ErrInvalidRange
	}
	if in.Adults <= 0 {
		return nil, ErrInvalidGuests
	}

	roomType, err := e.RoomTypes.ByID(ctx, in.RoomTypeID)
	if err != nil {
		return nil, err
	}
	if roomType == nil || !roomType.Active {
		return nil, catalog.ErrRoomTypeNotFound
	}

	settings, err := e.Settings.Pricing(ctx)
	if err != nil {
		return nil, fmt.Errorf("pricing: load settings: %w", err)
	}
	currency := settings.Currency
	if currency == "" {
		currency = roomType.BaseRate.Currency
	}

	plan, err := e.Plans.Resolve(ctx, in.RoomTypeID, in.RatePlanID, in.GuestSegment, in.Stay.CheckIn)
	if err != nil {
		return nil, err
	}
	nights := in.Stay.Nights()
	if !plan.AllowsStay(nights) {
		return nil, ErrStayLengthViolation
	}

	ledgerDays, err := e.Ledger.ForRange(ctx, in.RoomTypeID, in.Stay)
	if err != nil {
		return nil, fmt.Errorf("pricing: read ledger: %w", err)
	}
	overrides := make(map[int64]inventory.InventoryDay, len(ledgerDays))
	for _, day := range ledgerDays {
		overrides[daterange.Day(day.Date).Unix()] = day
	}

	baseRate := money.Money{Amount: roomType.BaseRate.Amount, Currency: currency}
	nightly := make([]NightRate, 0, nights)
	subtotal := money.Money{Amount: 0, Currency: currency}

	for _, date := range in.Stay.Dates() {
		night := NightRate{Date: date, RatePlanID: plan.ID, BaseRate: baseRate}
		if day, ok := overrides[date.Unix()]; ok && day.PriceOverride != nil {
			night.BaseRate = money.Money{Amount: day.PriceOverride.Amount, Currency: currency}
			night.Overridden = true
		}

		price := plan.Modifier.Apply(night.BaseRate)

		seasonal, err := e.Seasonal.ApplicableOn(ctx, in.RoomTypeID, plan.ID, date)
		if err != nil {
			return nil, fmt.Errorf("pricing: resolve seasonal rate: %w", err)
		}
		if seasonal != nil {
			price = seasonal.Modifier.Apply(price)
			night.SeasonalID = seasonal.ID
		}

		dyn, err := e.Dynamic.ModifiersFor(ctx, in.RoomTypeID, date)
		if err != nil {
			return nil, fmt.Errorf("pricing: dynamic modifiers: %w", err)
		}
		price = price.ApplyPercent(dyn.PercentSum)
		price, _ = price.Add(money.FromFloat(dyn.FixedSum, currency))
		night.Dynamic = dyn

		night.FinalRate = price.ClampNonNegative()
		nightly = append(nightly, night)
		subtotal, _ = subtotal.Add(night.FinalRate)
	}

	fees := e.occupantSurcharge(roomType, in, nights, currency)
	serviceFee := subtotal.Scale(settings.ServiceFeeRate)
	fees, _ = fees.Add(serviceFee)

	discountPolicy := e.Discounts
	if discountPolicy == nil {
		discountPolicy = NoDiscount{}
	}
	discount, err := discountPolicy.Discount(ctx, in, subtotal)
	if err != nil {
		return nil, fmt.Errorf("pricing: discount policy: %w", err)
	}
	discount = discount.ClampNonNegative()
	if !discount.IsZero() && discount.Currency != currency {
		return nil, fmt.Errorf("pricing: discount policy: %w", money.ErrCurrencyMismatch)
	}
	discount.Currency = currency

	taxable, _ := subtotal.Add(fees)
	taxable, _ = taxable.Sub(discount)
	taxes := taxable.ClampNonNegative().Scale(settings.TaxRate)

	total, _ := subtotal.Add(fees)
	total, _ = total.Add(taxes)
	total, _ = total.Sub(discount)

	return &Quote{
		RoomTypeID:   in.RoomTypeID,
		Stay:         in.Stay,
		Nights:       nights,
		RatePlanID:   plan.ID,
		Nightly:      nightly,
		Subtotal:     subtotal,
		Fees:         fees,
		Taxes:        taxes,
		Discount:     discount,
		Total:        total.ClampNonNegative(),
		Currency:     currency,
		ExchangeRate: settings.ExchangeRate,
	}, nil
}

// occupantSurcharge charges adults beyond the included occupancy and every
// child, per night of the stay.
func (e *Engine) occupantSurcharge(roomType *catalog.RoomType, in StayInput, nights int, currency string) money.Money {
	extraAdults := int64(roomType.ExtraAdults(in.Adults))
	adultFee := money.Money{Amount: roomType.ExtraAdultRate.Amount * extraAdults * int64(nights), Currency: currency}
	childFee := money.Money{Amount: roomType.ExtraChildRate.Amount * int64(in.Children) * int64(nights), Currency: currency}
	total, _ := adultFee.Add(childFee)
	return total
}
