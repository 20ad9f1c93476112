package pricing

import (
	"context"
	"errors"
	"time"

	"innkeep/internal/domain/catalog"
	"innkeep/internal/domain/rates"
	"innkeep/internal/domain/shared/daterange"
	"innkeep/internal/domain/shared/money"
)

var (
	ErrStayLengthViolation = errors.New("pricing: stay length violates rate plan bounds")
	ErrInvalidGuests       = errors.New("pricing: adults count must be positive")
)

// NightRate is the audited breakdown of one night's price.
type NightRate struct {
	Date       time.Time               `json:"date"`
	BaseRate   money.Money             `json:"base_rate"`
	RatePlanID rates.RatePlanID        `json:"rate_plan_id"`
	SeasonalID int64                   `json:"seasonal_rate_id,omitempty"`
	Dynamic    rates.DynamicAdjustment `json:"-"`
	FinalRate  money.Money             `json:"final_rate"`
	Overridden bool                    `json:"overridden"`
}

// Quote is the priced stay returned to the booking orchestrator. Nightly
// keeps the full per-night trail for receipts and audits.
type Quote struct {
	RoomTypeID   catalog.RoomTypeID  `json:"room_type_id"`
	Stay         daterange.DateRange `json:"stay"`
	Nights       int                 `json:"nights"`
	RatePlanID   rates.RatePlanID    `json:"rate_plan_id"`
	Nightly      []NightRate         `json:"nightly"`
	Subtotal     money.Money         `json:"subtotal"`
	Fees         money.Money         `json:"fees"`
	Taxes        money.Money         `json:"taxes"`
	Discount     money.Money         `json:"discount"`
	Total        money.Money         `json:"total"`
	Currency     string              `json:"currency"`
	ExchangeRate float64             `json:"exchange_rate"`
}

// StayInput identifies the stay to price.
type StayInput struct {
	RoomTypeID   catalog.RoomTypeID
	Stay         daterange.DateRange
	Adults       int
	Children     int
	RatePlanID   *rates.RatePlanID
	GuestSegment string
}

// Settings are the property-level pricing knobs supplied by the settings
// store: rates are fractions (0.10 = 10%).
type Settings struct {
	TaxRate        float64
	ServiceFeeRate float64
	Currency       string
	ExchangeRate   float64
}

// SettingsSource resolves the current pricing settings.
type SettingsSource interface {
	Pricing(ctx context.Context) (Settings, error)
}
