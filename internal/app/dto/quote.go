package dto

import (
	"time"

	"innkeep/internal/domain/pricing"
)

// NightRate is the wire form of one priced night.
type NightRate struct {
	Date           string  `json:"date"`
	BaseRate       float64 `json:"base_rate"`
	FinalRate      float64 `json:"final_rate"`
	RatePlanID     string  `json:"rate_plan_id"`
	SeasonalRateID int64   `json:"seasonal_rate_id,omitempty"`
	Overridden     bool    `json:"overridden,omitempty"`
}

// Quote is the wire form of a priced stay.
type Quote struct {
	RoomTypeID   string      `json:"room_type_id"`
	CheckIn      time.Time   `json:"check_in"`
	CheckOut     time.Time   `json:"check_out"`
	Nights       int         `json:"nights"`
	RatePlanID   string      `json:"rate_plan_id"`
	Nightly      []NightRate `json:"nightly"`
	Subtotal     float64     `json:"subtotal"`
	Fees         float64     `json:"fees"`
	Taxes        float64     `json:"taxes"`
	Discount     float64     `json:"discount"`
	Total        float64     `json:"total"`
	Currency     string      `json:"currency"`
	ExchangeRate float64     `json:"exchange_rate"`
}

// MapQuote converts a domain quote into its wire form.
func MapQuote(q *pricing.Quote) Quote {
	if q == nil {
		return Quote{}
	}
	nightly := make([]NightRate, 0, len(q.Nightly))
	for _, n := range q.Nightly {
		nightly = append(nightly, NightRate{
			Date:           n.Date.Format("2006-01-02"),
			BaseRate:       n.BaseRate.Float(),
			FinalRate:      n.FinalRate.Float(),
			RatePlanID:     string(n.RatePlanID),
			SeasonalRateID: n.SeasonalID,
			Overridden:     n.Overridden,
		})
	}
	return Quote{
		RoomTypeID:   string(q.RoomTypeID),
		CheckIn:      q.Stay.CheckIn,
		CheckOut:     q.Stay.CheckOut,
		Nights:       q.Nights,
		RatePlanID:   string(q.RatePlanID),
		Nightly:      nightly,
		Subtotal:     q.Subtotal.Float(),
		Fees:         q.Fees.Float(),
		Taxes:        q.Taxes.Float(),
		Discount:     q.Discount.Float(),
		Total:        q.Total.Float(),
		Currency:     q.Currency,
		ExchangeRate: q.ExchangeRate,
	}
}
