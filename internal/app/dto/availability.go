package dto

import (
	"time"

	"innkeep/internal/domain/inventory"
	"innkeep/internal/domain/search"
)

// Offer is one bookable room type in a search response.
type Offer struct {
	RoomTypeID     string  `json:"room_type_id"`
	RoomTypeName   string  `json:"room_type_name"`
	MaxOccupancy   int     `json:"max_occupancy"`
	AvailableRooms int     `json:"available_rooms"`
	TotalPrice     float64 `json:"total_price"`
	Currency       string  `json:"currency"`
	Quote          Quote   `json:"quote"`
}

// SearchResult is the full availability response.
type SearchResult struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
	Guests   int       `json:"guests"`
	Offers   []Offer   `json:"offers"`
}

// MapOffers converts domain offers into their wire form.
func MapOffers(offers []search.Offer) []Offer {
	out := make([]Offer, 0, len(offers))
	for _, o := range offers {
		out = append(out, Offer{
			RoomTypeID:     string(o.RoomType.ID),
			RoomTypeName:   o.RoomType.Name,
			MaxOccupancy:   o.RoomType.MaxOccupancy,
			AvailableRooms: o.AvailableRooms,
			TotalPrice:     o.Quote.Total.Float(),
			Currency:       o.Quote.Currency,
			Quote:          MapQuote(o.Quote),
		})
	}
	return out
}

// CalendarDay is one ledger night in an inventory calendar response.
type CalendarDay struct {
	Date           string   `json:"date"`
	TotalRooms     int      `json:"total_rooms"`
	AvailableRooms int      `json:"available_rooms"`
	PriceOverride  *float64 `json:"price_override,omitempty"`
	StopSell       bool     `json:"stop_sell"`
	MinStay        int      `json:"min_stay"`
}

// Calendar is the per-day ledger view for a room type.
type Calendar struct {
	RoomTypeID string        `json:"room_type_id"`
	Days       []CalendarDay `json:"days"`
}

// MapCalendar converts ledger rows into the calendar wire form.
func MapCalendar(roomTypeID string, days []inventory.InventoryDay) Calendar {
	out := Calendar{RoomTypeID: roomTypeID, Days: make([]CalendarDay, 0, len(days))}
	for _, day := range days {
		d := CalendarDay{
			Date:           day.Date.Format("2006-01-02"),
			TotalRooms:     day.TotalRooms,
			AvailableRooms: day.AvailableRooms,
			StopSell:       day.StopSell,
			MinStay:        day.MinStay,
		}
		if day.PriceOverride != nil {
			price := day.PriceOverride.Float()
			d.PriceOverride = &price
		}
		out.Days = append(out.Days, d)
	}
	return out
}
