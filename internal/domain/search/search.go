package search

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"innkeep/internal/domain/catalog"
	"innkeep/internal/domain/inventory"
	"innkeep/internal/domain/pricing"
	"innkeep/internal/domain/restrictions"
	"innkeep/internal/domain/shared/daterange"
)

var ErrInvalidGuestCount = errors.New("search: guests count must be positive")

// Params identify an availability search.
type Params struct {
	Stay       daterange.DateRange
	Guests     int
	RoomTypeID *catalog.RoomTypeID
	Channel    string
}

// Offer is one bookable room type with its binding availability constraint
// and a full price quote for the stay.
type Offer struct {
	RoomType       *catalog.RoomType `json:"room_type"`
	AvailableRooms int               `json:"available_rooms"`
	Quote          *pricing.Quote    `json:"quote"`
}

// Service answers "what can I book, and for how much". It is a pure read
// path; the reserve call re-validates against live data.
type Service struct {
	RoomTypes    catalog.Repository
	Ledger       inventory.Ledger
	Restrictions restrictions.Engine
	Pricing      *pricing.Engine
}

// Search returns offers sorted ascending by total price. A room type is
// included only when every night of the stay qualifies: a single missing,
// stop-sold, sold-out or min-stay-blocked night excludes it entirely. The
// reported availability is the minimum across nights.
func (s *Service) Search(ctx context.Context, p Params) ([]Offer, error) {
	if p.Stay.Nights() <= 0 {
		return nil, daterange.ErrInvalidRange
	}
	if p.Guests <= 0 {
		return nil, ErrInvalidGuestCount
	}

	roomTypes, err := s.candidates(ctx, p)
	if err != nil {
		return nil, err
	}
	nights := p.Stay.Nights()

	offers := make([]Offer, 0, len(roomTypes))
	for _, roomType := range roomTypes {
		if !roomType.Active || !roomType.Fits(p.Guests) {
			continue
		}
		available, ok, err := s.bindingAvailability(ctx, roomType.ID, p.Stay, nights)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		decision, err := s.Restrictions.IsAllowed(ctx, roomType.ID, nil, p.Channel, p.Stay)
		if err != nil {
			return nil, fmt.Errorf("search: restriction check: %w", err)
		}
		if !decision.Allowed {
			continue
		}
		quote, err := s.Pricing.CalculateStay(ctx, pricing.StayInput{
			RoomTypeID: roomType.ID,
			Stay:       p.Stay,
			Adults:     p.Guests,
		})
		if err != nil {
			// A room type without a resolvable plan is unsellable, not a
			// search failure.
			continue
		}
		offers = append(offers, Offer{RoomType: roomType, AvailableRooms: available, Quote: quote})
	}

	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].Quote.Total.Amount < offers[j].Quote.Total.Amount
	})
	return offers, nil
}

func (s *Service) candidates(ctx context.Context, p Params) ([]*catalog.RoomType, error) {
	if p.RoomTypeID != nil {
		roomType, err := s.RoomTypes.ByID(ctx, *p.RoomTypeID)
		if err != nil {
			return nil, err
		}
		return []*catalog.RoomType{roomType}, nil
	}
	return s.RoomTypes.Active(ctx)
}

// bindingAvailability walks every night and returns the minimum availability,
// or ok=false when any night disqualifies the room type.
func (s *Service) bindingAvailability(ctx context.Context, roomTypeID catalog.RoomTypeID, stay daterange.DateRange, nights int) (int, bool, error) {
	days, err := s.Ledger.ForRange(ctx, roomTypeID, stay)
	if err != nil {
		return 0, false, fmt.Errorf("search: read ledger: %w", err)
	}
	if len(days) < nights {
		return 0, false, nil
	}
	minAvailable := -1
	for _, day := range days {
		if day.StopSell || day.AvailableRooms <= 0 {
			return 0, false, nil
		}
		if day.MinStay > 0 && nights < day.MinStay {
			return 0, false, nil
		}
		if minAvailable < 0 || day.AvailableRooms < minAvailable {
			minAvailable = day.AvailableRooms
		}
	}
	return minAvailable, true, nil
}
