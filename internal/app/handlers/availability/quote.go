package availability

import (
	"context"
	"time"

	"innkeep/internal/app/dto"
	"innkeep/internal/app/handlers/support"
	"innkeep/internal/app/queries"
	"innkeep/internal/app/uow"
	domaincatalog "innkeep/internal/domain/catalog"
	"innkeep/internal/domain/pricing"
	domainrates "innkeep/internal/domain/rates"
	domainrange "innkeep/internal/domain/shared/daterange"
)

const quoteStayKey = "availability.quote"

// QuoteStayQuery prices a specific stay for the booking orchestrator.
type QuoteStayQuery struct {
	RoomTypeID   string
	CheckIn      time.Time
	CheckOut     time.Time
	Adults       int
	Children     int
	RatePlanID   string
	GuestSegment string
}

func (q QuoteStayQuery) Key() string { return quoteStayKey }

type QuoteStayHandler struct {
	UoWFactory uow.UoWFactory
	Settings   pricing.SettingsSource
	Discounts  pricing.DiscountPolicy
}

func (h *QuoteStayHandler) Handle(ctx context.Context, query QuoteStayQuery) (*dto.Quote, error) {
	unit, managed, err := h.unitFor(ctx)
	if err != nil {
		return nil, err
	}
	if managed {
		defer func() { _ = unit.Rollback(ctx) }()
	}

	stay, err := domainrange.New(query.CheckIn, query.CheckOut)
	if err != nil {
		return nil, err
	}
	input := pricing.StayInput{
		RoomTypeID:   domaincatalog.RoomTypeID(query.RoomTypeID),
		Stay:         stay,
		Adults:       query.Adults,
		Children:     query.Children,
		GuestSegment: query.GuestSegment,
	}
	if query.RatePlanID != "" {
		id := domainrates.RatePlanID(query.RatePlanID)
		input.RatePlanID = &id
	}

	quote, err := support.PricingEngine(unit, h.Settings, h.Discounts).CalculateStay(ctx, input)
	if err != nil {
		return nil, err
	}
	mapped := dto.MapQuote(quote)
	return &mapped, nil
}

func (h *QuoteStayHandler) unitFor(ctx context.Context) (uow.UnitOfWork, bool, error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return unit, false, nil
	}
	if h.UoWFactory == nil {
		return nil, false, ErrUnitOfWorkRequired
	}
	unit, err := h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, false, err
	}
	return unit, true, nil
}

var _ queries.Handler[QuoteStayQuery, *dto.Quote] = (*QuoteStayHandler)(nil)
