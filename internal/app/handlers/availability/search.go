package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"innkeep/internal/app/cache"
	"innkeep/internal/app/dto"
	"innkeep/internal/app/handlers/support"
	"innkeep/internal/app/queries"
	"innkeep/internal/app/uow"
	domaincatalog "innkeep/internal/domain/catalog"
	"innkeep/internal/domain/pricing"
	"innkeep/internal/domain/search"
	domainrange "innkeep/internal/domain/shared/daterange"
)

const searchStayKey = "availability.search"

var ErrUnitOfWorkRequired = errors.New("availability: unit of work required")

// SearchStayQuery asks "what can I book, and for how much".
type SearchStayQuery struct {
	CheckIn    time.Time
	CheckOut   time.Time
	Guests     int
	RoomTypeID string
	Channel    string
}

func (q SearchStayQuery) Key() string { return searchStayKey }

func (q SearchStayQuery) cacheKey() string {
	return cache.Key("search",
		q.CheckIn.Format("2006-01-02"),
		q.CheckOut.Format("2006-01-02"),
		fmt.Sprintf("g%d", q.Guests),
		q.RoomTypeID,
		q.Channel,
	)
}

// SearchStayHandler serves availability from a short-TTL cache; the ledger's
// reserve call remains the final arbiter, so staleness here is harmless.
type SearchStayHandler struct {
	UoWFactory uow.UoWFactory
	Settings   pricing.SettingsSource
	Discounts  pricing.DiscountPolicy
	Cache      cache.Cache
	CacheTTL   time.Duration
	Logger     *slog.Logger
}

func (h *SearchStayHandler) Handle(ctx context.Context, query SearchStayQuery) (*dto.SearchResult, error) {
	if cached, ok := h.fromCache(ctx, query); ok {
		return cached, nil
	}

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
	params := search.Params{Stay: stay, Guests: query.Guests, Channel: query.Channel}
	if query.RoomTypeID != "" {
		id := domaincatalog.RoomTypeID(query.RoomTypeID)
		params.RoomTypeID = &id
	}

	offers, err := support.SearchService(unit, h.Settings, h.Discounts).Search(ctx, params)
	if err != nil {
		return nil, err
	}

	result := &dto.SearchResult{
		CheckIn:  stay.CheckIn,
		CheckOut: stay.CheckOut,
		Guests:   query.Guests,
		Offers:   dto.MapOffers(offers),
	}
	h.toCache(ctx, query, result)
	return result, nil
}

func (h *SearchStayHandler) fromCache(ctx context.Context, query SearchStayQuery) (*dto.SearchResult, bool) {
	if h.Cache == nil {
		return nil, false
	}
	data, ok, err := h.Cache.Get(ctx, query.cacheKey())
	if err != nil || !ok {
		return nil, false
	}
	var result dto.SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false
	}
	return &result, true
}

func (h *SearchStayHandler) toCache(ctx context.Context, query SearchStayQuery, result *dto.SearchResult) {
	if h.Cache == nil || h.CacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	tags := make([]string, 0, len(result.Offers)+1)
	tags = append(tags, cache.ConfigTag)
	for _, offer := range result.Offers {
		tags = append(tags, cache.RoomTypeTag(offer.RoomTypeID))
	}
	if err := h.Cache.Set(ctx, query.cacheKey(), data, h.CacheTTL, tags...); err != nil && h.Logger != nil {
		h.Logger.Warn("search cache write failed", "error", err)
	}
}

func (h *SearchStayHandler) unitFor(ctx context.Context) (uow.UnitOfWork, bool, error) {
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

var _ queries.Handler[SearchStayQuery, *dto.SearchResult] = (*SearchStayHandler)(nil)
