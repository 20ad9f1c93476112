package memory

import (
	"context"
	"sync"
	"time"

	domaincatalog "innkeep/internal/domain/catalog"
	domainrates "innkeep/internal/domain/rates"
	domainrange "innkeep/internal/domain/shared/daterange"
)

// RatePlanRepository keeps rate plans in memory.
type RatePlanRepository struct {
	mu    sync.RWMutex
	items map[domainrates.RatePlanID]domainrates.RatePlan
}

func NewRatePlanRepository(seed ...domainrates.RatePlan) *RatePlanRepository {
	repo := &RatePlanRepository{items: make(map[domainrates.RatePlanID]domainrates.RatePlan, len(seed))}
	for _, plan := range seed {
		repo.items[plan.ID] = plan
	}
	return repo
}

func (r *RatePlanRepository) Put(plan domainrates.RatePlan) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[plan.ID] = plan
}

func (r *RatePlanRepository) ByID(ctx context.Context, id domainrates.RatePlanID) (*domainrates.RatePlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	plan, ok := r.items[id]
	if !ok {
		return nil, domainrates.ErrRatePlanNotFound
	}
	out := plan
	return &out, nil
}

func (r *RatePlanRepository) ActiveForRoomType(ctx context.Context, roomTypeID domaincatalog.RoomTypeID) ([]*domainrates.RatePlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainrates.RatePlan
	for _, plan := range r.items {
		if !plan.Active || !plan.AppliesTo(roomTypeID) {
			continue
		}
		copied := plan
		out = append(out, &copied)
	}
	return out, nil
}

var _ domainrates.RatePlanRepository = (*RatePlanRepository)(nil)

// SeasonalRateRepository keeps seasonal rates in memory.
type SeasonalRateRepository struct {
	mu    sync.RWMutex
	items []domainrates.SeasonalRate
}

func NewSeasonalRateRepository(seed ...domainrates.SeasonalRate) *SeasonalRateRepository {
	return &SeasonalRateRepository{items: seed}
}

func (r *SeasonalRateRepository) Put(rate domainrates.SeasonalRate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == rate.ID {
			r.items[i] = rate
			return
		}
	}
	r.items = append(r.items, rate)
}

func (r *SeasonalRateRepository) ActiveInRange(ctx context.Context, roomTypeID domaincatalog.RoomTypeID, from, to time.Time) ([]*domainrates.SeasonalRate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fromDay, toDay := domainrange.Day(from), domainrange.Day(to)
	var out []*domainrates.SeasonalRate
	for i := range r.items {
		rate := r.items[i]
		if !rate.Active {
			continue
		}
		if rate.RoomTypeID != nil && *rate.RoomTypeID != roomTypeID {
			continue
		}
		if domainrange.Day(rate.End).Before(fromDay) || domainrange.Day(rate.Start).After(toDay) {
			continue
		}
		copied := rate
		out = append(out, &copied)
	}
	return out, nil
}

var _ domainrates.SeasonalRateRepository = (*SeasonalRateRepository)(nil)

// DynamicRuleRepository keeps occupancy, day-of-week and event rules in memory.
type DynamicRuleRepository struct {
	mu        sync.RWMutex
	occupancy []domainrates.OccupancyRule
	dow       []domainrates.DowRule
	events    []domainrates.EventOverride
}

func NewDynamicRuleRepository() *DynamicRuleRepository {
	return &DynamicRuleRepository{}
}

func (r *DynamicRuleRepository) PutOccupancyRule(rule domainrates.OccupancyRule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.occupancy = append(r.occupancy, rule)
}

func (r *DynamicRuleRepository) PutDowRule(rule domainrates.DowRule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dow = append(r.dow, rule)
}

func (r *DynamicRuleRepository) PutEventOverride(event domainrates.EventOverride) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *DynamicRuleRepository) ActiveOccupancyRules(ctx context.Context, roomTypeID domaincatalog.RoomTypeID) ([]*domainrates.OccupancyRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainrates.OccupancyRule
	for i := range r.occupancy {
		rule := r.occupancy[i]
		if !rule.Active {
			continue
		}
		if rule.RoomTypeID != nil && *rule.RoomTypeID != roomTypeID {
			continue
		}
		copied := rule
		out = append(out, &copied)
	}
	return out, nil
}

func (r *DynamicRuleRepository) ActiveDowRules(ctx context.Context, roomTypeID domaincatalog.RoomTypeID, day time.Weekday) ([]*domainrates.DowRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainrates.DowRule
	for i := range r.dow {
		rule := r.dow[i]
		if !rule.Active || rule.Weekday != day {
			continue
		}
		if rule.RoomTypeID != nil && *rule.RoomTypeID != roomTypeID {
			continue
		}
		copied := rule
		out = append(out, &copied)
	}
	return out, nil
}

func (r *DynamicRuleRepository) ActiveEventOverrides(ctx context.Context, roomTypeID domaincatalog.RoomTypeID, date time.Time) ([]*domainrates.EventOverride, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	day := domainrange.Day(date)
	var out []*domainrates.EventOverride
	for i := range r.events {
		event := r.events[i]
		if !event.Active {
			continue
		}
		if event.RoomTypeID != nil && *event.RoomTypeID != roomTypeID {
			continue
		}
		if day.Before(domainrange.Day(event.Start)) || day.After(domainrange.Day(event.End)) {
			continue
		}
		copied := event
		out = append(out, &copied)
	}
	return out, nil
}

var _ domainrates.DynamicRuleRepository = (*DynamicRuleRepository)(nil)
