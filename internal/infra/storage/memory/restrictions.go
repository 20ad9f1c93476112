package memory

import (
	"context"
	"sync"
	"time"

	domaincatalog "innkeep/internal/domain/catalog"
	domainrestrictions "innkeep/internal/domain/restrictions"
	domainrange "innkeep/internal/domain/shared/daterange"
)

// RestrictionRepository keeps booking-rule restrictions in memory.
type RestrictionRepository struct {
	mu    sync.RWMutex
	items []domainrestrictions.RateRestriction
}

func NewRestrictionRepository(seed ...domainrestrictions.RateRestriction) *RestrictionRepository {
	return &RestrictionRepository{items: seed}
}

func (r *RestrictionRepository) Put(restriction domainrestrictions.RateRestriction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == restriction.ID {
			r.items[i] = restriction
			return
		}
	}
	r.items = append(r.items, restriction)
}

func (r *RestrictionRepository) ActiveInRange(ctx context.Context, roomTypeID domaincatalog.RoomTypeID, from, to time.Time) ([]*domainrestrictions.RateRestriction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fromDay, toDay := domainrange.Day(from), domainrange.Day(to)
	var out []*domainrestrictions.RateRestriction
	for i := range r.items {
		restriction := r.items[i]
		if !restriction.Active || restriction.RoomTypeID != roomTypeID {
			continue
		}
		if domainrange.Day(restriction.End).Before(fromDay) || domainrange.Day(restriction.Start).After(toDay) {
			continue
		}
		copied := restriction
		out = append(out, &copied)
	}
	return out, nil
}

var _ domainrestrictions.Repository = (*RestrictionRepository)(nil)
