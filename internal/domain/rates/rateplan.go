package rates

import (
	"context"
	"errors"
	"sort"
	"time"

	"innkeep/internal/domain/catalog"
)

var (
	ErrRatePlanNotFound      = errors.New("rates: rate plan not found")
	ErrRatePlanInactive      = errors.New("rates: rate plan is inactive")
	ErrRatePlanNotApplicable = errors.New("rates: rate plan does not apply to room type")
)

type RatePlanID string

// RatePlan is a named pricing scheme. A nil RoomTypeID means the plan applies
// to every room type. MinStay/MaxStay of zero mean unbounded.
type RatePlan struct {
	ID           RatePlanID
	Name         string
	RoomTypeID   *catalog.RoomTypeID
	Modifier     Modifier
	MinStay      int
	MaxStay      int
	GuestSegment string
	IsDefault    bool
	IsRefundable bool
	ValidFrom    *time.Time
	ValidUntil   *time.Time
	Active       bool
}

// AppliesTo reports whether the plan covers the given room type.
func (p *RatePlan) AppliesTo(roomTypeID catalog.RoomTypeID) bool {
	return p.RoomTypeID == nil || *p.RoomTypeID == roomTypeID
}

// ValidOn reports whether the date falls inside the plan's validity window.
func (p *RatePlan) ValidOn(date time.Time) bool {
	if p.ValidFrom != nil && date.Before(*p.ValidFrom) {
		return false
	}
	if p.ValidUntil != nil && date.After(*p.ValidUntil) {
		return false
	}
	return true
}

// AllowsStay checks the plan's own stay-length bounds.
func (p *RatePlan) AllowsStay(nights int) bool {
	if p.MinStay > 0 && nights < p.MinStay {
		return false
	}
	if p.MaxStay > 0 && nights > p.MaxStay {
		return false
	}
	return true
}

type RatePlanRepository interface {
	ByID(ctx context.Context, id RatePlanID) (*RatePlan, error)
	// ActiveForRoomType returns active plans scoped to the room type or global.
	ActiveForRoomType(ctx context.Context, roomTypeID catalog.RoomTypeID) ([]*RatePlan, error)
}

// RatePlanResolver picks the plan a stay is priced under: an explicit choice
// when the caller names one, otherwise the best default candidate.
type RatePlanResolver struct {
	Plans RatePlanRepository
}

// Resolve returns the applicable plan for a room type on the given stay date.
// Explicit selections fail loudly (ErrRatePlanInactive, ErrRatePlanNotApplicable)
// so the caller can tell the guest why the plan was rejected.
func (r RatePlanResolver) Resolve(ctx context.Context, roomTypeID catalog.RoomTypeID, explicit *RatePlanID, guestSegment string, stayDate time.Time) (*RatePlan, error) {
	if explicit != nil {
		plan, err := r.Plans.ByID(ctx, *explicit)
		if err != nil {
			return nil, err
		}
		if plan == nil {
			return nil, ErrRatePlanNotFound
		}
		if !plan.Active {
			return nil, ErrRatePlanInactive
		}
		if !plan.AppliesTo(roomTypeID) {
			return nil, ErrRatePlanNotApplicable
		}
		return plan, nil
	}

	candidates, err := r.Plans.ActiveForRoomType(ctx, roomTypeID)
	if err != nil {
		return nil, err
	}
	filtered := candidates[:0:0]
	for _, plan := range candidates {
		if !plan.Active || !plan.AppliesTo(roomTypeID) || !plan.ValidOn(stayDate) {
			continue
		}
		filtered = append(filtered, plan)
	}
	if guestSegment != "" {
		segmented := filtered[:0:0]
		for _, plan := range filtered {
			if plan.GuestSegment == guestSegment {
				segmented = append(segmented, plan)
			}
		}
		// Fall back to unsegmented candidates when nothing targets the segment.
		if len(segmented) > 0 {
			filtered = segmented
		}
	}
	if len(filtered) == 0 {
		return nil, ErrRatePlanNotFound
	}

	// Default beats non-default, room-type-specific beats global, name order
	// is the final deterministic tie-break.
	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		if a.IsDefault != b.IsDefault {
			return a.IsDefault
		}
		aSpecific := a.RoomTypeID != nil
		bSpecific := b.RoomTypeID != nil
		if aSpecific != bSpecific {
			return aSpecific
		}
		return a.Name < b.Name
	})
	return filtered[0], nil
}
