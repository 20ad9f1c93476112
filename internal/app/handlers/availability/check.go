package availability

import (
	"context"
	"time"

	"innkeep/internal/app/queries"
	"innkeep/internal/app/uow"
	domaincatalog "innkeep/internal/domain/catalog"
	domainrates "innkeep/internal/domain/rates"
	"innkeep/internal/domain/restrictions"
	domainrange "innkeep/internal/domain/shared/daterange"
)

const checkRestrictionsKey = "availability.restrictions"

// CheckRestrictionsQuery evaluates booking rules for a stay without touching
// inventory; the orchestrator calls it before pricing and reserving.
type CheckRestrictionsQuery struct {
	RoomTypeID string
	RatePlanID string
	Channel    string
	CheckIn    time.Time
	CheckOut   time.Time
}

func (q CheckRestrictionsQuery) Key() string { return checkRestrictionsKey }

// RestrictionDecision is the wire form of a restriction check.
type RestrictionDecision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

type CheckRestrictionsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *CheckRestrictionsHandler) Handle(ctx context.Context, query CheckRestrictionsQuery) (*RestrictionDecision, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, ErrUnitOfWorkRequired
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
		if err != nil {
			return nil, err
		}
		managed = true
	}
	if managed {
		defer func() { _ = unit.Rollback(ctx) }()
	}

	stay, err := domainrange.New(query.CheckIn, query.CheckOut)
	if err != nil {
		return nil, err
	}
	var planID *domainrates.RatePlanID
	if query.RatePlanID != "" {
		id := domainrates.RatePlanID(query.RatePlanID)
		planID = &id
	}

	engine := restrictions.Engine{Restrictions: unit.Restrictions()}
	decision, err := engine.IsAllowed(ctx, domaincatalog.RoomTypeID(query.RoomTypeID), planID, query.Channel, stay)
	if err != nil {
		return nil, err
	}
	out := &RestrictionDecision{Allowed: decision.Allowed}
	if decision.Reason != nil {
		out.Reason = decision.Reason.Error()
	}
	return out, nil
}

var _ queries.Handler[CheckRestrictionsQuery, *RestrictionDecision] = (*CheckRestrictionsHandler)(nil)
