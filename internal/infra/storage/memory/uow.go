package memory

import (
	"context"
	"errors"

	"innkeep/internal/app/uow"
	domaincatalog "innkeep/internal/domain/catalog"
	domaininventory "innkeep/internal/domain/inventory"
	domainrates "innkeep/internal/domain/rates"
	domainrestrictions "innkeep/internal/domain/restrictions"
)

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	RoomTypeRepo     domaincatalog.Repository
	Ledger           domaininventory.Ledger
	RatePlanRepo     domainrates.RatePlanRepository
	SeasonalRepo     domainrates.SeasonalRateRepository
	DynamicRuleRepo  domainrates.DynamicRuleRepository
	RestrictionsRepo domainrestrictions.Repository
}

// Begin starts a lightweight transaction boundary. No isolation is provided
// beyond the ledger's own locking, but the abstraction matches the
// application ports.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.RoomTypeRepo == nil || f.Ledger == nil || f.RatePlanRepo == nil ||
		f.SeasonalRepo == nil || f.DynamicRuleRepo == nil || f.RestrictionsRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		roomTypes:    f.RoomTypeRepo,
		inventory:    f.Ledger,
		ratePlans:    f.RatePlanRepo,
		seasonal:     f.SeasonalRepo,
		dynamic:      f.DynamicRuleRepo,
		restrictions: f.RestrictionsRepo,
	}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	roomTypes    domaincatalog.Repository
	inventory    domaininventory.Ledger
	ratePlans    domainrates.RatePlanRepository
	seasonal     domainrates.SeasonalRateRepository
	dynamic      domainrates.DynamicRuleRepository
	restrictions domainrestrictions.Repository
}

func (u *Unit) RoomTypes() domaincatalog.Repository {
	return u.roomTypes
}

func (u *Unit) Inventory() domaininventory.Ledger {
	return u.inventory
}

func (u *Unit) RatePlans() domainrates.RatePlanRepository {
	return u.ratePlans
}

func (u *Unit) SeasonalRates() domainrates.SeasonalRateRepository {
	return u.seasonal
}

func (u *Unit) DynamicRules() domainrates.DynamicRuleRepository {
	return u.dynamic
}

func (u *Unit) Restrictions() domainrestrictions.Repository {
	return u.restrictions
}

func (u *Unit) Commit(ctx context.Context) error {
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	return nil
}

var _ uow.UoWFactory = Factory{}
