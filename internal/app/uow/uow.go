package uow

import (
	"context"

	domaincatalog "innkeep/internal/domain/catalog"
	domaininventory "innkeep/internal/domain/inventory"
	domainrates "innkeep/internal/domain/rates"
	domainrestrictions "innkeep/internal/domain/restrictions"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
type UnitOfWork interface {
	RoomTypes() domaincatalog.Repository
	Inventory() domaininventory.Ledger
	RatePlans() domainrates.RatePlanRepository
	SeasonalRates() domainrates.SeasonalRateRepository
	DynamicRules() domainrates.DynamicRuleRepository
	Restrictions() domainrestrictions.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
