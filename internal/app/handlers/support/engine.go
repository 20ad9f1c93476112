package support

import (
	"innkeep/internal/app/uow"
	"innkeep/internal/domain/pricing"
	"innkeep/internal/domain/rates"
	"innkeep/internal/domain/restrictions"
	"innkeep/internal/domain/search"
)

// PricingEngine assembles a pricing engine over the unit of work's
// repositories so every read inside a quote shares one transaction boundary.
func PricingEngine(unit uow.UnitOfWork, settings pricing.SettingsSource, discounts pricing.DiscountPolicy) *pricing.Engine {
	ledger := unit.Inventory()
	return &pricing.Engine{
		RoomTypes: unit.RoomTypes(),
		Ledger:    ledger,
		Plans:     rates.RatePlanResolver{Plans: unit.RatePlans()},
		Seasonal:  rates.SeasonalRateResolver{Rates: unit.SeasonalRates()},
		Dynamic: rates.DynamicModifierCalculator{
			Rules:     unit.DynamicRules(),
			Occupancy: pricing.LedgerOccupancy{Ledger: ledger},
		},
		Settings:  settings,
		Discounts: discounts,
	}
}

// SearchService assembles the availability read path.
func SearchService(unit uow.UnitOfWork, settings pricing.SettingsSource, discounts pricing.DiscountPolicy) *search.Service {
	return &search.Service{
		RoomTypes:    unit.RoomTypes(),
		Ledger:       unit.Inventory(),
		Restrictions: restrictions.Engine{Restrictions: unit.Restrictions()},
		Pricing:      PricingEngine(unit, settings, discounts),
	}
}
