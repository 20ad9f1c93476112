package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"innkeep/internal/app/uow"
	domaincatalog "innkeep/internal/domain/catalog"
	domaininventory "innkeep/internal/domain/inventory"
	domainrates "innkeep/internal/domain/rates"
	domainrestrictions "innkeep/internal/domain/restrictions"
)

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Factory wires Mongo transactions into the generic UnitOfWork interface.
type Factory struct {
	DB *mongo.Database

	RoomTypeRepo     domaincatalog.Repository
	Ledger           domaininventory.Ledger
	RatePlanRepo     domainrates.RatePlanRepository
	SeasonalRepo     domainrates.SeasonalRateRepository
	DynamicRuleRepo  domainrates.DynamicRuleRepository
	RestrictionsRepo domainrestrictions.Repository
}

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		db:           f.DB,
		session:      session,
		roomTypes:    f.RoomTypeRepo,
		inventory:    f.Ledger,
		ratePlans:    f.RatePlanRepo,
		seasonal:     f.SeasonalRepo,
		dynamic:      f.DynamicRuleRepo,
		restrictions: f.RestrictionsRepo,
	}, nil
}

type Unit struct {
	db      *mongo.Database
	session mongo.Session

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
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext ensures the Mongo session is available in context for
// downstream repositories.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}

var _ uow.UoWFactory = Factory{}
