package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	appcache "innkeep/internal/app/cache"
	"innkeep/internal/app/commands"
	availabilityapp "innkeep/internal/app/handlers/availability"
	inventoryapp "innkeep/internal/app/handlers/inventory"
	"innkeep/internal/app/middleware"
	appoutbox "innkeep/internal/app/outbox"
	"innkeep/internal/app/queries"
	"innkeep/internal/app/uow"
	domaincatalog "innkeep/internal/domain/catalog"
	domaininventory "innkeep/internal/domain/inventory"
	"innkeep/internal/domain/pricing"
	domainrange "innkeep/internal/domain/shared/daterange"
	"innkeep/internal/domain/shared/money"
	"innkeep/internal/infra/broker/kafka"
	infracache "innkeep/internal/infra/cache"
	"innkeep/internal/infra/config"
	mongodb "innkeep/internal/infra/db/mongo"
	ginserver "innkeep/internal/infra/http/gin"
	"innkeep/internal/infra/obs"
	infraoutbox "innkeep/internal/infra/outbox"
	"innkeep/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, err := buildApplication(cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	fixturesPath := cfg.RoomTypeFixtures
	if fixturesPath == "" {
		fixturesPath = filepath.Join("fixtures", "room_types.json")
	}
	if err := app.loadRoomTypeFixtures(ctx, fixturesPath, cfg.SeedWindowDays, logger); err != nil {
		logger.Warn("room type fixtures load failed", "error", err, "path", fixturesPath)
	}

	if len(cfg.KafkaBrokers) > 0 {
		startEventPipeline(ctx, cfg, app, logger)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode, "cache", cfg.CacheMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

// outboxQueue is both the durable sink for flushed command buffers and the
// worker's claim queue.
type outboxQueue interface {
	appoutbox.Sink
	infraoutbox.Store
}

type roomTypeSaver interface {
	Save(ctx context.Context, rt domaincatalog.RoomType) error
}

type application struct {
	handlers   ginserver.Handlers
	uowFactory uow.UoWFactory
	roomTypes  roomTypeSaver
	ledger     domaininventory.Ledger
	outbox     outboxQueue
	cache      appcache.Cache
	currency   string
	ready      func() error
}

func buildApplication(cfg config.Config, logger *slog.Logger) (application, error) {
	app := application{
		currency: cfg.Currency,
		ready:    func() error { return nil },
	}

	switch cfg.CacheMode {
	case "redis":
		redisCache, err := infracache.NewRedis(cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return application{}, fmt.Errorf("redis cache: %w", err)
		}
		app.cache = redisCache
	default:
		app.cache = infracache.NewMemory()
	}

	var idStore middleware.IdempotencyStore
	switch cfg.StorageMode {
	case "mongo":
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, fmt.Errorf("mongo: %w", err)
		}
		app.ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		roomTypeRepo := mongodb.NewRoomTypeRepository(client.DB)
		ledger := mongodb.NewInventoryLedger(client.DB)
		app.uowFactory = mongodb.Factory{
			DB:               client.DB,
			RoomTypeRepo:     roomTypeRepo,
			Ledger:           ledger,
			RatePlanRepo:     mongodb.NewRatePlanRepository(client.DB),
			SeasonalRepo:     mongodb.NewSeasonalRateRepository(client.DB),
			DynamicRuleRepo:  mongodb.NewDynamicRuleRepository(client.DB),
			RestrictionsRepo: mongodb.NewRestrictionRepository(client.DB),
		}
		app.roomTypes = roomTypeRepo
		app.ledger = ledger
		app.outbox = mongodb.NewOutboxStore(client.DB)
		idStore = mongodb.NewIdempotencyStore(client.DB)
	default:
		roomTypeRepo := memory.NewRoomTypeRepository()
		ledger := memory.NewInventoryLedger()
		app.uowFactory = memory.Factory{
			RoomTypeRepo:     roomTypeRepo,
			Ledger:           ledger,
			RatePlanRepo:     memory.NewRatePlanRepository(),
			SeasonalRepo:     memory.NewSeasonalRateRepository(),
			DynamicRuleRepo:  memory.NewDynamicRuleRepository(),
			RestrictionsRepo: memory.NewRestrictionRepository(),
		}
		app.roomTypes = roomTypeRepo
		app.ledger = ledger
		app.outbox = memory.NewOutboxStore()
		idStore = memory.NewIdempotencyStore()
	}

	settings := memory.NewSettingsStore(pricing.Settings{
		TaxRate:        cfg.TaxRate,
		ServiceFeeRate: cfg.ServiceFeeRate,
		Currency:       cfg.Currency,
		ExchangeRate:   cfg.ExchangeRate,
	})
	discounts := pricing.NoDiscount{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, inventoryapp.ReserveInventoryCommand{}.Key(), &inventoryapp.ReserveInventoryHandler{
		UoWFactory: app.uowFactory,
		Encoder:    appoutbox.JSONEventEncoder{},
	})
	commands.RegisterHandler(commandBus, inventoryapp.ReleaseInventoryCommand{}.Key(), &inventoryapp.ReleaseInventoryHandler{
		UoWFactory: app.uowFactory,
		Encoder:    appoutbox.JSONEventEncoder{},
	})
	commands.RegisterHandler(commandBus, inventoryapp.BulkUpdateInventoryCommand{}.Key(), &inventoryapp.BulkUpdateInventoryHandler{
		UoWFactory: app.uowFactory,
		Encoder:    appoutbox.JSONEventEncoder{},
	})
	commands.RegisterHandler(commandBus, inventoryapp.SeedInventoryCommand{}.Key(), &inventoryapp.SeedInventoryHandler{
		UoWFactory: app.uowFactory,
		Encoder:    appoutbox.JSONEventEncoder{},
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, availabilityapp.SearchStayQuery{}.Key(), &availabilityapp.SearchStayHandler{
		UoWFactory: app.uowFactory,
		Settings:   settings,
		Discounts:  discounts,
		Cache:      app.cache,
		CacheTTL:   cfg.SearchCacheTTL,
		Logger:     logger,
	})
	queries.RegisterHandler(queryBus, availabilityapp.QuoteStayQuery{}.Key(), &availabilityapp.QuoteStayHandler{
		UoWFactory: app.uowFactory,
		Settings:   settings,
		Discounts:  discounts,
	})
	queries.RegisterHandler(queryBus, availabilityapp.CheckRestrictionsQuery{}.Key(), &availabilityapp.CheckRestrictionsHandler{
		UoWFactory: app.uowFactory,
	})
	queries.RegisterHandler(queryBus, inventoryapp.GetCalendarQuery{}.Key(), &inventoryapp.GetCalendarHandler{
		UoWFactory: app.uowFactory,
	})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(idStore, nil),
		middleware.CacheInvalidation(app.cache, logger),
		middleware.Transaction(app.uowFactory, nil),
		middleware.OutboxFlush(app.outbox),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	app.handlers = ginserver.Handlers{
		Availability: ginserver.AvailabilityHandler{Queries: queryBusWithMiddleware},
		Inventory: ginserver.InventoryHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
		},
		Admin: ginserver.AdminHandler{Commands: commandBusWithMiddleware},
	}
	return app, nil
}

func startEventPipeline(ctx context.Context, cfg config.Config, app application, logger *slog.Logger) {
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
	if err != nil {
		logger.Warn("kafka producer unavailable, events stay queued", "error", err)
		return
	}
	worker := &infraoutbox.Worker{
		Store:       app.outbox,
		Producer:    producer,
		Logger:      logger,
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		Backoff:     cfg.RetryBackoff,
	}
	go func() {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("outbox worker stopped", "error", err)
		}
	}()

	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaConsumerGroup, nil, &kafka.CacheInvalidator{
		Cache:  app.cache,
		Logger: logger,
	})
	if err != nil {
		logger.Warn("kafka consumer unavailable, cache invalidation disabled", "error", err)
		return
	}
	topic := cfg.KafkaTopicPrefix + "inventory.events.v1"
	go func() {
		if err := consumer.Run(ctx, []string{topic}); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("kafka consumer stopped", "error", err)
		}
	}()
}

type roomTypeFixture struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	BaseRate       float64 `json:"base_rate"`
	Currency       string  `json:"currency"`
	BaseOccupancy  int     `json:"base_occupancy"`
	MaxOccupancy   int     `json:"max_occupancy"`
	ExtraAdultRate float64 `json:"extra_adult_rate"`
	ExtraChildRate float64 `json:"extra_child_rate"`
	TotalRooms     int     `json:"total_rooms"`
}

// loadRoomTypeFixtures upserts catalog fixtures and seeds the booking window
// for each, so a fresh instance is immediately sellable.
func (a application) loadRoomTypeFixtures(ctx context.Context, path string, windowDays int, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("room type fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}

	var fixtures []roomTypeFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}
	if len(fixtures) == 0 {
		return nil
	}
	if windowDays < 1 {
		windowDays = 365
	}
	from := domainrange.Day(time.Now().UTC())
	window, err := domainrange.New(from, from.AddDate(0, 0, windowDays))
	if err != nil {
		return err
	}

	for _, fx := range fixtures {
		currency := fx.Currency
		if currency == "" {
			currency = a.currency
		}
		rt := domaincatalog.RoomType{
			ID:             domaincatalog.RoomTypeID(fx.ID),
			Name:           fx.Name,
			BaseRate:       money.FromFloat(fx.BaseRate, currency),
			BaseOccupancy:  fx.BaseOccupancy,
			MaxOccupancy:   fx.MaxOccupancy,
			ExtraAdultRate: money.FromFloat(fx.ExtraAdultRate, currency),
			ExtraChildRate: money.FromFloat(fx.ExtraChildRate, currency),
			TotalRooms:     fx.TotalRooms,
			Active:         true,
		}
		if err := a.roomTypes.Save(ctx, rt); err != nil {
			return fmt.Errorf("save room type %s: %w", fx.ID, err)
		}
		created, err := a.ledger.Seed(ctx, rt.ID, window, rt.TotalRooms)
		if err != nil {
			return fmt.Errorf("seed inventory %s: %w", fx.ID, err)
		}
		logger.Info("room type fixture loaded", "room_type", fx.ID, "seeded_nights", created)
	}
	return nil
}
