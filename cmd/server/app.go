package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/fintrack-api/internal/cache"
	"github.com/phrazzld/fintrack-api/internal/config"
	"github.com/phrazzld/fintrack-api/internal/domain/analytics"
	"github.com/phrazzld/fintrack-api/internal/events"
	"github.com/phrazzld/fintrack-api/internal/platform/postgres"
	"github.com/phrazzld/fintrack-api/internal/service"
	"github.com/phrazzld/fintrack-api/internal/service/auth"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// loc decides which calendar month is "current" for budgets and analytics.
	loc *time.Location

	jwtService       auth.JWTService
	userService      service.UserService
	txService        service.TransactionService
	budgetService    service.BudgetService
	analyticsService service.AnalyticsService

	janitor   *cache.Janitor
	publisher *events.AMQPPublisher
}

// newApplication wires stores, services and the event system on top of an
// open database. The application owns db once this returns without error.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.loc, err = time.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", cfg.Server.Timezone, err)
	}

	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	userStore := postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost, logger)
	txStore := postgres.NewPostgresTransactionStore(db, logger)
	budgetStore := postgres.NewPostgresBudgetStore(db, logger)

	emitter := events.NewInMemoryEventEmitter(logger)

	var resultCache *service.AnalyticsCache
	if cfg.Analytics.CacheSize > 0 && cfg.Analytics.CacheTTLSeconds > 0 {
		resultCache = service.NewAnalyticsCache(
			cfg.Analytics.CacheSize,
			time.Duration(cfg.Analytics.CacheTTLSeconds)*time.Second,
		)
		emitter.RegisterHandler(service.NewCacheInvalidator(resultCache))

		app.janitor, err = cache.NewJanitor(cfg.Analytics.CacheCleanupSchedule, resultCache, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to schedule cache cleanup: %w", err)
		}
		logger.Info("analytics cache enabled",
			slog.Int("size", cfg.Analytics.CacheSize),
			slog.Int("ttl_seconds", cfg.Analytics.CacheTTLSeconds))
	}

	if err := app.initServices(userStore, txStore, budgetStore, emitter, resultCache); err != nil {
		return nil, err
	}

	if cfg.Events.AMQPURL != "" {
		app.publisher, err = events.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect event publisher: %w", err)
		}
		emitter.RegisterHandler(app.publisher)
		logger.Info("publishing events to AMQP", slog.String("exchange", cfg.Events.Exchange))
	}

	if app.janitor != nil {
		app.janitor.Start()
	}
	return app, nil
}

func (app *application) initServices(
	userStore *postgres.PostgresUserStore,
	txStore *postgres.PostgresTransactionStore,
	budgetStore *postgres.PostgresBudgetStore,
	emitter events.EventEmitter,
	resultCache *service.AnalyticsCache,
) error {
	aggregator, err := analytics.NewAggregator(app.config.Analytics.Currency)
	if err != nil {
		return fmt.Errorf("failed to create analytics aggregator: %w", err)
	}

	app.userService, err = service.NewUserService(userStore, auth.NewBcryptVerifier(), app.logger)
	if err != nil {
		return fmt.Errorf("failed to create user service: %w", err)
	}

	app.txService, err = service.NewTransactionService(txStore, app.db, emitter, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create transaction service: %w", err)
	}

	app.budgetService, err = service.NewBudgetService(budgetStore, emitter, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create budget service: %w", err)
	}

	app.analyticsService, err = service.NewAnalyticsService(
		userStore,
		txStore,
		budgetStore,
		aggregator,
		resultCache,
		app.logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create analytics service: %w", err)
	}
	return nil
}

// cleanup releases background workers and connections. Safe to call on a
// partially initialized application.
func (app *application) cleanup() {
	if app.janitor != nil {
		app.janitor.Stop()
	}
	if app.publisher != nil {
		if err := app.publisher.Close(); err != nil {
			app.logger.Error("failed to close event publisher", slog.String("error", err.Error()))
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", slog.String("error", err.Error()))
		}
	}
}
