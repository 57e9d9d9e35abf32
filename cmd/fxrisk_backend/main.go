package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/fxrisk/fx_risk_app/internal/adapters/database/pgsql"
	"github.com/fxrisk/fx_risk_app/internal/adapters/providers"
	portsrepo "github.com/fxrisk/fx_risk_app/internal/core/ports/repositories"
	"github.com/fxrisk/fx_risk_app/internal/core/services"
	"github.com/fxrisk/fx_risk_app/internal/dto"
	"github.com/fxrisk/fx_risk_app/internal/handlers"
	"github.com/fxrisk/fx_risk_app/internal/middleware"
	"github.com/fxrisk/fx_risk_app/internal/platform/scheduler"
	"github.com/fxrisk/fx_risk_app/pkg/config"
	"github.com/fxrisk/fx_risk_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := dto.RegisterValidators(); err != nil {
		logger.Error("Failed to register validators", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := portsrepo.RepositoryProvider{
		CurrencyRepo:  pgsql.NewPgxCurrencyRepository(dbPool),
		PortfolioRepo: pgsql.NewPgxPortfolioRepository(dbPool),
		PositionRepo:  pgsql.NewPgxPositionRepository(dbPool),
		FxRateRepo:    pgsql.NewPgxFxRateRepository(dbPool),
	}

	// The registry must exist before the providers since they restrict
	// symbols to registered codes.
	registry := services.NewRegistryService(repos.CurrencyRepo)
	if err := registry.Reload(context.Background()); err != nil {
		logger.Error("Failed to load currency registry", slog.String("error", err.Error()))
		os.Exit(1)
	}

	primary, err := providers.NewProvider(cfg.FxRateProvider, cfg, registry)
	if err != nil {
		logger.Error("Failed to construct primary provider", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if primary == nil {
		logger.Error("A primary rate provider must be configured")
		os.Exit(1)
	}
	// The fallback slot may be left blank, in which case the orchestrator
	// runs with the primary provider only.
	fallback, err := providers.NewProvider(cfg.FxFallbackProvider, cfg, registry)
	if err != nil {
		logger.Error("Failed to construct fallback provider", slog.String("error", err.Error()))
		os.Exit(1)
	}

	container := services.NewServiceContainer(cfg, repos, registry, primary, fallback)

	if cfg.SeedDemoData {
		if err := services.SeedDemoData(context.Background(), container); err != nil {
			logger.Error("Failed to seed demo data", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: false,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var sched *scheduler.Scheduler
	if cfg.SchedulerEnabled {
		sched = scheduler.New(container.Orchestrator, container.RateStore, cfg.FxCanonicalBase, logger)
	}

	handlers.RegisterRoutes(r, cfg, container, dbPool, sched)

	if sched != nil {
		if err := sched.Start(cfg.RatesRefreshCron); err != nil {
			logger.Error("Failed to start scheduler", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer sched.Stop()
	}

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies pending SQL migrations through a temporary
// database/sql connection using the pgx stdlib driver.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
