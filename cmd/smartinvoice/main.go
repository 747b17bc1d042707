package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Ezzerof/smart-invoice-backend/internal/adapters/database/pgsql"
	"github.com/Ezzerof/smart-invoice-backend/internal/adapters/email"
	"github.com/Ezzerof/smart-invoice-backend/internal/adapters/pdf"
	"github.com/Ezzerof/smart-invoice-backend/internal/core/scheduler"
	"github.com/Ezzerof/smart-invoice-backend/internal/core/services"
	"github.com/Ezzerof/smart-invoice-backend/internal/dto"
	"github.com/Ezzerof/smart-invoice-backend/internal/handlers"
	"github.com/Ezzerof/smart-invoice-backend/internal/middleware"
	"github.com/Ezzerof/smart-invoice-backend/internal/platform/config"
	"github.com/Ezzerof/smart-invoice-backend/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title SmartInvoice Backend API
// @version 1.0
// @description Invoice lifecycle management with automatic payment reminders.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := dto.RegisterCustomValidators(); err != nil {
		logger.Error("Failed to register validators", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Wire adapters and services
	repos := pgsql.NewRepositoryProvider(dbPool)
	clock := scheduler.SystemClock{}
	generator := pdf.NewGenerator(cfg.Company)
	sender := email.NewSMTPSender(cfg.SMTP)
	serviceContainer := services.NewServiceContainer(cfg, repos, clock, generator, sender)

	// Reminder job: status transition then dispatch, on a fixed cadence
	transition := scheduler.NewTransitionEngine(repos.InvoiceRepo, logger)
	dispatcher := scheduler.NewDispatcher(repos.InvoiceRepo, generator, sender, logger)
	engine := scheduler.NewEngine(clock, transition, dispatcher, cfg.SchedulerInterval, logger)

	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	go engine.Run(schedulerCtx)

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	// Stop the scheduler cleanly on SIGINT/SIGTERM; an in-flight tick finishes first.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("Shutdown signal received")
		stopScheduler()
		os.Exit(0)
	}()

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations using a temporary database/sql
// connection via the pgx stdlib driver.
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
