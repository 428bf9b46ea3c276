package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"inbox-triage/internal/config"
	"inbox-triage/internal/handler"
	"inbox-triage/internal/loader"
	"inbox-triage/internal/logger"
	"inbox-triage/internal/repository"
	"inbox-triage/internal/repository/memory"
	"inbox-triage/internal/repository/postgres"
	"inbox-triage/internal/repository/redis"
	"inbox-triage/internal/repository/sqlite"
	"inbox-triage/internal/router"
	"inbox-triage/internal/service"
	"inbox-triage/internal/session"
	"inbox-triage/internal/sse"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatal("Config validation failed:", err)
	}

	// Initialize logger
	appLogger := logger.New()
	appLogger.SetLevel(cfg.LogLevel)

	kv, closeStore, err := openKeyValueStore(cfg, appLogger)
	if err != nil {
		log.Fatal("Failed to open triage store:", err)
	}
	defer closeStore()

	// Initialize services
	triageStore := service.NewTriageStore(kv, cfg.TriageStorageKey, appLogger)
	modelLoader := loader.NewLoader(cfg.DataURL, appLogger)
	dashboardService := service.NewDashboardService(modelLoader, triageStore, cfg.NewWindowHours, appLogger)

	// A failed load is served as 503 until a refresh succeeds
	if err := dashboardService.Load(context.Background(), time.Now()); err != nil {
		appLogger.Error("Initial dashboard load failed:", err)
	}

	// Initialize SSE manager for real-time triage updates
	sseManager := sse.NewSSEManager(appLogger)
	defer sseManager.Close()

	wakeJob := sse.NewSnoozeWakeJob(
		dashboardService,
		sseManager,
		time.Duration(cfg.SnoozeCheckInterval)*time.Second,
		appLogger,
	)
	go wakeJob.Start()
	defer wakeJob.Stop()

	tracker := session.NewTracker(session.NewCookieStore([]byte(cfg.SessionSecret), cfg.IsProduction()))

	// Viewed sets of idle sessions are dropped
	sweeper := session.NewSweeper(
		tracker,
		time.Duration(cfg.SessionIdleHours)*time.Hour,
		session.DefaultSweepInterval,
		appLogger,
	)
	go sweeper.Start()
	defer sweeper.Stop()

	// Initialize handlers
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	dashboardHandler := handler.NewDashboardHandler(dashboardService, tracker, sseManager, e.Logger)
	sseHandler := handler.NewSSEHandler(sseManager, e.Logger)

	router.SetupRoutes(e, dashboardHandler, sseHandler, tracker)

	// Start server
	appLogger.Info("Starting server on port", cfg.Port)
	if err := e.Start(":" + cfg.Port); err != nil {
		appLogger.Error("Failed to start server:", err)
	}
}

// openKeyValueStore builds the backend named by STORE_BACKEND
func openKeyValueStore(cfg *config.Config, appLogger *logger.Logger) (repository.KeyValueStore, func() error, error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		store, err := sqlite.NewSQLiteKeyValueStore(cfg.SQLitePath, appLogger)
		if err != nil {
			return nil, nil, err
		}
		appLogger.Info("Using SQLite triage store at", cfg.SQLitePath)
		return store, store.Close, nil

	case config.BackendPostgres:
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := postgres.InitializeDatabase(db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		appLogger.Info("Using PostgreSQL triage store")
		return postgres.NewPostgresKeyValueStore(db), db.Close, nil

	case config.BackendRedis:
		client := redis.NewRedisClient(redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		appLogger.Info("Using Redis triage store at", cfg.RedisAddr)
		store := redis.NewRedisKeyValueStore(client)
		return store, store.Close, nil

	default:
		appLogger.Info("Using in-memory triage store")
		return memory.NewInMemoryKeyValueStore(), func() error { return nil }, nil
	}
}
