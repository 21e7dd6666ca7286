package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Application
	applicationPort "github.com/dreschagin/fleet-status/internal/application/port"
	"github.com/dreschagin/fleet-status/internal/application/usecase"
	"github.com/dreschagin/fleet-status/internal/application/viewstate"

	// Domain
	"github.com/dreschagin/fleet-status/internal/domain/repository"
	"github.com/dreschagin/fleet-status/internal/domain/service"

	// Infrastructure
	redisCache "github.com/dreschagin/fleet-status/internal/infrastructure/cache/redis"
	"github.com/dreschagin/fleet-status/internal/infrastructure/nodeclient"
	wsInfra "github.com/dreschagin/fleet-status/internal/infrastructure/notification/websocket"
	"github.com/dreschagin/fleet-status/internal/infrastructure/persistence/postgres"

	// Interfaces
	httpInterface "github.com/dreschagin/fleet-status/internal/interfaces/http"
	"github.com/dreschagin/fleet-status/internal/interfaces/http/handler"
	"github.com/dreschagin/fleet-status/internal/interfaces/http/middleware"

	// Shared
	"github.com/dreschagin/fleet-status/pkg/config"
	"github.com/dreschagin/fleet-status/pkg/logger"

	_ "github.com/lib/pq"
)

func main() {
	// 1. Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Инициализируем logger
	log := logger.New(os.Getenv("LOG_LEVEL"))
	log.Info("Starting Status Dashboard")

	if len(cfg.Dashboard.Nodes) == 0 {
		log.Error("No nodes configured, set DASHBOARD_NODES", nil)
		os.Exit(1)
	}

	// 3. Подключаемся к БД (опционально: без нее нет истории)

	var historyRepository repository.HealthHistoryRepository
	if cfg.Database.Enabled {
		db, dbErr := sql.Open("postgres", cfg.Database.DSN())
		if dbErr != nil {
			log.Error("Failed to connect to database", dbErr)
			os.Exit(1)
		}
		defer db.Close()

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
		db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

		if pingErr := db.Ping(); pingErr != nil {
			log.Error("Failed to ping database", pingErr)
			os.Exit(1)
		}

		historyRepository = postgres.NewPostgresHealthHistoryRepository(db)
		log.Info("Database connected successfully")
	} else {
		log.Warn("Database is disabled, node history will not be recorded")
	}

	// 4. Redis Cache (опционально)

	var cache applicationPort.Cache
	if cfg.Redis.Enabled {
		cacheImpl, cacheErr := redisCache.NewRedisCache(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.TTL,
			cfg.Redis.PoolSize,
			2,
			cfg.Server.ReadTimeout,
			cfg.Server.ReadTimeout,
			cfg.Server.WriteTimeout,
		)
		if cacheErr != nil {
			log.Warn("Failed to connect to Redis, continuing without cache", "error", cacheErr.Error())
		} else {
			cache = cacheImpl
			defer cache.Close()
			log.Info("Redis cache initialized", "host", cfg.Redis.Host)
		}
	} else {
		log.Warn("Redis cache is disabled")
	}

	// 5. Dependency Injection - Infrastructure Layer

	client := nodeclient.NewClient(cfg.Dashboard.NodeTimeout, log)

	nodes := make([]applicationPort.Node, 0, len(cfg.Dashboard.Nodes))
	for _, node := range cfg.Dashboard.Nodes {
		nodes = append(nodes, applicationPort.Node{Name: node.Name, BaseURL: node.URL})
	}

	hub := wsInfra.NewHub(log)
	store := viewstate.NewStore()

	// 6. Dependency Injection - Application Layer

	pollFleetUC := usecase.NewPollFleetUseCase(
		client,
		nodes,
		store,
		historyRepository, // Can be nil if database disabled
		hub,
		log,
	)

	getFleetStatusUC := usecase.NewGetFleetStatusUseCase(store, pollFleetUC, log)

	var getHistoryUC *usecase.GetHealthHistoryCachedUseCase
	if historyRepository != nil {
		getHistoryUC = usecase.NewGetHealthHistoryCachedUseCase(
			historyRepository,
			service.NewHistoryAggregator(),
			cache, // Can be nil if Redis disabled
			log,
		)
	}

	// 7. Dependency Injection - Interfaces Layer

	authConfig := middleware.AuthConfig{
		Enabled:     cfg.Security.AuthEnabled,
		BearerToken: cfg.Security.AuthToken,
	}

	dashboardHandler := handler.NewDashboardHandler(getFleetStatusUC, log)
	websocketHandler := handler.NewWebSocketHandler(hub, cfg.Security.AllowedOrigins, authConfig, log)
	fleetAPIHandler := handler.NewFleetAPIHandler(getFleetStatusUC, log)
	historyAPIHandler := handler.NewHistoryAPIHandler(getHistoryUC, cfg.Dashboard.HistoryMaxDuration, log)
	authAPIHandler := handler.NewAuthAPIHandler(authConfig, log)

	router := httpInterface.NewRouter(
		dashboardHandler,
		websocketHandler,
		fleetAPIHandler,
		historyAPIHandler,
		authAPIHandler,
		cfg.Security,
		log,
	)

	// 8. Запускаем фоновые процессы

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hub.Run()
	log.Info("WebSocket hub started")

	// Цикл опроса флота. Ручной refresh не сбрасывает таймер.
	go func() {
		ticker := time.NewTicker(cfg.Dashboard.PollInterval)
		defer ticker.Stop()

		log.Info("Fleet polling started",
			"interval", cfg.Dashboard.PollInterval.String(),
			"nodes", len(nodes))

		// Первый цикл сразу, не дожидаясь тика
		if _, err := pollFleetUC.Execute(ctx); err != nil {
			log.Error("Failed to poll fleet", err)
		}

		for {
			select {
			case <-ticker.C:
				if _, err := pollFleetUC.Execute(ctx); err != nil {
					log.Error("Failed to poll fleet", err)
				}
			case <-ctx.Done():
				log.Info("Fleet polling stopped")
				return
			}
		}
	}()

	// 9. Настраиваем HTTP сервер

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("HTTP server starting", "port", cfg.Server.Port)
		log.Info("Dashboard available at http://localhost:" + cfg.Server.Port)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", err)
			os.Exit(1)
		}
	}()

	// 10. Ожидаем сигнал для graceful shutdown

	<-sigChan
	log.Info("Shutdown signal received, starting graceful shutdown...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", err)
	}

	log.Info("Dashboard stopped gracefully")
}
