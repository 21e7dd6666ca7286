package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Application
	applicationPort "github.com/dreschagin/fleet-status/internal/application/port"
	"github.com/dreschagin/fleet-status/internal/application/usecase"

	// Domain
	"github.com/dreschagin/fleet-status/internal/domain/entity"

	// Infrastructure
	"github.com/dreschagin/fleet-status/internal/infrastructure/collector"
	"github.com/dreschagin/fleet-status/internal/infrastructure/identity/imds"
	natsInfra "github.com/dreschagin/fleet-status/internal/infrastructure/messaging/nats"
	"github.com/dreschagin/fleet-status/internal/infrastructure/observability/cloudwatch"
	dynamodbRepo "github.com/dreschagin/fleet-status/internal/infrastructure/persistence/dynamodb"
	"github.com/dreschagin/fleet-status/internal/infrastructure/snapshotfile"
	"github.com/dreschagin/fleet-status/internal/infrastructure/syncmarker"

	// Interfaces
	httpInterface "github.com/dreschagin/fleet-status/internal/interfaces/http"
	"github.com/dreschagin/fleet-status/internal/interfaces/http/handler"

	// Shared
	"github.com/dreschagin/fleet-status/pkg/config"
	"github.com/dreschagin/fleet-status/pkg/logger"
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
	log.Info("Starting Health Reporter")

	// 3. CloudWatch Integration

	var metricsPublisher applicationPort.MetricsPublisher
	if cfg.CloudWatch.Enabled {
		publisherImpl, initErr := cloudwatch.NewMetricsPublisher(context.Background(),
			cloudwatch.MetricsPublisherConfig{
				Namespace:       cfg.CloudWatch.Namespace,
				Region:          cfg.CloudWatch.Region,
				Endpoint:        cfg.CloudWatch.Endpoint,
				AccessKeyID:     cfg.CloudWatch.AccessKeyID,
				SecretAccessKey: cfg.CloudWatch.SecretAccessKey,
				BufferSize:      cfg.CloudWatch.BufferSize,
				FlushInterval:   cfg.CloudWatch.FlushInterval,
			})
		if initErr != nil {
			log.Error("Failed to initialize CloudWatch metrics publisher", initErr)
			os.Exit(1)
		}
		metricsPublisher = publisherImpl
		log.Info("CloudWatch metrics publisher initialized")
	} else {
		log.Warn("CloudWatch metrics publishing is disabled")
	}

	var logsPublisher applicationPort.LogPublisher
	if cfg.CloudWatch.Enabled && cfg.CloudWatch.LogGroup != "" {
		publisherImpl, initErr := cloudwatch.NewLogsPublisher(context.Background(),
			cloudwatch.LogsPublisherConfig{
				LogGroupName:    cfg.CloudWatch.LogGroup,
				LogStreamName:   cfg.CloudWatch.LogStream,
				Region:          cfg.CloudWatch.Region,
				Endpoint:        cfg.CloudWatch.Endpoint,
				AccessKeyID:     cfg.CloudWatch.AccessKeyID,
				SecretAccessKey: cfg.CloudWatch.SecretAccessKey,
				BufferSize:      cfg.CloudWatch.BufferSize,
				FlushInterval:   cfg.CloudWatch.FlushInterval,
				AutoCreate:      true,
			})
		if initErr != nil {
			log.Error("Failed to initialize CloudWatch logs publisher", initErr)
			os.Exit(1)
		}
		logsPublisher = publisherImpl
		log.SetLogPublisher(logsPublisher)
		log.Info("CloudWatch logs publisher initialized")
	}

	// 4. NATS Event Publisher
	var eventPublisher applicationPort.EventPublisher
	if cfg.NATS.Enabled {
		publisherImpl, initErr := natsInfra.NewNATSPublisher(cfg.NATS.URL, log)
		if initErr != nil {
			log.Warn("Failed to connect to NATS, continuing without event publishing", "error", initErr.Error())
		} else {
			eventPublisher = publisherImpl
			defer eventPublisher.Close()
			log.Info("NATS event publisher initialized", "url", cfg.NATS.URL)
		}
	} else {
		log.Warn("NATS event publishing is disabled")
	}

	// 5. DynamoDB Fleet Registry
	var fleetRegistry applicationPort.FleetRegistry
	if cfg.DynamoDB.Enabled {
		registryImpl, initErr := dynamodbRepo.NewFleetRegistry(context.Background(), dynamodbRepo.Config{
			TableName:       cfg.DynamoDB.TableName,
			Region:          cfg.DynamoDB.Region,
			Endpoint:        cfg.DynamoDB.Endpoint,
			AccessKeyID:     cfg.DynamoDB.AccessKeyID,
			SecretAccessKey: cfg.DynamoDB.SecretAccessKey,
		})
		if initErr != nil {
			log.Error("Failed to initialize fleet registry", initErr)
			os.Exit(1)
		}
		fleetRegistry = registryImpl
		log.Info("Fleet registry initialized", "table", cfg.DynamoDB.TableName)
	} else {
		log.Warn("DynamoDB fleet registry is disabled")
	}

	// 6. Dependency Injection - Infrastructure Layer

	identityProvider, err := imds.NewIdentityProvider(context.Background(), imds.Config{}, log)
	if err != nil {
		log.Error("Failed to initialize identity provider", err)
		os.Exit(1)
	}

	systemCollector := collector.NewSystemCollector(cfg.Reporter.DiskPath)
	webServerProber := collector.NewProcessProber(cfg.Reporter.ProcessName, cfg.Reporter.LivenessURL, 2*time.Second)
	syncMarker := syncmarker.NewFileMarker(cfg.Reporter.SyncMarkerPath)
	snapshotWriter := snapshotfile.NewWriter(cfg.Reporter.SnapshotPath)

	// 7. Dependency Injection - Application Layer

	sampleHealthUC := usecase.NewSampleHealthUseCase(
		identityProvider,
		webServerProber,
		syncMarker,
		systemCollector,
		snapshotWriter,
		fleetRegistry,    // Can be nil if DynamoDB disabled
		metricsPublisher, // Can be nil if CloudWatch disabled
		eventPublisher,   // Can be nil if NATS disabled
		log,
	)

	// 8. Dependency Injection - Interfaces Layer

	healthHandler := handler.NewNodeHealthHandler(sampleHealthUC, log)
	router := httpInterface.NewNodeRouter(healthHandler, func() entity.InstanceIdentity {
		if snapshot, ok := sampleHealthUC.Latest(); ok {
			return snapshot.Instance
		}
		return entity.UnknownIdentity()
	}, log)

	// 9. Запускаем цикл сэмплирования

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		ticker := time.NewTicker(cfg.Reporter.SampleInterval)
		defer ticker.Stop()

		log.Info("Health sampling started",
			"interval", cfg.Reporter.SampleInterval.String(),
			"snapshot_path", cfg.Reporter.SnapshotPath)

		// Первый цикл сразу, не дожидаясь тика
		if _, err := sampleHealthUC.Execute(ctx); err != nil {
			log.Error("Failed to sample health", err)
		}

		for {
			select {
			case <-ticker.C:
				if _, err := sampleHealthUC.Execute(ctx); err != nil {
					log.Error("Failed to sample health", err)
				}
			case <-ctx.Done():
				log.Info("Health sampling stopped")
				return
			}
		}
	}()

	// 10. Настраиваем HTTP сервер

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

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", err)
			os.Exit(1)
		}
	}()

	// 11. Ожидаем сигнал для graceful shutdown

	<-sigChan
	log.Info("Shutdown signal received, starting graceful shutdown...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Flush CloudWatch buffers before shutdown
	if metricsPublisher != nil {
		log.Info("Flushing CloudWatch metrics buffer...")
		if err := metricsPublisher.Flush(shutdownCtx); err != nil {
			log.Error("Failed to flush CloudWatch metrics", err)
		}
	}
	if logsPublisher != nil {
		log.Info("Flushing CloudWatch logs buffer...")
		if err := logsPublisher.Flush(shutdownCtx); err != nil {
			log.Error("Failed to flush CloudWatch logs", err)
		}
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", err)
	}

	log.Info("Health reporter stopped gracefully")
}
