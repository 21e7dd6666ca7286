package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dreschagin/fleet-status/internal/application/usecase"
	s3storage "github.com/dreschagin/fleet-status/internal/infrastructure/storage/s3"
	"github.com/dreschagin/fleet-status/internal/infrastructure/syncmarker"
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
	log.Info("Starting Content Sync")

	// 3. Dependency Injection

	mirror, err := s3storage.NewContentMirror(context.Background(), s3storage.Config{
		Bucket:          cfg.Sync.Bucket,
		Prefix:          cfg.Sync.Prefix,
		Region:          cfg.Sync.Region,
		Endpoint:        cfg.Sync.Endpoint,
		AccessKeyID:     cfg.Sync.AccessKeyID,
		SecretAccessKey: cfg.Sync.SecretAccessKey,
		UsePathStyle:    cfg.Sync.UsePathStyle,
		DocumentRoot:    cfg.Sync.DocumentRoot,
	}, log)
	if err != nil {
		log.Error("Failed to initialize content mirror", err)
		os.Exit(1)
	}

	marker := syncmarker.NewFileMarker(cfg.Sync.MarkerPath)
	syncContentUC := usecase.NewSyncContentUseCase(mirror, marker, log)

	// 4. Однократный прогон для cron/systemd timer
	if len(os.Args) > 1 && os.Args[1] == "once" {
		if _, err := syncContentUC.Execute(context.Background()); err != nil {
			log.Error("Content sync failed", err)
			os.Exit(1)
		}
		return
	}

	// 5. Периодическая синхронизация

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		ticker := time.NewTicker(cfg.Sync.Interval)
		defer ticker.Stop()

		log.Info("Content sync started",
			"interval", cfg.Sync.Interval.String(),
			"bucket", cfg.Sync.Bucket,
			"document_root", cfg.Sync.DocumentRoot)

		// Первый прогон сразу, не дожидаясь тика
		if _, err := syncContentUC.Execute(ctx); err != nil {
			log.Error("Content sync failed", err)
		}

		for {
			select {
			case <-ticker.C:
				if _, err := syncContentUC.Execute(ctx); err != nil {
					log.Error("Content sync failed", err)
				}
			case <-ctx.Done():
				log.Info("Content sync stopped")
				return
			}
		}
	}()

	<-sigChan
	log.Info("Shutdown signal received, stopping content sync...")
	cancel()

	log.Info("Content sync stopped gracefully")
}
