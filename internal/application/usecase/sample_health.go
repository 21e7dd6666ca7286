package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dreschagin/fleet-status/internal/application/dto"
	"github.com/dreschagin/fleet-status/internal/application/port"
	"github.com/dreschagin/fleet-status/internal/domain/entity"
	"github.com/dreschagin/fleet-status/internal/domain/valueobject"
	"github.com/dreschagin/fleet-status/pkg/logger"
)

// SampleHealthUseCase координирует один цикл сэмплирования здоровья узла:
// identity, проверка web-сервера, возраст синхронизации, системные метрики,
// затем эмиссия snapshot'а. Отказ любой отдельной проверки деградирует
// свое поле, но никогда не блокирует эмиссию документа целиком.
type SampleHealthUseCase struct {
	identity   port.IdentityProvider
	prober     port.WebServerProber
	syncMarker port.SyncMarkerReader
	collector  port.SystemCollector
	writer     port.SnapshotWriter
	registry   port.FleetRegistry
	metrics    port.MetricsPublisher
	events     port.EventPublisher
	logger     *logger.Logger

	// lastStatus хранит статус предыдущего цикла для детекции переходов.
	// Execute вызывается одной goroutine'ой, синхронизация не нужна.
	lastStatus valueobject.HealthStatus

	// Последний snapshot и метрики читаются HTTP handler'ами конкурентно
	mu           sync.RWMutex
	lastSnapshot *entity.HealthSnapshot
	lastMetrics  *dto.NodeMetricsDTO
}

// NewSampleHealthUseCase создает новый use case.
// registry, metrics и events опциональны (nil отключает интеграцию).
func NewSampleHealthUseCase(
	identity port.IdentityProvider,
	prober port.WebServerProber,
	syncMarker port.SyncMarkerReader,
	collector port.SystemCollector,
	writer port.SnapshotWriter,
	registry port.FleetRegistry,
	metrics port.MetricsPublisher,
	events port.EventPublisher,
	logger *logger.Logger,
) *SampleHealthUseCase {
	return &SampleHealthUseCase{
		identity:   identity,
		prober:     prober,
		syncMarker: syncMarker,
		collector:  collector,
		writer:     writer,
		registry:   registry,
		metrics:    metrics,
		events:     events,
		logger:     logger,
		lastStatus: valueobject.StatusUnknown,
	}
}

// Execute выполняет один цикл сэмплирования
func (uc *SampleHealthUseCase) Execute(ctx context.Context) (*entity.HealthSnapshot, error) {
	now := time.Now()
	snapshot := entity.NewHealthSnapshot(now)

	// 1. Identity инстанса. Отказ metadata service оставляет "unknown"
	identity, err := uc.identity.FetchIdentity(ctx)
	if err != nil {
		uc.logger.Warn("Instance identity degraded", "error", err.Error())
	}
	snapshot.Instance = identity

	// 2. Проверка web-сервера. Единственная проверка, определяющая общий статус
	webServer, err := uc.prober.Probe(ctx)
	if err != nil {
		uc.logger.Warn("Web server probe failed", "error", err.Error())
	}
	snapshot.Services.WebServer = webServer
	snapshot.Status = deriveOverallStatus(webServer)

	// 3. Возраст синхронизации контента. Не влияет на общий статус:
	// устаревший контент отображается отдельным индикатором свежести
	uc.sampleSyncAge(ctx, snapshot, now)

	// 4. Системные метрики. Collector деградирует поля самостоятельно
	system, err := uc.collector.Collect(ctx)
	if err != nil {
		uc.logger.Warn("System metrics partially degraded", "error", err.Error())
	}
	snapshot.System = system

	uc.mu.Lock()
	uc.lastSnapshot = snapshot
	uc.lastMetrics = dto.NewNodeMetricsDTO(identity, system, now)
	uc.mu.Unlock()

	// 5. Эмиссия snapshot'а — единственный фатальный шаг цикла
	if err := uc.writer.Write(ctx, snapshot); err != nil {
		uc.logger.Error("Failed to write health snapshot", err)
		return snapshot, fmt.Errorf("failed to write health snapshot: %w", err)
	}

	// 6. Best-effort интеграции: registry, метрики, события
	uc.publishSideEffects(ctx, snapshot, now)

	uc.logger.Debug("Health snapshot emitted",
		"status", snapshot.Status.String(),
		"instance", snapshot.Instance.ID)

	return snapshot, nil
}

// Latest возвращает snapshot последнего успешного цикла.
// До первого цикла возвращает (nil, false)
func (uc *SampleHealthUseCase) Latest() (*entity.HealthSnapshot, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.lastSnapshot, uc.lastSnapshot != nil
}

// LatestMetrics возвращает метрики последнего цикла
func (uc *SampleHealthUseCase) LatestMetrics() (*dto.NodeMetricsDTO, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.lastMetrics, uc.lastMetrics != nil
}

// sampleSyncAge заполняет блок content_sync snapshot'а
func (uc *SampleHealthUseCase) sampleSyncAge(ctx context.Context, snapshot *entity.HealthSnapshot, now time.Time) {
	lastSync, err := uc.syncMarker.LastSync(ctx)
	if err != nil {
		if !errors.Is(err, port.ErrSyncMarkerUnavailable) {
			uc.logger.Warn("Sync marker read failed", "error", err.Error())
		}
		snapshot.Services.ContentSync = &entity.ContentSyncStatus{Status: "unknown"}
		return
	}

	age := now.Sub(lastSync).Seconds()
	if age < 0 {
		age = 0
	}

	snapshot.Services.ContentSync = &entity.ContentSyncStatus{
		Status:               "ok",
		LastSync:             lastSync.UTC().Format(time.RFC3339),
		SecondsSinceLastSync: &age,
	}
}

// publishSideEffects отправляет snapshot во внешние системы.
// Все отказы здесь только логируются
func (uc *SampleHealthUseCase) publishSideEffects(ctx context.Context, snapshot *entity.HealthSnapshot, now time.Time) {
	if uc.registry != nil {
		if err := uc.registry.PutSnapshot(ctx, snapshot); err != nil {
			uc.logger.Warn("Failed to register snapshot in fleet registry", "error", err.Error())
		}
	}

	if uc.metrics != nil {
		if err := uc.metrics.PublishBatch(ctx, uc.buildMetricPoints(snapshot, now)); err != nil {
			uc.logger.Warn("Failed to publish health metrics", "error", err.Error())
		}
	}

	if uc.events != nil && snapshot.Status != uc.lastStatus {
		event := dto.NewStatusChangeEventDTO(
			snapshot.Instance.ID,
			uc.lastStatus.String(),
			snapshot.Status.String(),
			now,
		)
		if err := uc.events.PublishStatusChange(ctx, event); err != nil {
			uc.logger.Warn("Failed to publish status change event", "error", err.Error())
		} else {
			uc.logger.Info("Node status changed",
				"from", uc.lastStatus.String(),
				"to", snapshot.Status.String())
		}
	}
	uc.lastStatus = snapshot.Status
}

// buildMetricPoints конвертирует snapshot в datapoints для metrics backend'а
func (uc *SampleHealthUseCase) buildMetricPoints(snapshot *entity.HealthSnapshot, now time.Time) []port.MetricPoint {
	dimensions := map[string]string{"InstanceId": snapshot.Instance.ID}

	healthValue := 0.0
	if snapshot.Status == valueobject.StatusHealthy {
		healthValue = 1.0
	}

	points := []port.MetricPoint{
		{
			Name:       "NodeHealthy",
			Value:      healthValue,
			Unit:       "Count",
			Timestamp:  now,
			Dimensions: dimensions,
		},
		{
			Name:       "MemoryUsedPercent",
			Value:      snapshot.System.MemoryUsedPercent,
			Unit:       "Percent",
			Timestamp:  now,
			Dimensions: dimensions,
		},
	}

	if age := snapshot.SyncAgeSeconds(); age != nil {
		points = append(points, port.MetricPoint{
			Name:       "ContentSyncAge",
			Value:      *age,
			Unit:       "Seconds",
			Timestamp:  now,
			Dimensions: dimensions,
		})
	}

	return points
}

// deriveOverallStatus мапит состояние web-сервера в общий статус узла
func deriveOverallStatus(webServer *entity.WebServerStatus) valueobject.HealthStatus {
	if webServer == nil {
		return valueobject.StatusUnknown
	}

	switch webServer.Status {
	case "active":
		if webServer.Responding {
			return valueobject.StatusHealthy
		}
		return valueobject.StatusDegraded
	case "unknown":
		return valueobject.StatusUnknown
	default:
		return valueobject.StatusUnhealthy
	}
}
