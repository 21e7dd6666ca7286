package usecase

import (
	"context"
	"fmt"

	"github.com/dreschagin/fleet-status/internal/application/dto"
	"github.com/dreschagin/fleet-status/internal/application/port"
	"github.com/dreschagin/fleet-status/internal/domain/repository"
	"github.com/dreschagin/fleet-status/internal/domain/service"
	"github.com/dreschagin/fleet-status/internal/domain/valueobject"
	"github.com/dreschagin/fleet-status/pkg/logger"
)

// GetHealthHistoryCachedUseCase возвращает историю опросов узла с кешированием
type GetHealthHistoryCachedUseCase struct {
	repository repository.HealthHistoryRepository
	aggregator *service.HistoryAggregator
	cache      port.Cache
	logger     *logger.Logger
}

// NewGetHealthHistoryCachedUseCase создает новый use case с кешированием
func NewGetHealthHistoryCachedUseCase(
	repository repository.HealthHistoryRepository,
	aggregator *service.HistoryAggregator,
	cache port.Cache,
	logger *logger.Logger,
) *GetHealthHistoryCachedUseCase {
	return &GetHealthHistoryCachedUseCase{
		repository: repository,
		aggregator: aggregator,
		cache:      cache,
		logger:     logger,
	}
}

// Execute возвращает историю узла за временной диапазон с кешированием
func (uc *GetHealthHistoryCachedUseCase) Execute(
	ctx context.Context,
	nodeID string,
	timeRange valueobject.TimeRange,
) (*dto.HistoryResponseDTO, error) {
	if nodeID == "" {
		return nil, fmt.Errorf("node id cannot be empty")
	}

	// Если кеш не настроен, используем стандартный путь
	if uc.cache == nil {
		return uc.executeWithoutCache(ctx, nodeID, timeRange)
	}

	duration := timeRange.End().Sub(timeRange.Start()).String()
	cacheKey := fmt.Sprintf("health:history:%s:%s", nodeID, duration)

	// Пытаемся получить из кеша
	var cached *dto.HistoryResponseDTO
	if err := uc.cache.Get(ctx, cacheKey, &cached); err == nil && cached != nil {
		uc.logger.Debug("Cache hit for node history", "node", nodeID, "points", len(cached.Points))
		return cached, nil
	}

	uc.logger.Debug("Cache miss for node history, fetching from DB", "node", nodeID)

	response, err := uc.executeWithoutCache(ctx, nodeID, timeRange)
	if err != nil {
		return nil, err
	}

	// Сохраняем в кеш (асинхронно, не блокируем ответ)
	go func() {
		if err := uc.cache.Set(context.Background(), cacheKey, response); err != nil {
			uc.logger.Warn("Failed to cache node history", "error", err.Error())
		}
	}()

	return response, nil
}

// executeWithoutCache получает историю без кеширования
func (uc *GetHealthHistoryCachedUseCase) executeWithoutCache(
	ctx context.Context,
	nodeID string,
	timeRange valueobject.TimeRange,
) (*dto.HistoryResponseDTO, error) {
	records, err := uc.repository.FindByTimeRange(ctx, nodeID, timeRange)
	if err != nil {
		uc.logger.Error("Failed to fetch node history", err)
		return nil, fmt.Errorf("failed to fetch node history: %w", err)
	}

	uc.logger.Debug("Fetched node history", "node", nodeID, "count", len(records))

	// Доступность считается до сортировки, порядок не важен
	availability := 0.0
	if len(records) > 0 {
		availability, _ = uc.aggregator.Availability(records)
	}

	// Сортируем по времени (по возрастанию для графиков)
	sorted := uc.aggregator.SortByTime(records, false)

	return dto.NewHistoryResponseDTO(nodeID, timeRange.Start(), timeRange.End(), availability, sorted), nil
}
