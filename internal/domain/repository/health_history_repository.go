package repository

import (
	"context"

	"github.com/dreschagin/fleet-status/internal/domain/entity"
	"github.com/dreschagin/fleet-status/internal/domain/valueobject"
)

// HealthHistoryRepository определяет интерфейс для работы с историей опросов (Port)
// Реализация будет в Infrastructure слое
type HealthHistoryRepository interface {
	// Save сохраняет одну запись истории
	Save(ctx context.Context, record *entity.HealthRecord) error

	// SaveBatch сохраняет несколько записей одной транзакцией
	SaveBatch(ctx context.Context, records []*entity.HealthRecord) error

	// FindByNode находит записи узла с ограничением количества
	FindByNode(ctx context.Context, nodeID string, limit int) ([]*entity.HealthRecord, error)

	// FindByTimeRange находит записи узла за временной диапазон
	FindByTimeRange(ctx context.Context, nodeID string, timeRange valueobject.TimeRange) ([]*entity.HealthRecord, error)

	// FindLatest находит последнюю запись каждого узла
	FindLatest(ctx context.Context) (map[string]*entity.HealthRecord, error)

	// DeleteOlderThan удаляет записи старше начала диапазона
	DeleteOlderThan(ctx context.Context, timeRange valueobject.TimeRange) error
}
