package service

import (
	"errors"
	"sort"

	"github.com/dreschagin/fleet-status/internal/domain/entity"
	"github.com/dreschagin/fleet-status/internal/domain/valueobject"
)

// HistoryAggregator предоставляет сервисы агрегации истории опросов (Domain Service)
type HistoryAggregator struct{}

// NewHistoryAggregator создает новый HistoryAggregator
func NewHistoryAggregator() *HistoryAggregator {
	return &HistoryAggregator{}
}

// SortByTime сортирует записи по времени сэмплирования.
// descending=false дает порядок по возрастанию (для графиков).
func (a *HistoryAggregator) SortByTime(records []*entity.HealthRecord, descending bool) []*entity.HealthRecord {
	sorted := append([]*entity.HealthRecord(nil), records...)

	sort.Slice(sorted, func(i, j int) bool {
		if descending {
			return sorted[i].CollectedAt().After(sorted[j].CollectedAt())
		}
		return sorted[i].CollectedAt().Before(sorted[j].CollectedAt())
	})

	return sorted
}

// Availability вычисляет долю здоровых записей в процентах
func (a *HistoryAggregator) Availability(records []*entity.HealthRecord) (float64, error) {
	if len(records) == 0 {
		return 0, errors.New("no records to aggregate")
	}

	healthy := 0
	for _, record := range records {
		if record.IsHealthy() {
			healthy++
		}
	}

	return 100 * float64(healthy) / float64(len(records)), nil
}

// CountByStatus группирует записи по статусу
func (a *HistoryAggregator) CountByStatus(records []*entity.HealthRecord) map[valueobject.HealthStatus]int {
	counts := make(map[valueobject.HealthStatus]int)
	for _, record := range records {
		counts[record.Status()]++
	}
	return counts
}

// MaxSyncAge возвращает максимальный известный возраст синхронизации.
// Записи с неизвестным возрастом не участвуют в агрегации.
func (a *HistoryAggregator) MaxSyncAge(records []*entity.HealthRecord) (float64, bool) {
	max := 0.0
	found := false

	for _, record := range records {
		age := record.SyncAgeSeconds()
		if age == nil {
			continue
		}
		if !found || *age > max {
			max = *age
			found = true
		}
	}

	return max, found
}
