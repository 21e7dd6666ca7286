package entity

import (
	"errors"
	"time"

	"github.com/dreschagin/fleet-status/internal/domain/valueobject"
	"github.com/google/uuid"
)

// HealthRecord представляет одну точку истории опроса узла (Aggregate Root)
// Сохраняется dashboard'ом после каждого успешного цикла опроса
type HealthRecord struct {
	id                string
	nodeID            string
	status            valueobject.HealthStatus
	syncAgeSeconds    *float64
	memoryUsedPercent float64
	collectedAt       time.Time
	createdAt         time.Time
}

// NewHealthRecord создает запись истории из snapshot'а узла (Factory Method)
func NewHealthRecord(nodeID string, snapshot *HealthSnapshot) (*HealthRecord, error) {
	if nodeID == "" {
		return nil, errors.New("node id cannot be empty")
	}
	if snapshot == nil {
		return nil, errors.New("snapshot cannot be nil")
	}

	now := time.Now()
	collectedAt := snapshot.SampledAt()
	if collectedAt.IsZero() {
		collectedAt = now
	}

	return &HealthRecord{
		id:                uuid.New().String(),
		nodeID:            nodeID,
		status:            snapshot.Status,
		syncAgeSeconds:    snapshot.SyncAgeSeconds(),
		memoryUsedPercent: snapshot.System.MemoryUsedPercent,
		collectedAt:       collectedAt,
		createdAt:         now,
	}, nil
}

// Reconstruct восстанавливает запись из хранилища (для Repository)
func Reconstruct(
	id string,
	nodeID string,
	status valueobject.HealthStatus,
	syncAgeSeconds *float64,
	memoryUsedPercent float64,
	collectedAt, createdAt time.Time,
) *HealthRecord {
	return &HealthRecord{
		id:                id,
		nodeID:            nodeID,
		status:            status,
		syncAgeSeconds:    syncAgeSeconds,
		memoryUsedPercent: memoryUsedPercent,
		collectedAt:       collectedAt,
		createdAt:         createdAt,
	}
}

// ID возвращает идентификатор записи
func (r *HealthRecord) ID() string {
	return r.id
}

// NodeID возвращает идентификатор узла
func (r *HealthRecord) NodeID() string {
	return r.nodeID
}

// Status возвращает статус узла на момент опроса
func (r *HealthRecord) Status() valueobject.HealthStatus {
	return r.status
}

// SyncAgeSeconds возвращает возраст синхронизации на момент опроса (nil = неизвестен)
func (r *HealthRecord) SyncAgeSeconds() *float64 {
	return r.syncAgeSeconds
}

// MemoryUsedPercent возвращает процент использования памяти
func (r *HealthRecord) MemoryUsedPercent() float64 {
	return r.memoryUsedPercent
}

// CollectedAt возвращает время сэмплирования на узле
func (r *HealthRecord) CollectedAt() time.Time {
	return r.collectedAt
}

// CreatedAt возвращает время сохранения записи
func (r *HealthRecord) CreatedAt() time.Time {
	return r.createdAt
}

// IsStale проверяет, устарела ли запись
func (r *HealthRecord) IsStale(threshold time.Duration) bool {
	return time.Since(r.collectedAt) > threshold
}

// IsHealthy проверяет, был ли узел здоров на момент опроса
func (r *HealthRecord) IsHealthy() bool {
	return r.status == valueobject.StatusHealthy
}
