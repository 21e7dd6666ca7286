package postgres

import (
	"database/sql"
	"time"

	"github.com/dreschagin/fleet-status/internal/domain/entity"
	"github.com/dreschagin/fleet-status/internal/domain/valueobject"
)

// HealthRecordDBModel представляет запись истории в БД
type HealthRecordDBModel struct {
	ID                string
	NodeID            string
	Status            string
	SyncAgeSeconds    sql.NullFloat64
	MemoryUsedPercent float64
	CollectedAt       time.Time
	CreatedAt         time.Time
}

// ToDBModel конвертирует Domain Entity в DB Model
func ToDBModel(record *entity.HealthRecord) *HealthRecordDBModel {
	model := &HealthRecordDBModel{
		ID:                record.ID(),
		NodeID:            record.NodeID(),
		Status:            record.Status().String(),
		MemoryUsedPercent: record.MemoryUsedPercent(),
		CollectedAt:       record.CollectedAt(),
		CreatedAt:         record.CreatedAt(),
	}

	// Неизвестный возраст синхронизации хранится как NULL, не как 0
	if age := record.SyncAgeSeconds(); age != nil {
		model.SyncAgeSeconds = sql.NullFloat64{Float64: *age, Valid: true}
	}

	return model
}

// ToEntity конвертирует DB Model в Domain Entity
func ToEntity(model *HealthRecordDBModel) *entity.HealthRecord {
	var syncAge *float64
	if model.SyncAgeSeconds.Valid {
		value := model.SyncAgeSeconds.Float64
		syncAge = &value
	}

	return entity.Reconstruct(
		model.ID,
		model.NodeID,
		valueobject.ParseHealthStatus(model.Status),
		syncAge,
		model.MemoryUsedPercent,
		model.CollectedAt,
		model.CreatedAt,
	)
}

// ScanHealthRecordRow сканирует строку БД в HealthRecordDBModel
func ScanHealthRecordRow(row interface {
	Scan(dest ...interface{}) error
}) (*HealthRecordDBModel, error) {
	var model HealthRecordDBModel

	err := row.Scan(
		&model.ID,
		&model.NodeID,
		&model.Status,
		&model.SyncAgeSeconds,
		&model.MemoryUsedPercent,
		&model.CollectedAt,
		&model.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &model, nil
}
