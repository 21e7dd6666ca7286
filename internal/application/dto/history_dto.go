package dto

import (
	"time"

	"github.com/dreschagin/fleet-status/internal/domain/entity"
)

// HistoryPointDTO — одна точка истории здоровья узла
type HistoryPointDTO struct {
	Status            string   `json:"status"`
	SyncAgeSeconds    *float64 `json:"sync_age_seconds"`
	MemoryUsedPercent float64  `json:"memory_used_percent"`
	CollectedAt       string   `json:"collected_at"`
}

// HistoryResponseDTO — ответ endpoint'а истории по одному узлу
type HistoryResponseDTO struct {
	NodeID       string            `json:"node_id"`
	From         string            `json:"from"`
	To           string            `json:"to"`
	Availability float64           `json:"availability"`
	Points       []HistoryPointDTO `json:"points"`
}

// NewHistoryResponseDTO создает ответ истории из записей репозитория
func NewHistoryResponseDTO(nodeID string, from, to time.Time, availability float64, records []*entity.HealthRecord) *HistoryResponseDTO {
	points := make([]HistoryPointDTO, 0, len(records))
	for _, record := range records {
		points = append(points, HistoryPointDTO{
			Status:            string(record.Status()),
			SyncAgeSeconds:    record.SyncAgeSeconds(),
			MemoryUsedPercent: record.MemoryUsedPercent(),
			CollectedAt:       record.CollectedAt().UTC().Format(time.RFC3339),
		})
	}

	return &HistoryResponseDTO{
		NodeID:       nodeID,
		From:         from.UTC().Format(time.RFC3339),
		To:           to.UTC().Format(time.RFC3339),
		Availability: availability,
		Points:       points,
	}
}
