package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dreschagin/fleet-status/internal/application/port"
	"github.com/dreschagin/fleet-status/pkg/logger"
)

// SyncContentUseCase выполняет один проход синхронизации контента:
// зеркалирует объекты из object storage в document root и при успехе
// обновляет marker файл, по которому health reporter считает возраст.
type SyncContentUseCase struct {
	mirror port.ContentMirror
	marker port.SyncMarkerWriter
	logger *logger.Logger
}

// NewSyncContentUseCase создает новый use case
func NewSyncContentUseCase(mirror port.ContentMirror, marker port.SyncMarkerWriter, logger *logger.Logger) *SyncContentUseCase {
	return &SyncContentUseCase{
		mirror: mirror,
		marker: marker,
		logger: logger,
	}
}

// Execute выполняет один проход синхронизации.
// Marker обновляется только после полностью успешного прохода:
// частичный отказ оставляет старую отметку, и возраст продолжает расти.
func (uc *SyncContentUseCase) Execute(ctx context.Context) (port.MirrorStats, error) {
	started := time.Now()

	stats, err := uc.mirror.Mirror(ctx)
	if err != nil {
		uc.logger.Error("Content mirror pass failed", err)
		return stats, fmt.Errorf("content mirror pass failed: %w", err)
	}

	if err := uc.marker.WriteMarker(ctx, time.Now()); err != nil {
		uc.logger.Error("Failed to update sync marker", err)
		return stats, fmt.Errorf("failed to update sync marker: %w", err)
	}

	uc.logger.Info("Content sync pass finished",
		"downloaded", stats.Downloaded,
		"skipped", stats.Skipped,
		"bytes", stats.Bytes,
		"duration", time.Since(started).String())

	return stats, nil
}
