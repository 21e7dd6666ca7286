package port

import (
	"context"

	"github.com/dreschagin/fleet-status/internal/domain/entity"
)

// SnapshotWriter публикует snapshot для внешних потребителей (Port)
// Реализация — атомарная перезапись файла на локальном диске
type SnapshotWriter interface {
	// Write полностью перезаписывает предыдущий snapshot
	Write(ctx context.Context, snapshot *entity.HealthSnapshot) error
}
