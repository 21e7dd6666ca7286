package port

import (
	"context"

	"github.com/dreschagin/fleet-status/internal/domain/entity"
)

// FleetRegistry хранит последний snapshot каждого инстанса флота (Port)
// Реализация будет в Infrastructure слое (DynamoDB)
type FleetRegistry interface {
	// PutSnapshot перезаписывает последний snapshot инстанса
	PutSnapshot(ctx context.Context, snapshot *entity.HealthSnapshot) error

	// ListSnapshots возвращает последние snapshot'ы всех инстансов
	ListSnapshots(ctx context.Context) ([]*entity.HealthSnapshot, error)
}
