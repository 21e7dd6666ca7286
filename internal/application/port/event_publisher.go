package port

import (
	"context"

	"github.com/dreschagin/fleet-status/internal/application/dto"
)

// EventPublisher определяет интерфейс публикации событий смены статуса (Port)
// Реализация будет в Infrastructure слое (NATS)
type EventPublisher interface {
	// PublishStatusChange публикует событие перехода статуса узла
	PublishStatusChange(ctx context.Context, event *dto.StatusChangeEventDTO) error

	// Close закрывает соединение с брокером
	Close() error
}
