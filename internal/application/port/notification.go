package port

import (
	"github.com/dreschagin/fleet-status/internal/application/dto"
)

// NotificationService определяет интерфейс push-уведомлений клиентам (Port)
// Реализация будет в Infrastructure слое (WebSocket)
type NotificationService interface {
	// BroadcastFleetView отправляет обновленное состояние флота всем клиентам
	BroadcastFleetView(view *dto.FleetViewDTO)

	// BroadcastAlert отправляет уведомление о смене статуса узла
	BroadcastAlert(alert *dto.AlertDTO)

	// ClientCount возвращает количество подключенных клиентов
	ClientCount() int
}
