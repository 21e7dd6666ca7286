package websocket

import (
	"sync"

	"github.com/dreschagin/fleet-status/internal/application/dto"
	"github.com/dreschagin/fleet-status/pkg/logger"
)

// Hub управляет WebSocket клиентами и рассылает им состояние флота
// Реализует интерфейс port.NotificationService
type Hub struct {
	// Зарегистрированные клиенты
	clients map[*Client]bool

	// Канал для broadcast состояния флота
	broadcast chan *dto.FleetViewDTO

	// Канал для broadcast alerts
	broadcastAlert chan *dto.AlertDTO

	// Канал для регистрации клиентов
	register chan *Client

	// Канал для удаления клиентов
	unregister chan *Client

	// Mutex для защиты clients map
	mu sync.RWMutex

	// Последнее разосланное состояние для новых клиентов
	lastView *dto.FleetViewDTO

	logger *logger.Logger
}

// NewHub создает новый WebSocket hub
func NewHub(logger *logger.Logger) *Hub {
	return &Hub{
		clients:        make(map[*Client]bool),
		broadcast:      make(chan *dto.FleetViewDTO, 256),
		broadcastAlert: make(chan *dto.AlertDTO, 256),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		logger:         logger,
	}
}

// Run запускает hub (должен быть запущен в отдельной goroutine)
func (h *Hub) Run() {
	h.logger.Info("WebSocket hub started")

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			last := h.lastView
			h.mu.Unlock()
			h.logger.Debug("Client registered", "total_clients", h.ClientCount())

			// Новый клиент сразу получает текущее состояние,
			// не дожидаясь следующего цикла опроса
			if last != nil {
				select {
				case client.send <- Message{Type: "fleet", Data: last}:
				default:
				}
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Debug("Client unregistered", "total_clients", h.ClientCount())

		case view := <-h.broadcast:
			h.mu.Lock()
			h.lastView = view
			for client := range h.clients {
				select {
				case client.send <- Message{Type: "fleet", Data: view}:
					// Сообщение отправлено
				default:
					// Канал клиента заполнен, закрываем соединение
					close(client.send)
					delete(h.clients, client)
					h.logger.Warn("Client channel full, disconnected")
				}
			}
			h.mu.Unlock()

		case alert := <-h.broadcastAlert:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- Message{Type: "alert", Data: alert}:
					// Alert отправлен
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
			h.logger.Debug("Alert broadcasted to clients", "node", alert.NodeName, "level", alert.Level)
		}
	}
}

// Register регистрирует нового клиента
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister удаляет клиента
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// BroadcastFleetView отправляет состояние флота всем клиентам (реализация port.NotificationService)
func (h *Hub) BroadcastFleetView(view *dto.FleetViewDTO) {
	select {
	case h.broadcast <- view:
		// Состояние отправлено в канал
	default:
		h.logger.Warn("Broadcast channel full, dropping fleet view")
	}
}

// BroadcastAlert отправляет alert всем клиентам (реализация port.NotificationService)
func (h *Hub) BroadcastAlert(alert *dto.AlertDTO) {
	select {
	case h.broadcastAlert <- alert:
		// Alert отправлен в канал
	default:
		h.logger.Warn("Broadcast alert channel full, dropping alert")
	}
}

// ClientCount возвращает количество подключенных клиентов (реализация port.NotificationService)
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Message представляет сообщение для отправки клиенту
type Message struct {
	Type string      `json:"type"` // "fleet" или "alert"
	Data interface{} `json:"data"`
}
