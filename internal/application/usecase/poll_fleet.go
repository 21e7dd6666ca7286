package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dreschagin/fleet-status/internal/application/dto"
	"github.com/dreschagin/fleet-status/internal/application/port"
	"github.com/dreschagin/fleet-status/internal/application/viewstate"
	"github.com/dreschagin/fleet-status/internal/domain/entity"
	"github.com/dreschagin/fleet-status/internal/domain/repository"
	"github.com/dreschagin/fleet-status/internal/domain/valueobject"
	"github.com/dreschagin/fleet-status/pkg/logger"
)

// PollFleetUseCase выполняет один цикл опроса всех узлов флота
// и публикует результат целиком: хранилище состояния, WebSocket
// рассылка и история. Узлы опрашиваются параллельно.
type PollFleetUseCase struct {
	client   port.NodeClient
	nodes    []port.Node
	store    *viewstate.Store
	history  repository.HealthHistoryRepository
	notifier port.NotificationService
	logger   *logger.Logger

	// previous хранит статусы прошлого цикла для alert'ов о переходах
	mu       sync.Mutex
	previous map[string]valueobject.HealthStatus
}

// NewPollFleetUseCase создает новый use case.
// history и notifier опциональны (nil отключает интеграцию).
func NewPollFleetUseCase(
	client port.NodeClient,
	nodes []port.Node,
	store *viewstate.Store,
	history repository.HealthHistoryRepository,
	notifier port.NotificationService,
	logger *logger.Logger,
) *PollFleetUseCase {
	return &PollFleetUseCase{
		client:   client,
		nodes:    nodes,
		store:    store,
		history:  history,
		notifier: notifier,
		logger:   logger,
		previous: make(map[string]valueobject.HealthStatus),
	}
}

// Execute опрашивает все узлы и замещает состояние флота
func (uc *PollFleetUseCase) Execute(ctx context.Context) (*dto.FleetViewDTO, error) {
	if len(uc.nodes) == 0 {
		return nil, fmt.Errorf("no nodes configured")
	}

	now := time.Now()
	nodeViews := make([]*dto.NodeViewDTO, len(uc.nodes))

	// Опрашиваем узлы параллельно: один медленный узел
	// не должен задерживать отображение остальных
	var wg sync.WaitGroup
	for i, node := range uc.nodes {
		wg.Add(1)
		go func(i int, node port.Node) {
			defer wg.Done()
			nodeViews[i] = uc.pollNode(ctx, node, now)
		}(i, node)
	}
	wg.Wait()

	view := dto.NewFleetViewDTO(nodeViews, uc.store.RefreshCount(), now)
	uc.store.Replace(view)

	uc.emitAlerts(nodeViews, now)
	uc.saveHistory(ctx, nodeViews)

	if uc.notifier != nil {
		uc.notifier.BroadcastFleetView(view)
		uc.logger.Debug("Fleet view broadcasted", "client_count", uc.notifier.ClientCount())
	}

	uc.logger.Debug("Fleet poll cycle finished",
		"nodes", view.Summary.Total,
		"healthy", view.Summary.Healthy)

	return view, nil
}

// pollNode опрашивает один узел. Результат всегда отображаем:
// цепочка деградации client'а гарантирует ненулевой snapshot.
func (uc *PollFleetUseCase) pollNode(ctx context.Context, node port.Node, now time.Time) *dto.NodeViewDTO {
	result := uc.client.FetchHealth(ctx, node)

	if result.Err != "" {
		uc.logger.Warn("Node poll degraded", "node", node.Name, "error", result.Err)
	}

	// Метрики — best effort: их отсутствие не влияет на статус
	metrics, err := uc.client.FetchMetrics(ctx, node)
	if err != nil {
		uc.logger.Debug("Node metrics unavailable", "node", node.Name, "error", err.Error())
	}

	return dto.NewNodeViewDTO(node.Name, result.Snapshot, metrics, result.FellBack, result.Err, now)
}

// emitAlerts отправляет уведомления о переходах статуса узлов
func (uc *PollFleetUseCase) emitAlerts(nodeViews []*dto.NodeViewDTO, now time.Time) {
	if uc.notifier == nil {
		return
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	for _, node := range nodeViews {
		status := valueobject.ParseHealthStatus(node.Snapshot.Status.String())
		prev, seen := uc.previous[node.Name]
		uc.previous[node.Name] = status

		if !seen || prev == status {
			continue
		}

		level := "info"
		if status != valueobject.StatusHealthy {
			level = "warning"
		}

		uc.notifier.BroadcastAlert(&dto.AlertDTO{
			Level:     level,
			NodeName:  node.Name,
			Message:   fmt.Sprintf("node %s changed from %s to %s", node.Name, prev, status),
			Timestamp: now,
		})
	}
}

// saveHistory сохраняет точку истории для каждого узла (best effort)
func (uc *PollFleetUseCase) saveHistory(ctx context.Context, nodeViews []*dto.NodeViewDTO) {
	if uc.history == nil {
		return
	}

	records := make([]*entity.HealthRecord, 0, len(nodeViews))
	for _, node := range nodeViews {
		record, err := entity.NewHealthRecord(node.Name, node.Snapshot)
		if err != nil {
			uc.logger.Warn("Skipping invalid history record", "node", node.Name, "error", err.Error())
			continue
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return
	}

	if err := uc.history.SaveBatch(ctx, records); err != nil {
		uc.logger.Warn("Failed to save poll history", "error", err.Error())
	}
}
