package port

import (
	"context"

	"github.com/dreschagin/fleet-status/internal/application/dto"
	"github.com/dreschagin/fleet-status/internal/domain/entity"
)

// Node описывает опрашиваемый узел флота
type Node struct {
	Name    string
	BaseURL string
}

// HealthFetchResult — результат опроса одного узла.
// Snapshot никогда не nil: при деградации он строится из
// fallback-ответа или заполняется как ошибочный.
type HealthFetchResult struct {
	Snapshot *entity.HealthSnapshot
	// FellBack — true, если детальный endpoint не ответил
	// и статус получен через упрощенный /health
	FellBack bool
	// Err — текст ошибки опроса для отображения, пустая строка при успехе
	Err string
}

// NodeClient определяет интерфейс опроса health reporter'ов узлов (Port)
// Реализация будет в Infrastructure слое (HTTP)
type NodeClient interface {
	// FetchHealth опрашивает узел с цепочкой деградации:
	// детальный endpoint, затем упрощенный, затем ошибочный snapshot
	FetchHealth(ctx context.Context, node Node) HealthFetchResult

	// FetchMetrics запрашивает метрики узла. Отказ не деградирует
	// отображение статуса — метрики просто отсутствуют
	FetchMetrics(ctx context.Context, node Node) (*dto.NodeMetricsDTO, error)
}
