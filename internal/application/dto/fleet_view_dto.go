package dto

import (
	"time"

	"github.com/dreschagin/fleet-status/internal/domain/entity"
	"github.com/dreschagin/fleet-status/internal/domain/valueobject"
)

// NodeViewDTO — состояние одного узла, подготовленное для отображения.
// Все классификации (цвет, свежесть) вычислены на сервере,
// чтобы клиенту оставалось только отрисовать их.
type NodeViewDTO struct {
	Name         string                    `json:"name"`
	Snapshot     *entity.HealthSnapshot    `json:"snapshot"`
	Metrics      *NodeMetricsDTO           `json:"metrics,omitempty"`
	StatusColor  valueobject.StatusColor   `json:"status_color"`
	SyncTier     valueobject.FreshnessTier `json:"sync_tier"`
	SyncColor    valueobject.StatusColor   `json:"sync_color"`
	SyncAgeHuman string                    `json:"sync_age_human"`
	FellBack     bool                      `json:"fell_back"`
	FetchError   string                    `json:"fetch_error,omitempty"`
	FetchedAt    time.Time                 `json:"fetched_at"`
}

// NewNodeViewDTO создает DTO узла, вычисляя классификации из snapshot'а
func NewNodeViewDTO(name string, snapshot *entity.HealthSnapshot, metrics *NodeMetricsDTO, fellBack bool, fetchErr string, fetchedAt time.Time) *NodeViewDTO {
	syncAge := snapshot.SyncAgeSeconds()
	tier := valueobject.ClassifyFreshness(syncAge)

	return &NodeViewDTO{
		Name:         name,
		Snapshot:     snapshot,
		Metrics:      metrics,
		StatusColor:  snapshot.Status.Color(),
		SyncTier:     tier,
		SyncColor:    tier.Color(),
		SyncAgeHuman: valueobject.HumanizeAge(syncAge),
		FellBack:     fellBack,
		FetchError:   fetchErr,
		FetchedAt:    fetchedAt,
	}
}

// FleetSummaryDTO — агрегированные счетчики по флоту
type FleetSummaryDTO struct {
	Total     int `json:"total"`
	Healthy   int `json:"healthy"`
	Degraded  int `json:"degraded"`
	Unhealthy int `json:"unhealthy"`
	Errored   int `json:"errored"`
	Unknown   int `json:"unknown"`
}

// FleetViewDTO — полное состояние флота для одного цикла опроса.
// Значение иммутабельно после построения: следующий цикл
// замещает его целиком.
type FleetViewDTO struct {
	Nodes        []*NodeViewDTO  `json:"nodes"`
	Summary      FleetSummaryDTO `json:"summary"`
	UpdatedAt    time.Time       `json:"updated_at"`
	RefreshCount uint64          `json:"refresh_count"`
}

// NewFleetViewDTO создает состояние флота и считает сводку по узлам
func NewFleetViewDTO(nodes []*NodeViewDTO, refreshCount uint64, updatedAt time.Time) *FleetViewDTO {
	summary := FleetSummaryDTO{Total: len(nodes)}
	for _, node := range nodes {
		switch valueobject.ParseHealthStatus(node.Snapshot.Status.String()) {
		case valueobject.StatusHealthy:
			summary.Healthy++
		case valueobject.StatusDegraded:
			summary.Degraded++
		case valueobject.StatusUnhealthy:
			summary.Unhealthy++
		case valueobject.StatusError:
			summary.Errored++
		default:
			summary.Unknown++
		}
	}

	return &FleetViewDTO{
		Nodes:        nodes,
		Summary:      summary,
		UpdatedAt:    updatedAt,
		RefreshCount: refreshCount,
	}
}
