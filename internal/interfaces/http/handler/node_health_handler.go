package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dreschagin/fleet-status/internal/application/usecase"
	"github.com/dreschagin/fleet-status/internal/domain/entity"
	"github.com/dreschagin/fleet-status/pkg/logger"
)

// NodeHealthHandler отдает health surface узла: plaintext статус,
// детальный JSON snapshot и системные метрики
type NodeHealthHandler struct {
	sampler *usecase.SampleHealthUseCase
	logger  *logger.Logger
}

// NewNodeHealthHandler создает новый handler
func NewNodeHealthHandler(sampler *usecase.SampleHealthUseCase, logger *logger.Logger) *NodeHealthHandler {
	return &NodeHealthHandler{
		sampler: sampler,
		logger:  logger,
	}
}

// Health возвращает только общий статус узла как plaintext.
// Минимальная поверхность для load balancer'ов и legacy dashboard'ов
func (h *NodeHealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	snapshot, ok := h.sampler.Latest()
	if !ok {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("unknown\n"))
		return
	}

	_, _ = w.Write([]byte(snapshot.Status.String() + "\n"))
}

// HealthDetailed возвращает полный snapshot последнего цикла сэмплирования.
// До первого цикла отвечает 503 со snapshot'ом "unknown",
// чтобы dashboard откатился на plaintext /health
func (h *NodeHealthHandler) HealthDetailed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	snapshot, ok := h.sampler.Latest()
	if !ok {
		w.WriteHeader(http.StatusServiceUnavailable)
		snapshot = entity.NewHealthSnapshot(time.Now())
	}

	if err := json.NewEncoder(w).Encode(snapshot); err != nil {
		h.logger.Error("Failed to encode health snapshot", err)
	}
}

// Metrics возвращает server info и системные метрики последнего цикла
func (h *NodeHealthHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics, ok := h.sampler.LatestMetrics()
	if !ok {
		http.Error(w, "No metrics sample yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(metrics); err != nil {
		h.logger.Error("Failed to encode node metrics", err)
	}
}
