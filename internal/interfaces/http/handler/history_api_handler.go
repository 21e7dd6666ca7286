package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dreschagin/fleet-status/internal/application/usecase"
	"github.com/dreschagin/fleet-status/internal/domain/valueobject"
	"github.com/dreschagin/fleet-status/pkg/logger"
)

// HistoryAPIHandler обрабатывает API запросы истории опросов узлов
type HistoryAPIHandler struct {
	getHistoryUC *usecase.GetHealthHistoryCachedUseCase
	maxDuration  time.Duration
	logger       *logger.Logger
}

// NewHistoryAPIHandler создает новый handler
func NewHistoryAPIHandler(
	getHistoryUC *usecase.GetHealthHistoryCachedUseCase,
	maxDuration time.Duration,
	logger *logger.Logger,
) *HistoryAPIHandler {
	if maxDuration <= 0 {
		maxDuration = 24 * time.Hour
	}

	return &HistoryAPIHandler{
		getHistoryUC: getHistoryUC,
		maxDuration:  maxDuration,
		logger:       logger,
	}
}

// GetHistory возвращает историю статусов узла за временной диапазон
func (h *HistoryAPIHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// История требует настроенного хранилища
	if h.getHistoryUC == nil {
		http.Error(w, "History storage is not configured", http.StatusServiceUnavailable)
		return
	}

	nodeID := r.URL.Query().Get("node")
	durationStr := r.URL.Query().Get("duration")

	if nodeID == "" || durationStr == "" {
		http.Error(w, "Missing required parameters: node, duration", http.StatusBadRequest)
		return
	}

	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		http.Error(w, "Invalid duration format", http.StatusBadRequest)
		return
	}
	if duration <= 0 || duration > h.maxDuration {
		http.Error(w, "Duration out of allowed range", http.StatusBadRequest)
		return
	}

	timeRange, err := valueobject.NewTimeRangeFromDuration(duration)
	if err != nil {
		http.Error(w, "Invalid time range", http.StatusBadRequest)
		return
	}

	history, err := h.getHistoryUC.Execute(r.Context(), nodeID, timeRange)
	if err != nil {
		h.logger.Error("Failed to get node history", err)
		http.Error(w, "Failed to fetch history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(history); err != nil {
		h.logger.Error("Failed to encode history response", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
