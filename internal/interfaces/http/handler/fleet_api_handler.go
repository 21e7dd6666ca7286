package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dreschagin/fleet-status/internal/application/usecase"
	"github.com/dreschagin/fleet-status/pkg/logger"
)

// FleetAPIHandler обрабатывает API запросы состояния флота
type FleetAPIHandler struct {
	getFleetStatusUC *usecase.GetFleetStatusUseCase
	logger           *logger.Logger
}

// NewFleetAPIHandler создает новый handler
func NewFleetAPIHandler(getFleetStatusUC *usecase.GetFleetStatusUseCase, logger *logger.Logger) *FleetAPIHandler {
	return &FleetAPIHandler{
		getFleetStatusUC: getFleetStatusUC,
		logger:           logger,
	}
}

// GetFleet возвращает последнее опрошенное состояние флота.
// Никогда не триггерит опрос: polling loop и ручной refresh —
// единственные источники обновлений
func (h *FleetAPIHandler) GetFleet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	view := h.getFleetStatusUC.Execute(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(view); err != nil {
		h.logger.Error("Failed to encode fleet view", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// Refresh выполняет немедленный цикл опроса по запросу оператора
// и возвращает свежее состояние
func (h *FleetAPIHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	view, err := h.getFleetStatusUC.Refresh(r.Context())
	if err != nil {
		h.logger.Error("Manual fleet refresh failed", err)
		http.Error(w, "Failed to refresh fleet", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(view); err != nil {
		h.logger.Error("Failed to encode fleet view", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
