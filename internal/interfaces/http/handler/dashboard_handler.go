package handler

import (
	"net/http"

	"github.com/dreschagin/fleet-status/internal/application/usecase"
	"github.com/dreschagin/fleet-status/internal/interfaces/view"
	"github.com/dreschagin/fleet-status/pkg/logger"
)

// DashboardHandler обрабатывает запросы к dashboard
type DashboardHandler struct {
	getFleetStatusUC *usecase.GetFleetStatusUseCase
	logger           *logger.Logger
}

// NewDashboardHandler создает новый handler
func NewDashboardHandler(
	getFleetStatusUC *usecase.GetFleetStatusUseCase,
	logger *logger.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		getFleetStatusUC: getFleetStatusUC,
		logger:           logger,
	}
}

// ShowDashboard отображает главную страницу dashboard
func (h *DashboardHandler) ShowDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	fleetView := h.getFleetStatusUC.Execute(r.Context())

	if err := view.Dashboard(fleetView).Render(r.Context(), w); err != nil {
		h.logger.Error("Failed to render dashboard", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
}
