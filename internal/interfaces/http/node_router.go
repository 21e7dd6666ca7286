package http

import (
	"net/http"

	"github.com/dreschagin/fleet-status/internal/domain/entity"
	"github.com/dreschagin/fleet-status/internal/interfaces/http/handler"
	"github.com/dreschagin/fleet-status/internal/interfaces/http/middleware"
	"github.com/dreschagin/fleet-status/pkg/logger"
)

// NodeRouter настраивает health surface узла (health reporter).
// Эндпоинты не аутентифицируются: их опрашивают load balancer'ы
// и dashboard внутри закрытой сети.
type NodeRouter struct {
	mux           *http.ServeMux
	healthHandler *handler.NodeHealthHandler
	identity      func() entity.InstanceIdentity
	logger        *logger.Logger
}

// NewNodeRouter создает router узла.
// identity вызывается на каждый запрос и должен быть дешевым (кеш в памяти).
func NewNodeRouter(
	healthHandler *handler.NodeHealthHandler,
	identity func() entity.InstanceIdentity,
	logger *logger.Logger,
) *NodeRouter {
	return &NodeRouter{
		mux:           http.NewServeMux(),
		healthHandler: healthHandler,
		identity:      identity,
		logger:        logger,
	}
}

// Setup настраивает все маршруты узла
func (rt *NodeRouter) Setup() http.Handler {
	rt.mux.HandleFunc("/health", rt.healthHandler.Health)
	rt.mux.HandleFunc("/health-detailed", rt.healthHandler.HealthDetailed)
	rt.mux.HandleFunc("/api/metrics", rt.healthHandler.Metrics)

	rt.mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Identity в заголовках каждого ответа: dashboard идентифицирует узел
	// даже при fallback'е на plaintext /health
	var handler http.Handler = rt.mux
	handler = middleware.InstanceHeaders(rt.identity)(handler)
	handler = middleware.Logger(rt.logger)(handler)
	handler = middleware.Recovery(rt.logger)(handler)

	return handler
}
