package http

import (
	"io/fs"
	"net/http"

	"github.com/dreschagin/fleet-status/internal/interfaces/http/handler"
	"github.com/dreschagin/fleet-status/internal/interfaces/http/middleware"
	"github.com/dreschagin/fleet-status/pkg/config"
	"github.com/dreschagin/fleet-status/pkg/logger"
)

// Router настраивает маршруты dashboard'а
type Router struct {
	mux               *http.ServeMux
	dashboardHandler  *handler.DashboardHandler
	websocketHandler  *handler.WebSocketHandler
	fleetAPIHandler   *handler.FleetAPIHandler
	historyAPIHandler *handler.HistoryAPIHandler
	authAPIHandler    *handler.AuthAPIHandler
	security          config.SecurityConfig
	logger            *logger.Logger
}

// NewRouter создает новый router
func NewRouter(
	dashboardHandler *handler.DashboardHandler,
	websocketHandler *handler.WebSocketHandler,
	fleetAPIHandler *handler.FleetAPIHandler,
	historyAPIHandler *handler.HistoryAPIHandler,
	authAPIHandler *handler.AuthAPIHandler,
	security config.SecurityConfig,
	logger *logger.Logger,
) *Router {
	return &Router{
		mux:               http.NewServeMux(),
		dashboardHandler:  dashboardHandler,
		websocketHandler:  websocketHandler,
		fleetAPIHandler:   fleetAPIHandler,
		historyAPIHandler: historyAPIHandler,
		authAPIHandler:    authAPIHandler,
		security:          security,
		logger:            logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	// Static assets are embedded into the binary.
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic("failed to initialize embedded static assets: " + err.Error())
	}
	rt.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Health endpoints are intentionally unauthenticated for probes.
	rt.mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	rt.mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	authMiddleware := middleware.Auth(middleware.AuthConfig{
		Enabled:     rt.security.AuthEnabled,
		BearerToken: rt.security.AuthToken,
	}, rt.logger)

	rateLimiter := middleware.NewIPRateLimiter(rt.security.RateLimitRPS, rt.security.RateLimitBurst)
	rateLimit := middleware.RateLimit(rateLimiter)

	// Dashboard
	rt.mux.Handle("/", authMiddleware(http.HandlerFunc(rt.dashboardHandler.ShowDashboard)))

	// WebSocket
	rt.mux.Handle("/ws", authMiddleware(http.HandlerFunc(rt.websocketHandler.HandleConnection)))

	// API endpoints
	rt.mux.HandleFunc("/api/v1/auth/login", rt.authAPIHandler.Login)
	rt.mux.HandleFunc("/api/v1/auth/logout", rt.authAPIHandler.Logout)
	rt.mux.HandleFunc("/api/v1/auth/status", rt.authAPIHandler.Status)

	rt.mux.Handle("/api/v1/fleet", authMiddleware(rateLimit(http.HandlerFunc(rt.fleetAPIHandler.GetFleet))))
	rt.mux.Handle("/api/v1/refresh", authMiddleware(rateLimit(http.HandlerFunc(rt.fleetAPIHandler.Refresh))))
	rt.mux.Handle("/api/v1/history", authMiddleware(rateLimit(http.HandlerFunc(rt.historyAPIHandler.GetHistory))))

	// Применяем middleware
	var handler http.Handler = rt.mux
	handler = middleware.Compression(handler)
	handler = middleware.Logger(rt.logger)(handler)
	handler = middleware.Recovery(rt.logger)(handler)

	return handler
}
