package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/engintanrikulu/developer-metrics-dashboard/internal/engine"
	cacheclear "github.com/engintanrikulu/developer-metrics-dashboard/internal/http/handler/cache_clear"
	cachestats "github.com/engintanrikulu/developer-metrics-dashboard/internal/http/handler/cache_stats"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/http/handler/common"
	globalusers "github.com/engintanrikulu/developer-metrics-dashboard/internal/http/handler/global_users"
	teamlist "github.com/engintanrikulu/developer-metrics-dashboard/internal/http/handler/team_list"
	teammetrics "github.com/engintanrikulu/developer-metrics-dashboard/internal/http/handler/team_metrics"
	teamsoverview "github.com/engintanrikulu/developer-metrics-dashboard/internal/http/handler/teams_overview"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/http/middleware"
)

// Handler агрегирует HTTP-эндпоинты.
type Handler struct {
	engine *engine.Engine
}

func New(engine *engine.Engine) *Handler {
	return &Handler{engine: engine}
}

// Router возвращает готовый chi.Router со всеми зарегистрированными маршрутами и middleware.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	// Middleware применяются в порядке объявления
	r.Use(chimw.RequestID)              // Добавляет уникальный ID каждому запросу
	r.Use(chimw.RealIP)                 // Определяет реальный IP клиента
	r.Use(middleware.PanicMiddleware)   // Перехватывает паники
	r.Use(middleware.LoggerMiddleware)  // Логирует все запросы
	r.Use(middleware.MetricsMiddleware) // Собирает метрики Prometheus

	// Health check эндпоинт для проверки доступности сервиса
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Prometheus metrics endpoint для сбора метрик
	r.Handle("/metrics", promhttp.Handler())

	h.registerAPIRoutes(r)

	return r
}

func (h *Handler) registerAPIRoutes(r chi.Router) {
	r.Route("/api", func(router chi.Router) {
		teamlist.New(h.engine).Register(router)
		teamsoverview.New(h.engine).Register(router)
		teammetrics.New(h.engine).Register(router)
		globalusers.New(h.engine).Register(router)
		cacheclear.New(h.engine).Register(router)
		cachestats.New(h.engine).Register(router)
	})
}
