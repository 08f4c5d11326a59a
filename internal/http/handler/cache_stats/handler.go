package cachestats

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/engintanrikulu/developer-metrics-dashboard/internal/http/handler/common"
)

// Handler реализует HTTP-эндпоинт статистики кэша.
type Handler struct {
	useCase UseCase
}

func New(useCase UseCase) *Handler {
	return &Handler{useCase: useCase}
}

func (h *Handler) Register(router chi.Router) {
	router.Get("/cache/stats", common.WithErrorHandling(h.handle))
}

func (h *Handler) handle(w http.ResponseWriter, _ *http.Request) error {
	common.RespondJSON(w, http.StatusOK, h.useCase.CacheStats())
	return nil
}
