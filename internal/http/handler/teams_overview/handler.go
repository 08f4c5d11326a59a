package teamsoverview

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/engintanrikulu/developer-metrics-dashboard/internal/http/handler/common"
)

// Handler реализует HTTP-эндпоинт сводки команд.
type Handler struct {
	useCase UseCase
}

func New(useCase UseCase) *Handler {
	return &Handler{useCase: useCase}
}

func (h *Handler) Register(router chi.Router) {
	router.Get("/teams/metrics", common.WithErrorHandling(h.handle))
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request) error {
	common.RespondJSON(w, http.StatusOK, h.useCase.AllTeamsMetrics(r.Context()))
	return nil
}
