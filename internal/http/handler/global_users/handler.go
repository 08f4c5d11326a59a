package globalusers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/engintanrikulu/developer-metrics-dashboard/internal/http/handler/common"
)

// Handler реализует HTTP-эндпоинт глобальной статистики участников.
type Handler struct {
	useCase UseCase
}

func New(useCase UseCase) *Handler {
	return &Handler{useCase: useCase}
}

func (h *Handler) Register(router chi.Router) {
	router.Get("/users/global", common.WithErrorHandling(h.handle))
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request) error {
	common.RespondJSON(w, http.StatusOK, h.useCase.GlobalUserMetrics(r.Context()))
	return nil
}
