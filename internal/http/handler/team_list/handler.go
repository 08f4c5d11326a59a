package teamlist

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/engintanrikulu/developer-metrics-dashboard/internal/http/handler/common"
)

type response struct {
	Teams []string `json:"teams"`
	Total int      `json:"total"`
}

// Handler реализует HTTP-эндпоинт списка команд.
type Handler struct {
	useCase UseCase
}

func New(useCase UseCase) *Handler {
	return &Handler{useCase: useCase}
}

func (h *Handler) Register(router chi.Router) {
	router.Get("/teams", common.WithErrorHandling(h.handle))
}

func (h *Handler) handle(w http.ResponseWriter, _ *http.Request) error {
	names := h.useCase.TeamNames()
	common.RespondJSON(w, http.StatusOK, response{Teams: names, Total: len(names)})
	return nil
}
