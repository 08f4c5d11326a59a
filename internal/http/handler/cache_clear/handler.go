package cacheclear

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/engintanrikulu/developer-metrics-dashboard/internal/http/handler/common"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/logging"
)

type response struct {
	Message string `json:"message"`
	Cleared int    `json:"cleared_entries"`
}

// Handler реализует HTTP-эндпоинты очистки кэша.
type Handler struct {
	useCase UseCase
}

func New(useCase UseCase) *Handler {
	return &Handler{useCase: useCase}
}

func (h *Handler) Register(router chi.Router) {
	router.Post("/cache/clear", common.WithErrorHandling(h.handleAll))
	router.Post("/cache/clear/{team}", common.WithErrorHandling(h.handleTeam))
}

func (h *Handler) handleAll(w http.ResponseWriter, r *http.Request) error {
	cleared := h.useCase.ClearCache()
	slog.InfoContext(r.Context(), "cache cleared", "entries", cleared)

	common.RespondJSON(w, http.StatusOK, response{
		Message: "Cache cleared successfully",
		Cleared: cleared,
	})
	return nil
}

func (h *Handler) handleTeam(w http.ResponseWriter, r *http.Request) error {
	team := chi.URLParam(r, "team")
	if team == "" {
		return common.NewBadRequestError("VALIDATION_ERROR", "team name is required")
	}

	ctx := logging.WithLogTeamName(r.Context(), team)
	cleared := h.useCase.ClearTeamCache(team)
	slog.InfoContext(ctx, "team cache cleared", "entries", cleared)

	common.RespondJSON(w, http.StatusOK, response{
		Message: fmt.Sprintf("Cache cleared for team %s", team),
		Cleared: cleared,
	})
	return nil
}
