package teammetrics

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/engintanrikulu/developer-metrics-dashboard/internal/domain"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/http/handler/common"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/logging"
)

const dateLayout = "2006-01-02"

// Handler реализует HTTP-эндпоинт метрик команды.
type Handler struct {
	useCase UseCase
}

func New(useCase UseCase) *Handler {
	return &Handler{useCase: useCase}
}

func (h *Handler) Register(router chi.Router) {
	router.Get("/metrics/{team}", common.WithErrorHandling(h.handle))
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request) error {
	team := chi.URLParam(r, "team")
	if team == "" {
		return common.NewBadRequestError("VALIDATION_ERROR", "team name is required")
	}

	window, err := parseWindow(r)
	if err != nil {
		return err
	}

	ctx := logging.WithLogTeamName(r.Context(), team)

	metrics, err := h.useCase.TeamMetrics(ctx, team, window)
	if err != nil {
		return err
	}

	common.RespondJSON(w, http.StatusOK, metrics)
	return nil
}

// parseWindow разбирает параметры start_date и end_date.
// Фильтр применяется только когда заданы обе границы.
func parseWindow(r *http.Request) (domain.Window, error) {
	startRaw := r.URL.Query().Get("start_date")
	endRaw := r.URL.Query().Get("end_date")
	if startRaw == "" || endRaw == "" {
		return domain.Window{}, nil
	}

	if _, err := time.Parse(dateLayout, startRaw); err != nil {
		return domain.Window{}, common.NewBadRequestError("VALIDATION_ERROR", "start_date must be in YYYY-MM-DD format")
	}
	if _, err := time.Parse(dateLayout, endRaw); err != nil {
		return domain.Window{}, common.NewBadRequestError("VALIDATION_ERROR", "end_date must be in YYYY-MM-DD format")
	}
	// Даты в формате YYYY-MM-DD сравниваются лексикографически
	if endRaw < startRaw {
		return domain.Window{}, common.NewBadRequestError("VALIDATION_ERROR", "end_date must not be before start_date")
	}

	return domain.Window{Start: startRaw, End: endRaw}, nil
}
