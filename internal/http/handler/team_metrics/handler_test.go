package teammetrics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/engintanrikulu/developer-metrics-dashboard/internal/domain"
)

type stubUseCase struct {
	gotTeam   string
	gotWindow domain.Window
	result    domain.TeamMetrics
	err       error
}

func (s *stubUseCase) TeamMetrics(_ context.Context, team string, window domain.Window) (domain.TeamMetrics, error) {
	s.gotTeam = team
	s.gotWindow = window
	return s.result, s.err
}

func newRouter(uc UseCase) chi.Router {
	router := chi.NewRouter()
	New(uc).Register(router)
	return router
}

func TestHandler_ReturnsMetrics(t *testing.T) {
	t.Parallel()

	stub := &stubUseCase{result: domain.TeamMetrics{
		Metrics: []domain.RepositoryMetrics{{Repository: "api"}},
	}}
	router := newRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/metrics/backend", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "backend", stub.gotTeam)
	require.True(t, stub.gotWindow.IsZero())

	var resp domain.TeamMetrics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Metrics, 1)
	require.Equal(t, "api", resp.Metrics[0].Repository)
}

func TestHandler_ParsesDateRange(t *testing.T) {
	t.Parallel()

	stub := &stubUseCase{}
	router := newRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/metrics/backend?start_date=2025-06-01&end_date=2025-06-30", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "2025-06-01", stub.gotWindow.Start)
	require.Equal(t, "2025-06-30", stub.gotWindow.End)
}

func TestHandler_IgnoresLoneBound(t *testing.T) {
	t.Parallel()

	stub := &stubUseCase{}
	router := newRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/metrics/backend?start_date=2025-06-01", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, stub.gotWindow.IsZero())
}

func TestHandler_RejectsMalformedDate(t *testing.T) {
	t.Parallel()

	stub := &stubUseCase{}
	router := newRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/metrics/backend?start_date=06-01-2025&end_date=2025-06-30", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestHandler_RejectsInvertedRange(t *testing.T) {
	t.Parallel()

	stub := &stubUseCase{}
	router := newRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/metrics/backend?start_date=2025-06-30&end_date=2025-06-01", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_UnknownTeamIsNotFound(t *testing.T) {
	t.Parallel()

	stub := &stubUseCase{err: domain.ErrTeamNotFound}
	router := newRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/metrics/ghosts", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "NOT_FOUND")
}
