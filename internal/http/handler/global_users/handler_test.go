package globalusers

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
	result domain.GlobalUserMetrics
}

func (s *stubUseCase) GlobalUserMetrics(_ context.Context) domain.GlobalUserMetrics {
	return s.result
}

func TestHandler_ReturnsGlobalStats(t *testing.T) {
	t.Parallel()

	stub := &stubUseCase{result: domain.GlobalUserMetrics{
		GlobalUsers:       []domain.GlobalUserStat{{Username: "alice", TotalPRs: 3}},
		TotalContributors: 1,
	}}
	router := chi.NewRouter()
	New(stub).Register(router)

	req := httptest.NewRequest(http.MethodGet, "/users/global", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp domain.GlobalUserMetrics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.GlobalUsers, 1)
	require.Equal(t, "alice", resp.GlobalUsers[0].Username)
	require.Equal(t, 1, resp.TotalContributors)
}
