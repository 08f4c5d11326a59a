package cacheclear

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type stubUseCase struct {
	gotTeam string
}

func (s *stubUseCase) ClearCache() int {
	return 7
}

func (s *stubUseCase) ClearTeamCache(team string) int {
	s.gotTeam = team
	return 3
}

func newRouter(uc UseCase) chi.Router {
	router := chi.NewRouter()
	New(uc).Register(router)
	return router
}

func TestHandler_ClearsAll(t *testing.T) {
	t.Parallel()

	router := newRouter(&stubUseCase{})

	req := httptest.NewRequest(http.MethodPost, "/cache/clear", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 7, resp.Cleared)
}

func TestHandler_ClearsTeam(t *testing.T) {
	t.Parallel()

	stub := &stubUseCase{}
	router := newRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/cache/clear/backend", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "backend", stub.gotTeam)

	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 3, resp.Cleared)
	require.Contains(t, resp.Message, "backend")
}

func TestHandler_GetNotAllowed(t *testing.T) {
	t.Parallel()

	router := newRouter(&stubUseCase{})

	req := httptest.NewRequest(http.MethodGet, "/cache/clear", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
