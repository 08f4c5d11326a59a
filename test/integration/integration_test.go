package integration_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/engintanrikulu/developer-metrics-dashboard/internal/cache"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/config"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/domain"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/engine"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/github"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/http/router"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/infrastructure/nower"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	clock := nower.New()
	metricsCache := cache.New(12*time.Hour, clock)
	client := github.NewDemoClient(clock)
	teams := config.Teams{Teams: []config.Team{
		{Name: "backend", Repositories: []string{"api-gateway", "billing"}},
		{Name: "platform", Repositories: []string{"deploy-tool"}},
	}}

	eng := engine.New(metricsCache, client, teams, clock, engine.Options{
		WindowDays:    30,
		ErrorTTL:      5 * time.Minute,
		MaxConcurrent: 4,
	})

	server := httptest.NewServer(router.New(eng).Router())
	t.Cleanup(server.Close)
	return server
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHappyPath(t *testing.T) {
	if testing.Short() {
		t.Skip("пропуск интеграционного теста в режиме -short")
	}
	t.Parallel()

	server := newServer(t)

	// Сервис жив
	resp := getJSON(t, server.URL+"/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Список команд из конфигурации
	var teamsResp struct {
		Teams []string `json:"teams"`
		Total int      `json:"total"`
	}
	resp = getJSON(t, server.URL+"/api/teams", &teamsResp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []string{"backend", "platform"}, teamsResp.Teams)

	// Метрики команды: демо-данные детерминированы, но состав проверяем структурно
	var metrics domain.TeamMetrics
	resp = getJSON(t, server.URL+"/api/metrics/backend", &metrics)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, metrics.Metrics, 2)
	require.Equal(t, "api-gateway", metrics.Metrics[0].Repository)
	require.Equal(t, "billing", metrics.Metrics[1].Repository)
	for _, repo := range metrics.Metrics {
		require.Equal(t, repo.TotalPRs, len(repo.PRData))
		require.NotEmpty(t, repo.PRData)
	}

	// Повторный запрос отдаётся из кэша и совпадает с первым
	var cached domain.TeamMetrics
	resp = getJSON(t, server.URL+"/api/metrics/backend", &cached)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, metrics, cached)

	// Статистика кэша показывает сохранённые записи
	var stats domain.CacheStats
	resp = getJSON(t, server.URL+"/api/cache/stats", &stats)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Greater(t, stats.Size, 0)

	// Сводка по всем командам
	var overview domain.TeamsOverview
	resp = getJSON(t, server.URL+"/api/teams/metrics", &overview)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 2, overview.TotalTeams)
	require.Len(t, overview.Teams, 2)

	// Глобальная статистика участников
	var global domain.GlobalUserMetrics
	resp = getJSON(t, server.URL+"/api/users/global", &global)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, global.GlobalUsers)
	require.Equal(t, len(global.GlobalUsers), global.TotalContributors)
}

func TestDateRangeFilter(t *testing.T) {
	if testing.Short() {
		t.Skip("пропуск интеграционного теста в режиме -short")
	}
	t.Parallel()

	server := newServer(t)

	// Полный диапазон за последние 30 дней
	var full domain.TeamMetrics
	resp := getJSON(t, server.URL+"/api/metrics/platform", &full)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Узкий диапазон внутри окна: результат не шире полного
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -7)
	url := server.URL + "/api/metrics/platform?start_date=" + start.Format("2006-01-02") + "&end_date=" + end.Format("2006-01-02")

	var filtered domain.TeamMetrics
	resp = getJSON(t, url, &filtered)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, start.Format("2006-01-02"), filtered.AppliedFilters.StartDate)
	require.Equal(t, end.Format("2006-01-02"), filtered.AppliedFilters.EndDate)
	require.LessOrEqual(t, filtered.Metrics[0].TotalPRs, full.Metrics[0].TotalPRs)
}

func TestErrorResponses(t *testing.T) {
	if testing.Short() {
		t.Skip("пропуск интеграционного теста в режиме -short")
	}
	t.Parallel()

	server := newServer(t)

	// Неизвестная команда
	resp, err := http.Get(server.URL + "/api/metrics/no-such-team")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Некорректная дата
	resp2, err := http.Get(server.URL + "/api/metrics/backend?start_date=bad&end_date=2025-01-31")
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestCacheClear(t *testing.T) {
	if testing.Short() {
		t.Skip("пропуск интеграционного теста в режиме -short")
	}
	t.Parallel()

	server := newServer(t)

	// Прогреваем кэш
	resp := getJSON(t, server.URL+"/api/metrics/backend", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var before domain.CacheStats
	getJSON(t, server.URL+"/api/cache/stats", &before)
	require.Greater(t, before.Size, 0)

	// Очищаем кэш команды
	clearResp, err := http.Post(server.URL+"/api/cache/clear/backend", "application/json", nil)
	require.NoError(t, err)
	defer clearResp.Body.Close()
	require.Equal(t, http.StatusOK, clearResp.StatusCode)

	var clearBody struct {
		Cleared int `json:"cleared_entries"`
	}
	require.NoError(t, json.NewDecoder(clearResp.Body).Decode(&clearBody))
	require.Greater(t, clearBody.Cleared, 0)

	// Полная очистка убирает всё оставшееся
	clearAll, err := http.Post(server.URL+"/api/cache/clear", "application/json", nil)
	require.NoError(t, err)
	defer clearAll.Body.Close()
	require.Equal(t, http.StatusOK, clearAll.StatusCode)

	var after domain.CacheStats
	getJSON(t, server.URL+"/api/cache/stats", &after)
	require.Equal(t, 0, after.Size)
}
