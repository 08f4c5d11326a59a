package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/engintanrikulu/developer-metrics-dashboard/internal/cache"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/config"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/domain"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/infrastructure/nower"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// stubClient — клиент с заранее заданными данными и счётчиком обращений.
type stubClient struct {
	mu      sync.Mutex
	prs     map[string][]domain.PullRequest
	reviews map[string]map[int][]domain.Review
	commits map[string]map[int][]domain.Commit
	listErr map[string]error
	calls   int
}

func (s *stubClient) bump() {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
}

func (s *stubClient) totalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubClient) ListClosedPullRequests(_ context.Context, repo string, window domain.Window) ([]domain.PullRequest, error) {
	s.bump()
	if err := s.listErr[repo]; err != nil {
		return nil, err
	}

	prs := make([]domain.PullRequest, 0)
	for _, pr := range s.prs[repo] {
		if window.IsZero() || window.Contains(pr.CreatedAt) {
			prs = append(prs, pr)
		}
	}
	return prs, nil
}

func (s *stubClient) GetPullRequestDetail(_ context.Context, repo string, number int) (domain.PullRequest, error) {
	s.bump()
	for _, pr := range s.prs[repo] {
		if pr.Number == number {
			return pr, nil
		}
	}
	return domain.PullRequest{}, errors.New("not found")
}

func (s *stubClient) ListReviews(_ context.Context, repo string, number int) ([]domain.Review, error) {
	s.bump()
	return s.reviews[repo][number], nil
}

func (s *stubClient) ListCommits(_ context.Context, repo string, number int) ([]domain.Commit, error) {
	s.bump()
	return s.commits[repo][number], nil
}

func (s *stubClient) RateLimit(context.Context) (domain.RateLimit, error) {
	s.bump()
	return domain.RateLimit{Limit: 5000, Remaining: 4000, Reset: testNow.Add(time.Hour).Unix()}, nil
}

func (s *stubClient) CheckAccess(context.Context, string) error {
	s.bump()
	return nil
}

func mergedPR(number int, author string, created time.Time, lifetime time.Duration, additions, deletions int) domain.PullRequest {
	merged := created.Add(lifetime)
	return domain.PullRequest{
		Number:    number,
		Title:     "change",
		Author:    author,
		CreatedAt: created,
		UpdatedAt: merged,
		MergedAt:  &merged,
		Additions: additions,
		Deletions: deletions,
	}
}

func newTestEngine(client *stubClient, teams config.Teams) *Engine {
	c := cache.New(12*time.Hour, nower.NewFixed(testNow))
	return New(c, client, teams, nower.NewFixed(testNow), Options{
		WindowDays:    30,
		ErrorTTL:      5 * time.Minute,
		MaxConcurrent: 4,
		RequestDelay:  0,
	})
}

func backendTeams() config.Teams {
	return config.Teams{Teams: []config.Team{
		{Name: "backend", Repositories: []string{"api", "worker"}},
	}}
}

func backendClient() *stubClient {
	june := func(day, hour int) time.Time {
		return time.Date(2025, 6, day, hour, 0, 0, 0, time.UTC)
	}

	apiPR1 := mergedPR(1, "alice", june(3, 10), 24*time.Hour, 100, 20)
	apiPR2 := mergedPR(2, "bob", june(8, 10), 48*time.Hour, 50, 10)
	apiPR3 := domain.PullRequest{Number: 3, Author: "alice", CreatedAt: june(12, 10), UpdatedAt: june(12, 11)}
	workerPR := mergedPR(7, "carol", june(5, 10), 12*time.Hour, 30, 5)

	return &stubClient{
		prs: map[string][]domain.PullRequest{
			"api":    {apiPR1, apiPR2, apiPR3},
			"worker": {workerPR},
		},
		reviews: map[string]map[int][]domain.Review{
			"api": {
				1: {{SubmittedAt: june(3, 14), State: "APPROVED", Reviewer: "bob"}},
				2: {{SubmittedAt: june(9, 10), State: "APPROVED", Reviewer: "alice"}},
			},
			"worker": {
				7: {{SubmittedAt: june(5, 16), State: "APPROVED", Reviewer: "alice"}},
			},
		},
		commits: map[string]map[int][]domain.Commit{
			"api": {
				1: {{SHA: "a1", AuthoredAt: june(3, 8)}},
				2: {{SHA: "b1", AuthoredAt: june(8, 8)}},
			},
			"worker": {
				7: {{SHA: "c1", AuthoredAt: june(5, 8)}},
			},
		},
		listErr: map[string]error{},
	}
}

func TestTeamMetricsUnknownTeam(t *testing.T) {
	t.Parallel()

	e := newTestEngine(backendClient(), backendTeams())
	_, err := e.TeamMetrics(context.Background(), "nonexistent", domain.Window{})
	require.ErrorIs(t, err, domain.ErrTeamNotFound)
}

func TestTeamMetricsDefaultStrategy(t *testing.T) {
	t.Parallel()

	client := backendClient()
	e := newTestEngine(client, backendTeams())
	ctx := context.Background()

	tm, err := e.TeamMetrics(ctx, "backend", domain.Window{})
	require.NoError(t, err)

	// Порядок репозиториев соответствует конфигурации команды.
	require.Len(t, tm.Metrics, 2)
	require.Equal(t, "api", tm.Metrics[0].Repository)
	require.Equal(t, "worker", tm.Metrics[1].Repository)

	api := tm.Metrics[0]
	require.Equal(t, 3, api.TotalPRs)
	require.Len(t, api.PRData, api.TotalPRs)
	require.InDelta(t, 2.0/30.0, api.PRThroughput, 1e-9)
	// PR #1: ревью через 4 часа, PR #2: через 24. Среднее — 14.
	require.InDelta(t, 14.0, api.ReviewLatencyHours, 1e-9)
	// Коммит → мерж: #1 за 26ч, #2 за 50ч. Среднее — 38.
	require.InDelta(t, 38.0, api.CommitToMergeHours, 1e-9)

	require.Len(t, tm.TopReviewLatency, 3)
	require.InDelta(t, 24.0, *tm.TopReviewLatency[0].ReviewLatencyHours, 1e-9)

	require.Equal(t, "", tm.AppliedFilters.StartDate)
	require.True(t, tm.OverallDateRange.HasData)

	// Повторный запрос обслуживается из кэша без обращений к API.
	callsAfterFirst := client.totalCalls()
	again, err := e.TeamMetrics(ctx, "backend", domain.Window{})
	require.NoError(t, err)
	require.Equal(t, tm, again)
	require.Equal(t, callsAfterFirst, client.totalCalls())
}

func TestTeamMetricsQuickMonthAndFilterFromCache(t *testing.T) {
	t.Parallel()

	client := backendClient()
	e := newTestEngine(client, backendTeams())
	ctx := context.Background()

	full, err := e.TeamMetrics(ctx, "backend", domain.Window{Start: "2025-06-01", End: "2025-06-30"})
	require.NoError(t, err)
	require.Equal(t, 3, full.Metrics[0].TotalPRs)

	callsAfterMonth := client.totalCalls()

	// Сужение внутри закэшированного месяца не трогает API.
	narrow, err := e.TeamMetrics(ctx, "backend", domain.Window{Start: "2025-06-05", End: "2025-06-10"})
	require.NoError(t, err)
	require.Equal(t, callsAfterMonth, client.totalCalls())

	require.Equal(t, 1, narrow.Metrics[0].TotalPRs) // только PR #2
	require.Equal(t, narrow.Metrics[0].TotalPRs, len(narrow.Metrics[0].PRData))
	require.Equal(t, 2, narrow.Metrics[0].PRData[0].Number)
	require.Equal(t, "2025-06-05", narrow.AppliedFilters.StartDate)
	require.NotEmpty(t, narrow.OverallDateRange.FilterDescription)

	// Повторное сужение тем же диапазоном идемпотентно.
	narrowAgain, err := e.TeamMetrics(ctx, "backend", domain.Window{Start: "2025-06-05", End: "2025-06-10"})
	require.NoError(t, err)
	require.Equal(t, narrow, narrowAgain)
	require.Equal(t, callsAfterMonth, client.totalCalls())
}

func TestTeamMetricsCustomRangeNotCached(t *testing.T) {
	t.Parallel()

	client := backendClient()
	e := newTestEngine(client, backendTeams())
	ctx := context.Background()

	window := domain.Window{Start: "2025-05-20", End: "2025-06-10"}
	_, err := e.TeamMetrics(ctx, "backend", window)
	require.NoError(t, err)

	// Диапазон охватывает два месяца — командный результат не кэшируется,
	// повторный запрос снова обращается к API (кэши уровня репозитория
	// при том же окне переиспользуются).
	for _, key := range e.cache.Keys() {
		require.NotContains(t, key, "backend_month_")
		require.NotEqual(t, "backend_last30PR", key)
	}
}

func TestTeamMetricsRepositoryFailureIsolated(t *testing.T) {
	t.Parallel()

	client := backendClient()
	client.listErr["api"] = errors.New("boom")
	e := newTestEngine(client, backendTeams())

	tm, err := e.TeamMetrics(context.Background(), "backend", domain.Window{})
	require.NoError(t, err)
	require.Len(t, tm.Metrics, 2)

	failed := tm.Metrics[0]
	require.Equal(t, "api", failed.Repository)
	require.NotEmpty(t, failed.Error)
	require.Zero(t, failed.TotalPRs)
	require.Empty(t, failed.PRData)
	require.False(t, failed.DateRange.HasData)

	ok := tm.Metrics[1]
	require.Equal(t, "worker", ok.Repository)
	require.Empty(t, ok.Error)
	require.Equal(t, 1, ok.TotalPRs)
}

func TestFetchRepositoriesPreservesOrder(t *testing.T) {
	t.Parallel()

	repos := []string{"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7"}
	prs := make(map[string][]domain.PullRequest, len(repos))
	for i, r := range repos {
		prs[r] = []domain.PullRequest{mergedPR(i+1, "dev", testNow.AddDate(0, 0, -3), time.Hour, 10, 2)}
	}
	client := &stubClient{
		prs:     prs,
		reviews: map[string]map[int][]domain.Review{},
		commits: map[string]map[int][]domain.Commit{},
		listErr: map[string]error{},
	}

	e := newTestEngine(client, config.Teams{Teams: []config.Team{{Name: "big", Repositories: repos}}})
	got := e.fetchRepositories(context.Background(), repos, domain.Window{})

	require.Len(t, got, len(repos))
	for i, r := range repos {
		require.Equal(t, r, got[i].Repository)
	}
}

func TestAllTeamsMetrics(t *testing.T) {
	t.Parallel()

	teams := config.Teams{Teams: []config.Team{
		{Name: "backend", Repositories: []string{"api", "worker"}},
		{Name: "frontend", Repositories: []string{"web"}},
	}}
	client := backendClient()
	client.prs["web"] = []domain.PullRequest{
		mergedPR(11, "dave", time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC), 6*time.Hour, 200, 100),
	}
	client.reviews["web"] = map[int][]domain.Review{}
	client.commits["web"] = map[int][]domain.Commit{}

	e := newTestEngine(client, teams)
	overview := e.AllTeamsMetrics(context.Background())

	require.Equal(t, 2, overview.TotalTeams)
	require.Len(t, overview.Teams, 2)

	backend := overview.Teams[0]
	require.Equal(t, "backend", backend.TeamName)
	require.Equal(t, 3, backend.TotalMergedPRs)
	require.Equal(t, 2, backend.RepositoriesCount)
	require.Equal(t, []string{"api", "worker"}, backend.Repositories)
	// Суммарный темп: 2/30 + 1/30 = 0.1.
	require.InDelta(t, 0.1, backend.PRThroughput, 1e-9)
	// Средний размер смерженного PR: (120 + 60 + 35) / 3 ≈ 72.
	require.InDelta(t, 72.0, backend.AvgPRSize, 1e-9)
	require.Equal(t, testNow, backend.LastUpdated)
}

func TestGlobalUserMetrics(t *testing.T) {
	t.Parallel()

	client := backendClient()
	// PR за май для второго месяца разбивки.
	may := time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)
	client.prs["worker"] = append(client.prs["worker"], mergedPR(8, "alice", may, 10*time.Hour, 40, 10))

	e := newTestEngine(client, backendTeams())
	gm := e.GlobalUserMetrics(context.Background())

	// Несмерженный PR #3 не учитывается: alice имеет 2 смерженных PR.
	require.Equal(t, 3, gm.TotalContributors)
	require.Equal(t, "alice", gm.GlobalUsers[0].Username)
	require.Equal(t, 2, gm.GlobalUsers[0].TotalPRs)
	require.Equal(t, 2, gm.GlobalUsers[0].MonthsActive)
	require.Equal(t, []string{"api", "worker"}, gm.GlobalUsers[0].Repositories)

	require.Equal(t, 2, gm.TotalMonths)
	require.Equal(t, "2025-06", gm.MonthlyStats[0].MonthKey)
	require.Equal(t, "Jun 2025", gm.MonthlyStats[0].MonthLabel)
	require.Equal(t, "2025-05", gm.MonthlyStats[1].MonthKey)
	require.Equal(t, 3, gm.MonthlyStats[0].TotalPRsMonth)
	require.LessOrEqual(t, len(gm.MonthlyStats[0].Top3Users), 3)

	// Ряды графика выровнены по месяцам, отсутствие активности даёт ноль.
	require.Equal(t, []string{"Jun 2025", "May 2025"}, gm.MonthlyChartData.Labels)
	for _, ds := range gm.MonthlyChartData.Datasets {
		require.Len(t, ds.Data, 2)
		if ds.Label == "carol" {
			require.Equal(t, []int{1, 0}, ds.Data)
		}
	}
}

func TestCacheStatsAndClear(t *testing.T) {
	t.Parallel()

	client := backendClient()
	e := newTestEngine(client, backendTeams())
	ctx := context.Background()

	_, err := e.TeamMetrics(ctx, "backend", domain.Window{})
	require.NoError(t, err)

	st := e.CacheStats()
	require.Positive(t, st.Size)
	require.Equal(t, int((12 * time.Hour).Seconds()), st.TTLSeconds)
	require.Positive(t, st.Breakdown["team_metrics"])
	require.Positive(t, st.Breakdown["repo_metrics"])

	cleared := e.ClearTeamCache("backend")
	require.Positive(t, cleared)

	require.Positive(t, e.ClearCache())
	require.Zero(t, e.CacheStats().Size)
}

func TestClearRepositoryCache(t *testing.T) {
	t.Parallel()

	client := backendClient()
	e := newTestEngine(client, backendTeams())

	_, err := e.TeamMetrics(context.Background(), "backend", domain.Window{})
	require.NoError(t, err)

	cleared := e.ClearRepositoryCache("worker")
	require.Positive(t, cleared)
	for _, key := range e.cache.Keys() {
		require.NotContains(t, key, "worker")
	}
}
