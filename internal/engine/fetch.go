package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/engintanrikulu/developer-metrics-dashboard/internal/domain"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/metrics"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/stats"
)

// repoMetrics считает метрики одного репозитория с кэшированием результата.
// Ошибки не возвращаются: при сбое отдаётся заглушка с полем error,
// закэшированная на короткий срок.
func (e *Engine) repoMetrics(ctx context.Context, repo string, window domain.Window) domain.RepositoryMetrics {
	key := e.repoMetricsKey(repo, window)
	if cached, ok := e.cache.Get(key); ok {
		if m, isMetrics := cached.(domain.RepositoryMetrics); isMetrics {
			return m
		}
	}

	prs, err := e.cachedPullRequests(ctx, repo, window)
	if err != nil {
		slog.ErrorContext(ctx, "repository metrics failed", "repository", repo, "error", err)
		metrics.IncRepoFetchError()

		placeholder := errorMetrics(repo, err)
		e.cache.SetTTL(key, placeholder, e.opts.ErrorTTL)
		return placeholder
	}

	mergedNumbers := make([]int, 0, len(prs))
	for _, pr := range prs {
		if pr.Merged() {
			mergedNumbers = append(mergedNumbers, pr.Number)
		}
	}

	reviews, details := e.fetchPRData(ctx, repo, mergedNumbers, prs)
	commits := e.cachedCommits(ctx, repo, mergedNumbers)

	records := stats.BuildPRRecords(repo, prs, details, reviews, commits)
	result := stats.Compute(repo, records, e.opts.WindowDays)

	e.cache.Set(key, result)
	return result
}

// cachedPullRequests возвращает закрытые PR репозитория, загружая их при промахе.
// При ошибке загрузки пустой список кэшируется на короткий срок,
// чтобы не бомбить недоступный репозиторий повторными запросами.
func (e *Engine) cachedPullRequests(ctx context.Context, repo string, window domain.Window) ([]domain.PullRequest, error) {
	key := e.prsKey(repo, window)
	if cached, ok := e.cache.Get(key); ok {
		if prs, isPRs := cached.([]domain.PullRequest); isPRs {
			return prs, nil
		}
	}

	prs, err := e.client.ListClosedPullRequests(ctx, repo, window)
	if err != nil {
		e.cache.SetTTL(key, []domain.PullRequest{}, e.opts.ErrorTTL)
		return nil, fmt.Errorf("list pull requests: %w", err)
	}

	e.cache.Set(key, prs)
	return prs, nil
}

// fetchPRData параллельно загружает ревью и детальные данные PR.
// Сбой любой из веток сводится к пустому результату этой ветки.
func (e *Engine) fetchPRData(ctx context.Context, repo string, numbers []int, prs []domain.PullRequest) (map[int][]domain.Review, map[int]domain.PullRequest) {
	if len(numbers) == 0 {
		return map[int][]domain.Review{}, map[int]domain.PullRequest{}
	}

	var (
		reviews map[int][]domain.Review
		details map[int]domain.PullRequest
	)

	var g errgroup.Group
	g.Go(func() error {
		reviews = e.cachedReviews(ctx, repo, numbers)
		e.politeDelay(ctx)
		return nil
	})
	g.Go(func() error {
		details = e.cachedDetails(ctx, repo, numbers, prs)
		e.politeDelay(ctx)
		return nil
	})
	_ = g.Wait()

	return reviews, details
}

// cachedReviews возвращает ревью по номерам PR из пакетного кэша.
// Кэш используется только если покрывает все запрошенные номера,
// иначе весь пакет загружается заново.
func (e *Engine) cachedReviews(ctx context.Context, repo string, numbers []int) map[int][]domain.Review {
	key := "all_reviews_" + repo
	if cached, ok := e.cache.Get(key); ok {
		if m, isMap := cached.(map[int][]domain.Review); isMap && coversReviews(m, numbers) {
			return m
		}
	}

	result := make(map[int][]domain.Review, len(numbers))
	for _, number := range numbers {
		e.politeDelay(ctx)
		rs, err := e.client.ListReviews(ctx, repo, number)
		if err != nil {
			slog.WarnContext(ctx, "reviews fetch failed", "repository", repo, "pr_number", number, "error", err)
			rs = []domain.Review{}
		}
		result[number] = rs
	}

	e.cache.Set(key, result)
	return result
}

// cachedDetails возвращает PR с additions/deletions из пакетного кэша.
// При сбое отдельного PR используются данные из списка без статистики строк.
func (e *Engine) cachedDetails(ctx context.Context, repo string, numbers []int, prs []domain.PullRequest) map[int]domain.PullRequest {
	key := "detailed_prs_" + repo
	if cached, ok := e.cache.Get(key); ok {
		if m, isMap := cached.(map[int]domain.PullRequest); isMap && coversDetails(m, numbers) {
			return m
		}
	}

	byNumber := make(map[int]domain.PullRequest, len(prs))
	for _, pr := range prs {
		byNumber[pr.Number] = pr
	}

	result := make(map[int]domain.PullRequest, len(numbers))
	for _, number := range numbers {
		e.politeDelay(ctx)
		detail, err := e.client.GetPullRequestDetail(ctx, repo, number)
		if err != nil {
			slog.WarnContext(ctx, "detailed PR fetch failed", "repository", repo, "pr_number", number, "error", err)
			detail = byNumber[number]
			detail.Additions = 0
			detail.Deletions = 0
		}
		result[number] = detail
	}

	e.cache.Set(key, result)
	return result
}

// cachedCommits возвращает коммиты по номерам PR из пакетного кэша.
func (e *Engine) cachedCommits(ctx context.Context, repo string, numbers []int) map[int][]domain.Commit {
	if len(numbers) == 0 {
		return map[int][]domain.Commit{}
	}

	key := "all_commits_" + repo
	if cached, ok := e.cache.Get(key); ok {
		if m, isMap := cached.(map[int][]domain.Commit); isMap && coversCommits(m, numbers) {
			return m
		}
	}

	result := make(map[int][]domain.Commit, len(numbers))
	for _, number := range numbers {
		e.politeDelay(ctx)
		cs, err := e.client.ListCommits(ctx, repo, number)
		if err != nil {
			slog.WarnContext(ctx, "commits fetch failed", "repository", repo, "pr_number", number, "error", err)
			cs = []domain.Commit{}
		}
		result[number] = cs
	}

	e.cache.Set(key, result)
	return result
}

func coversReviews(m map[int][]domain.Review, numbers []int) bool {
	for _, n := range numbers {
		if _, ok := m[n]; !ok {
			return false
		}
	}
	return true
}

func coversDetails(m map[int]domain.PullRequest, numbers []int) bool {
	for _, n := range numbers {
		if _, ok := m[n]; !ok {
			return false
		}
	}
	return true
}

func coversCommits(m map[int][]domain.Commit, numbers []int) bool {
	for _, n := range numbers {
		if _, ok := m[n]; !ok {
			return false
		}
	}
	return true
}

// politeDelay выдерживает паузу между запросами к API, уважая отмену контекста.
func (e *Engine) politeDelay(ctx context.Context) {
	if e.opts.RequestDelay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(e.opts.RequestDelay):
	}
}

// repoMetricsKey строит ключ кэша метрик репозитория с учётом окна дат.
func (e *Engine) repoMetricsKey(repo string, window domain.Window) string {
	parts := []string{"repo_metrics", repo}
	if window.Start != "" {
		parts = append(parts, "start_"+window.Start)
	}
	if window.End != "" {
		parts = append(parts, "end_"+window.End)
	}
	return strings.Join(parts, "_")
}

// prsKey строит ключ кэша списка PR с учётом окна дат.
func (e *Engine) prsKey(repo string, window domain.Window) string {
	parts := []string{"prs", repo, fmt.Sprintf("%d", e.opts.WindowDays)}
	if window.Start != "" {
		parts = append(parts, "start_"+window.Start)
	}
	if window.End != "" {
		parts = append(parts, "end_"+window.End)
	}
	return strings.Join(parts, "_")
}

// errorMetrics собирает заглушку метрик недоступного репозитория.
func errorMetrics(repo string, err error) domain.RepositoryMetrics {
	return domain.RepositoryMetrics{
		Repository:   repo,
		PRData:       []domain.PRRecord{},
		WeeklyCounts: []domain.WeekBucket{},
		Leaderboard:  []domain.ContributorStat{},
		DateRange: domain.DateRange{
			FormattedRange: "No data available due to error",
			HasData:        false,
		},
		Error: err.Error(),
	}
}
