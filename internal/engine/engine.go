// Package engine связывает кэш, клиент API и расчёт метрик:
// выбирает стратегию кэширования, параллельно загружает данные
// репозиториев и собирает командные и глобальные агрегаты.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/engintanrikulu/developer-metrics-dashboard/internal/cache"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/config"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/domain"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/github"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/infrastructure/nower"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/logging"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/metrics"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/stats"
)

const rateLimitKey = "rate_limit"

// Options — параметры работы движка метрик.
type Options struct {
	WindowDays    int
	ErrorTTL      time.Duration
	MaxConcurrent int
	RequestDelay  time.Duration
}

// Engine — фасад расчёта метрик: единственная точка входа для HTTP-слоя.
type Engine struct {
	cache  *cache.Cache
	client github.Client
	teams  config.Teams
	clock  nower.Nower
	opts   Options
}

// New создаёт движок метрик.
func New(c *cache.Cache, client github.Client, teams config.Teams, clock nower.Nower, opts Options) *Engine {
	return &Engine{
		cache:  c,
		client: client,
		teams:  teams,
		clock:  clock,
		opts:   opts,
	}
}

// TeamNames возвращает имена команд в порядке объявления в конфигурации.
func (e *Engine) TeamNames() []string {
	return e.teams.Names()
}

// TeamMetrics возвращает метрики всех репозиториев команды с опциональным
// фильтром по датам создания PR. Ошибки отдельных репозиториев не прерывают
// расчёт: такие репозитории получают заглушку с полем error.
func (e *Engine) TeamMetrics(ctx context.Context, team string, window domain.Window) (domain.TeamMetrics, error) {
	repos, ok := e.teams.Repositories(team)
	if !ok {
		return domain.TeamMetrics{}, logging.WrapError(ctx, domain.ErrTeamNotFound)
	}

	ctx = logging.WithLogTeamName(ctx, team)

	plan := e.planFor(team, window)
	ctx = logging.WithLogCacheStrategy(ctx, string(plan.strategy))
	metrics.IncTeamComputation(string(plan.strategy))

	if plan.key != "" {
		if cached, hit := e.cache.Get(plan.key); hit {
			if tm, isTeamMetrics := cached.(domain.TeamMetrics); isTeamMetrics {
				slog.InfoContext(logging.WithLogCacheKey(ctx, plan.key), "using cached team metrics")
				if plan.filterFromCache {
					return e.filterByWindow(tm, window), nil
				}
				return tm, nil
			}
		}
	}

	slog.InfoContext(ctx, "calculating fresh team metrics",
		"repositories", len(repos), "window_start", window.Start, "window_end", window.End)

	// Проверка квоты и доступа выполняется один раз до веера по репозиториям.
	e.checkRateLimit(ctx)
	if err := e.client.CheckAccess(ctx, repos[0]); err != nil {
		slog.WarnContext(ctx, "api access check failed", "error", err)
	}

	// Для стратегии по умолчанию репозитории загружаются без фильтра дат:
	// закэшированный полный набор затем можно сужать без новых запросов.
	repoWindow := window
	if plan.strategy == strategyDefault {
		repoWindow = domain.Window{}
	}

	repoMetrics := e.fetchRepositories(ctx, repos, repoWindow)

	allRecords := make([]domain.PRRecord, 0)
	for _, m := range repoMetrics {
		allRecords = append(allRecords, m.PRData...)
	}

	overall := stats.SummarizeDateRange(allRecords)
	if !window.IsZero() {
		overall.AppliedStartDate = window.Start
		overall.AppliedEndDate = window.End
		overall.FilterDescription = stats.FormatFilterDescription(window.Start, window.End)
	}

	result := domain.TeamMetrics{
		Metrics:          repoMetrics,
		TopReviewLatency: stats.TopReviewLatencies(allRecords, 5),
		TeamLeaderboard:  stats.TeamLeaderboard(repoMetrics),
		OverallDateRange: overall,
		AppliedFilters:   domain.Filter{StartDate: window.Start, EndDate: window.End},
	}

	if plan.store && plan.key != "" {
		e.cache.Set(plan.key, result)
		slog.InfoContext(logging.WithLogCacheKey(ctx, plan.key), "cached team metrics")
	}

	return result, nil
}

// ClearCache очищает весь кэш и возвращает количество удалённых записей.
func (e *Engine) ClearCache() int {
	return e.cache.Clear()
}

// ClearTeamCache очищает записи кэша команды.
func (e *Engine) ClearTeamCache(team string) int {
	return e.cache.ClearTeam(team)
}

// ClearRepositoryCache очищает записи кэша, связанные с репозиторием.
func (e *Engine) ClearRepositoryCache(repo string) int {
	return e.cache.ClearRepository(repo)
}

// CacheStats возвращает статистику кэша с разбивкой по видам ключей.
func (e *Engine) CacheStats() domain.CacheStats {
	keys := e.cache.Keys()

	breakdown := make(map[string]int)
	for _, k := range keys {
		breakdown[cache.KindOf(k)]++
	}

	return domain.CacheStats{
		Size:       len(keys),
		TTLSeconds: int(e.cache.DefaultTTL().Seconds()),
		Breakdown:  breakdown,
	}
}

// checkRateLimit проверяет квоту API, кэшируя снимок на короткий срок.
// Недоступность квоты не прерывает расчёт.
func (e *Engine) checkRateLimit(ctx context.Context) {
	if cached, ok := e.cache.Get(rateLimitKey); ok {
		if limit, isLimit := cached.(domain.RateLimit); isLimit {
			slog.InfoContext(ctx, "using cached rate limit", "remaining", limit.Remaining)
			return
		}
	}

	limit, err := e.client.RateLimit(ctx)
	if err != nil {
		slog.WarnContext(ctx, "rate limit check failed", "error", err)
		return
	}

	e.cache.SetTTL(rateLimitKey, limit, e.opts.ErrorTTL)
	slog.InfoContext(ctx, "rate limit checked", "remaining", limit.Remaining, "limit", limit.Limit)
}
