package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total cache hits by key kind.",
		},
		[]string{"kind"},
	)
	cacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total cache misses by key kind.",
		},
		[]string{"kind"},
	)
	upstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total requests to the upstream API by endpoint and status.",
		},
		[]string{"endpoint", "status"},
	)
	upstreamRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "upstream_retries_total",
			Help: "Total retried upstream requests.",
		},
	)
	teamComputations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "team_computations_total",
			Help: "Total team metric computations by cache strategy.",
		},
		[]string{"strategy"},
	)
	repoFetchErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "repository_fetch_errors_total",
			Help: "Total failed repository metric fetches.",
		},
	)
	rateLimitRemaining = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "upstream_rate_limit_remaining",
			Help: "Remaining upstream API rate limit quota.",
		},
	)
)

// IncCacheHit увеличивает счётчик попаданий в кэш.
func IncCacheHit(kind string) {
	cacheHits.WithLabelValues(kind).Inc()
}

// IncCacheMiss увеличивает счётчик промахов кэша.
func IncCacheMiss(kind string) {
	cacheMisses.WithLabelValues(kind).Inc()
}

// IncUpstreamRequest увеличивает счётчик запросов к API хостинга.
func IncUpstreamRequest(endpoint, status string) {
	upstreamRequests.WithLabelValues(endpoint, status).Inc()
}

// IncUpstreamRetry увеличивает счётчик повторных запросов.
func IncUpstreamRetry() {
	upstreamRetries.Inc()
}

// IncTeamComputation увеличивает счётчик расчётов метрик команды.
func IncTeamComputation(strategy string) {
	teamComputations.WithLabelValues(strategy).Inc()
}

// IncRepoFetchError увеличивает счётчик неудачных загрузок репозитория.
func IncRepoFetchError() {
	repoFetchErrors.Inc()
}

// SetRateLimitRemaining записывает остаток квоты API.
func SetRateLimitRemaining(remaining int) {
	rateLimitRemaining.Set(float64(remaining))
}
