package cachestats

import (
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/domain"
)

// UseCase — статистика по содержимому кэша.
type UseCase interface {
	CacheStats() domain.CacheStats
}
