package engine

import (
	"fmt"
	"time"

	"github.com/engintanrikulu/developer-metrics-dashboard/internal/domain"
)

type strategy string

const (
	strategyDefault         strategy = "default"
	strategyQuickMonth      strategy = "quick_month"
	strategyFilterFromMonth strategy = "filter_from_month_cache"
	strategyCustomRange     strategy = "custom_date_range"
)

// cachePlan — решение о кэшировании запроса метрик команды.
type cachePlan struct {
	strategy        strategy
	key             string
	store           bool
	filterFromCache bool
}

// planFor выбирает стратегию кэширования по виду фильтра:
//   - без фильтра — ключ команды по умолчанию;
//   - ровно календарный месяц — помесячный ключ;
//   - произвольный диапазон внутри месяца с живым помесячным кэшем —
//     фильтрация из него без записи в кэш;
//   - прочие диапазоны — без кэширования.
func (e *Engine) planFor(team string, window domain.Window) cachePlan {
	if window.IsZero() {
		return cachePlan{
			strategy: strategyDefault,
			key:      teamDefaultKey(team),
			store:    true,
		}
	}

	if year, month, ok := fullMonth(window); ok {
		return cachePlan{
			strategy: strategyQuickMonth,
			key:      teamMonthKey(team, year, month),
			store:    true,
		}
	}

	if key, ok := e.coveringMonthKey(team, window); ok {
		return cachePlan{
			strategy:        strategyFilterFromMonth,
			key:             key,
			filterFromCache: true,
		}
	}

	return cachePlan{strategy: strategyCustomRange}
}

// fullMonth сообщает, покрывает ли окно ровно один календарный месяц.
func fullMonth(window domain.Window) (int, time.Month, bool) {
	start, err := time.Parse("2006-01-02", window.Start)
	if err != nil {
		return 0, 0, false
	}
	end, err := time.Parse("2006-01-02", window.End)
	if err != nil {
		return 0, 0, false
	}

	if start.Day() != 1 {
		return 0, 0, false
	}

	lastDay := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1)
	if !end.Equal(lastDay) {
		return 0, 0, false
	}

	return start.Year(), start.Month(), true
}

// coveringMonthKey ищет живой помесячный кэш, полностью покрывающий окно.
func (e *Engine) coveringMonthKey(team string, window domain.Window) (string, bool) {
	start, err := time.Parse("2006-01-02", window.Start)
	if err != nil {
		return "", false
	}
	end, err := time.Parse("2006-01-02", window.End)
	if err != nil {
		return "", false
	}

	if start.Year() != end.Year() || start.Month() != end.Month() {
		return "", false
	}

	key := teamMonthKey(team, start.Year(), start.Month())
	if _, ok := e.cache.Get(key); !ok {
		return "", false
	}
	return key, true
}

func teamDefaultKey(team string) string {
	return team + "_last30PR"
}

func teamMonthKey(team string, year int, month time.Month) string {
	return fmt.Sprintf("%s_month_%04d-%02d", team, year, int(month))
}
