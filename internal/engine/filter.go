package engine

import (
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/domain"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/stats"
)

// filterByWindow сужает закэшированные метрики команды до диапазона дат.
// Все производные метрики пересчитываются только из отфильтрованных записей
// pr_data, без обращений к API. Операция идемпотентна: повторное сужение
// тем же диапазоном даёт тот же результат.
func (e *Engine) filterByWindow(tm domain.TeamMetrics, window domain.Window) domain.TeamMetrics {
	filtered := make([]domain.RepositoryMetrics, 0, len(tm.Metrics))
	allRecords := make([]domain.PRRecord, 0)

	for _, m := range tm.Metrics {
		records := stats.FilterByWindow(m.PRData, window)
		nm := stats.Compute(m.Repository, records, e.opts.WindowDays)
		nm.Error = m.Error

		filtered = append(filtered, nm)
		allRecords = append(allRecords, records...)
	}

	overall := stats.SummarizeDateRange(allRecords)
	overall.AppliedStartDate = window.Start
	overall.AppliedEndDate = window.End
	overall.FilterDescription = stats.FormatFilterDescription(window.Start, window.End)

	return domain.TeamMetrics{
		Metrics:          filtered,
		TopReviewLatency: stats.TopReviewLatencies(allRecords, 5),
		TeamLeaderboard:  stats.TeamLeaderboard(filtered),
		OverallDateRange: overall,
		AppliedFilters:   domain.Filter{StartDate: window.Start, EndDate: window.End},
	}
}
