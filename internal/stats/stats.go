// Package stats содержит чистые функции расчёта метрик по записям PR.
// Все функции детерминированы и не обращаются ни к кэшу, ни к API:
// это позволяет одинаково пересчитывать метрики и по свежим данным,
// и при фильтрации закэшированных записей по диапазону дат.
package stats

import (
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/domain"
)

// Compute собирает все производные метрики репозитория из записей PR.
// Инвариант результата: TotalPRs == len(PRData).
func Compute(repo string, records []domain.PRRecord, windowDays int) domain.RepositoryMetrics {
	weekly := WeeklyCounts(records)

	totalCreated := 0
	totalMerged := 0
	for _, w := range weekly {
		totalCreated += w.TotalPRs
		totalMerged += w.MergedPRs
	}

	return domain.RepositoryMetrics{
		Repository:         repo,
		PRThroughput:       Throughput(records, windowDays),
		ReviewLatencyHours: MeanReviewLatency(records),
		CommitToMergeHours: MeanCommitToMerge(records),
		TotalPRs:           len(records),
		PRData:             records,
		WeeklyCounts:       weekly,
		WeeklyTotalCreated: totalCreated,
		WeeklyTotalMerged:  totalMerged,
		Leaderboard:        Leaderboard(records, repo),
		DateRange:          SummarizeDateRange(records),
	}
}

// Throughput — среднее количество смерженных PR в день за окно наблюдения.
func Throughput(records []domain.PRRecord, windowDays int) float64 {
	if windowDays <= 0 {
		return 0
	}

	merged := 0
	for _, r := range records {
		if r.Merged() {
			merged++
		}
	}
	if merged == 0 {
		return 0
	}

	return float64(merged) / float64(windowDays)
}

// MeanReviewLatency — среднее время от создания PR до первого ревью в часах.
// PR без ревью в расчёте не участвуют.
func MeanReviewLatency(records []domain.PRRecord) float64 {
	sum := 0.0
	n := 0
	for _, r := range records {
		if r.ReviewLatencyHours != nil {
			sum += *r.ReviewLatencyHours
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// MeanCommitToMerge — среднее время от первого коммита до мержа в часах.
// Учитываются только смерженные PR с известным первым коммитом.
func MeanCommitToMerge(records []domain.PRRecord) float64 {
	sum := 0.0
	n := 0
	for _, r := range records {
		if !r.Merged() || r.FirstCommitAt == nil {
			continue
		}
		sum += r.MergedAt.Sub(*r.FirstCommitAt).Hours()
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// FilterByWindow возвращает записи, чья дата создания попадает в диапазон.
func FilterByWindow(records []domain.PRRecord, w domain.Window) []domain.PRRecord {
	if w.IsZero() {
		return records
	}

	filtered := make([]domain.PRRecord, 0, len(records))
	for _, r := range records {
		if w.Contains(r.CreatedAt) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
