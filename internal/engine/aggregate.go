package engine

import (
	"context"
	"log/slog"
	"math"

	"github.com/engintanrikulu/developer-metrics-dashboard/internal/domain"
)

// AllTeamsMetrics собирает сводки по всем командам для сравнения между собой.
// Сбой команды не прерывает обзор: такая команда получает сводку с полем error.
func (e *Engine) AllTeamsMetrics(ctx context.Context) domain.TeamsOverview {
	names := e.teams.Names()
	summaries := make([]domain.TeamSummary, 0, len(names))

	for _, name := range names {
		tm, err := e.TeamMetrics(ctx, name, domain.Window{})
		if err != nil {
			slog.ErrorContext(ctx, "team summary failed", "team", name, "error", err)
			summaries = append(summaries, domain.TeamSummary{
				TeamName:     name,
				LastUpdated:  e.clock.Now(),
				Repositories: []string{},
				Error:        err.Error(),
			})
			continue
		}
		summaries = append(summaries, e.teamSummary(name, tm))
	}

	return domain.TeamsOverview{
		Teams:       summaries,
		TotalTeams:  len(names),
		LastUpdated: e.clock.Now(),
	}
}

// teamSummary агрегирует метрики репозиториев команды в одну сводку:
// суммарный темп мержей, среднее время до ревью по репозиториям с данными
// и средний размер смерженного PR.
func (e *Engine) teamSummary(name string, tm domain.TeamMetrics) domain.TeamSummary {
	totalThroughput := 0.0
	latencySum := 0.0
	latencyCount := 0

	sizeSum := 0
	sizeCount := 0
	totalMerged := 0

	repositories := make([]string, 0, len(tm.Metrics))
	for _, m := range tm.Metrics {
		repositories = append(repositories, m.Repository)
		totalThroughput += m.PRThroughput

		if m.ReviewLatencyHours > 0 {
			latencySum += m.ReviewLatencyHours
			latencyCount++
		}

		for _, r := range m.PRData {
			if !r.Merged() {
				continue
			}
			totalMerged++
			if r.TotalLinesChanged > 0 {
				sizeSum += r.TotalLinesChanged
				sizeCount++
			}
		}
	}

	avgLatency := 0.0
	if latencyCount > 0 {
		avgLatency = latencySum / float64(latencyCount)
	}
	avgSize := 0.0
	if sizeCount > 0 {
		avgSize = float64(sizeSum) / float64(sizeCount)
	}

	return domain.TeamSummary{
		TeamName:          name,
		PRThroughput:      round2(totalThroughput),
		AvgMergeTimeHours: round2(avgLatency),
		AvgPRSize:         math.Round(avgSize),
		TotalMergedPRs:    totalMerged,
		LastUpdated:       e.clock.Now(),
		RepositoriesCount: len(repositories),
		Repositories:      repositories,
		DateRange:         tm.OverallDateRange,
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
