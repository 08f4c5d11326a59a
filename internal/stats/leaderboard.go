package stats

import (
	"math"
	"sort"

	"github.com/engintanrikulu/developer-metrics-dashboard/internal/domain"
)

const leaderboardLimit = 5

// Leaderboard строит топ-5 контрибьюторов репозитория по количеству PR.
// При равном количестве сохраняется порядок первого появления автора.
func Leaderboard(records []domain.PRRecord, repo string) []domain.ContributorStat {
	if len(records) == 0 {
		return []domain.ContributorStat{}
	}

	type acc struct {
		prs       int
		additions int
		deletions int
		lines     int
	}

	order := make([]string, 0)
	byUser := make(map[string]*acc)

	for _, r := range records {
		a, ok := byUser[r.Author]
		if !ok {
			a = &acc{}
			byUser[r.Author] = a
			order = append(order, r.Author)
		}
		a.prs++
		a.additions += r.Additions
		a.deletions += r.Deletions
		a.lines += r.TotalLinesChanged
	}

	board := make([]domain.ContributorStat, 0, len(order))
	for _, user := range order {
		a := byUser[user]
		board = append(board, domain.ContributorStat{
			Username:          user,
			TotalPRs:          a.prs,
			AvgPRSize:         round1(float64(a.lines) / float64(a.prs)),
			TotalLinesChanged: a.lines,
			TotalAdditions:    a.additions,
			TotalDeletions:    a.deletions,
			Repository:        repo,
		})
	}

	sort.SliceStable(board, func(i, j int) bool {
		return board[i].TotalPRs > board[j].TotalPRs
	})
	if len(board) > leaderboardLimit {
		board = board[:leaderboardLimit]
	}
	return board
}

// TeamLeaderboard агрегирует лидерборды репозиториев в командный топ-5.
// Средний размер PR считается по среднему размера в каждом репозитории,
// взятому столько раз, сколько PR у автора в этом репозитории.
func TeamLeaderboard(metrics []domain.RepositoryMetrics) []domain.TeamContributorStat {
	if len(metrics) == 0 {
		return []domain.TeamContributorStat{}
	}

	type acc struct {
		prs       int
		lines     int
		additions int
		deletions int
		sizeSum   float64
		repos     map[string]struct{}
	}

	order := make([]string, 0)
	byUser := make(map[string]*acc)

	for _, m := range metrics {
		for _, c := range m.Leaderboard {
			a, ok := byUser[c.Username]
			if !ok {
				a = &acc{repos: make(map[string]struct{})}
				byUser[c.Username] = a
				order = append(order, c.Username)
			}
			a.prs += c.TotalPRs
			a.lines += c.TotalLinesChanged
			a.additions += c.TotalAdditions
			a.deletions += c.TotalDeletions
			a.sizeSum += c.AvgPRSize * float64(c.TotalPRs)
			a.repos[m.Repository] = struct{}{}
		}
	}

	board := make([]domain.TeamContributorStat, 0, len(order))
	for _, user := range order {
		a := byUser[user]

		avgSize := 0
		if a.prs > 0 {
			avgSize = int(a.sizeSum / float64(a.prs))
		}

		repos := make([]string, 0, len(a.repos))
		for r := range a.repos {
			repos = append(repos, r)
		}
		sort.Strings(repos)

		board = append(board, domain.TeamContributorStat{
			Username:          user,
			TotalPRs:          a.prs,
			TotalLinesChanged: a.lines,
			TotalAdditions:    a.additions,
			TotalDeletions:    a.deletions,
			AvgPRSize:         avgSize,
			RepositoriesCount: len(repos),
			Repositories:      repos,
		})
	}

	sort.SliceStable(board, func(i, j int) bool {
		return board[i].TotalPRs > board[j].TotalPRs
	})
	if len(board) > leaderboardLimit {
		board = board[:leaderboardLimit]
	}
	return board
}

// TopReviewLatencies возвращает topN записей с наибольшим временем до первого ревью.
func TopReviewLatencies(records []domain.PRRecord, topN int) []domain.PRRecord {
	withLatency := make([]domain.PRRecord, 0, len(records))
	for _, r := range records {
		if r.ReviewLatencyHours != nil {
			withLatency = append(withLatency, r)
		}
	}

	sort.SliceStable(withLatency, func(i, j int) bool {
		return *withLatency[i].ReviewLatencyHours > *withLatency[j].ReviewLatencyHours
	})
	if len(withLatency) > topN {
		withLatency = withLatency[:topN]
	}
	return withLatency
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
