package engine

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/engintanrikulu/developer-metrics-dashboard/internal/domain"
)

const (
	monthKeyLayout   = "2006-01"
	monthLabelLayout = "Jan 2006"

	top5Limit      = 5
	top3Limit      = 3
	chartUserLimit = 10
)

type globalUserAcc struct {
	prs   int
	lines int
	teams map[string]struct{}
	repos map[string]struct{}
	// Месяцы активности по ключу YYYY-MM.
	months map[string]struct{}
}

type monthlyUserAcc struct {
	prs   int
	lines int
}

type monthAcc struct {
	label     string
	userOrder []string
	users     map[string]*monthlyUserAcc
}

// GlobalUserMetrics агрегирует статистику участников по всем командам
// с помесячной разбивкой. Учитываются только смерженные PR.
func (e *Engine) GlobalUserMetrics(ctx context.Context) domain.GlobalUserMetrics {
	userOrder := make([]string, 0)
	users := make(map[string]*globalUserAcc)
	monthOrder := make([]string, 0)
	months := make(map[string]*monthAcc)

	for _, team := range e.teams.Names() {
		tm, err := e.TeamMetrics(ctx, team, domain.Window{})
		if err != nil {
			slog.ErrorContext(ctx, "skipping team in global user metrics", "team", team, "error", err)
			continue
		}

		for _, m := range tm.Metrics {
			for _, r := range m.PRData {
				if !r.Merged() || r.Author == "" {
					continue
				}

				monthKey := r.CreatedAt.Format(monthKeyLayout)

				u, ok := users[r.Author]
				if !ok {
					u = &globalUserAcc{
						teams:  make(map[string]struct{}),
						repos:  make(map[string]struct{}),
						months: make(map[string]struct{}),
					}
					users[r.Author] = u
					userOrder = append(userOrder, r.Author)
				}
				u.prs++
				u.lines += r.TotalLinesChanged
				u.teams[team] = struct{}{}
				u.repos[m.Repository] = struct{}{}
				u.months[monthKey] = struct{}{}

				mo, ok := months[monthKey]
				if !ok {
					mo = &monthAcc{
						label: r.CreatedAt.Format(monthLabelLayout),
						users: make(map[string]*monthlyUserAcc),
					}
					months[monthKey] = mo
					monthOrder = append(monthOrder, monthKey)
				}
				mu, ok := mo.users[r.Author]
				if !ok {
					mu = &monthlyUserAcc{}
					mo.users[r.Author] = mu
					mo.userOrder = append(mo.userOrder, r.Author)
				}
				mu.prs++
				mu.lines += r.TotalLinesChanged
			}
		}
	}

	globalUsers := make([]domain.GlobalUserStat, 0, len(userOrder))
	for _, username := range userOrder {
		u := users[username]
		globalUsers = append(globalUsers, domain.GlobalUserStat{
			Username:          username,
			TotalPRs:          u.prs,
			TotalLinesChanged: u.lines,
			AvgPRSize:         math.Round(float64(u.lines) / float64(u.prs)),
			TeamsCount:        len(u.teams),
			Teams:             sortedKeys(u.teams),
			RepositoriesCount: len(u.repos),
			Repositories:      sortedKeys(u.repos),
			MonthsActive:      len(u.months),
		})
	}
	sort.SliceStable(globalUsers, func(i, j int) bool {
		return globalUsers[i].TotalPRs > globalUsers[j].TotalPRs
	})

	top5 := globalUsers
	if len(top5) > top5Limit {
		top5 = top5[:top5Limit]
	}

	// От нового месяца к старому.
	sort.Sort(sort.Reverse(sort.StringSlice(monthOrder)))

	monthlyStats := make([]domain.MonthBreakdown, 0, len(monthOrder))
	for _, key := range monthOrder {
		mo := months[key]

		monthUsers := make([]domain.MonthlyUserStat, 0, len(mo.userOrder))
		totalPRs := 0
		for _, username := range mo.userOrder {
			mu := mo.users[username]
			totalPRs += mu.prs
			monthUsers = append(monthUsers, domain.MonthlyUserStat{
				Username:          username,
				TotalPRs:          mu.prs,
				TotalLinesChanged: mu.lines,
				AvgPRSize:         math.Round(float64(mu.lines) / float64(mu.prs)),
			})
		}
		sort.SliceStable(monthUsers, func(i, j int) bool {
			return monthUsers[i].TotalPRs > monthUsers[j].TotalPRs
		})

		top3 := monthUsers
		if len(top3) > top3Limit {
			top3 = top3[:top3Limit]
		}

		monthlyStats = append(monthlyStats, domain.MonthBreakdown{
			MonthKey:      key,
			MonthLabel:    mo.label,
			Users:         monthUsers,
			TotalPRsMonth: totalPRs,
			Top3Users:     top3,
		})
	}

	return domain.GlobalUserMetrics{
		GlobalUsers:       globalUsers,
		MonthlyStats:      monthlyStats,
		Top5Global:        top5,
		MonthlyChartData:  buildMonthlyChart(monthlyStats),
		TotalContributors: len(globalUsers),
		TotalMonths:       len(monthlyStats),
		LastUpdated:       e.clock.Now(),
	}
}

// buildMonthlyChart готовит помесячные ряды десяти самых активных участников.
// Ряды выровнены по месяцам разбивки: отсутствие активности даёт ноль.
func buildMonthlyChart(monthlyStats []domain.MonthBreakdown) domain.MonthlyChartData {
	if len(monthlyStats) == 0 {
		return domain.MonthlyChartData{}
	}

	totalOrder := make([]string, 0)
	totals := make(map[string]int)
	for _, month := range monthlyStats {
		for _, u := range month.Users {
			if _, ok := totals[u.Username]; !ok {
				totalOrder = append(totalOrder, u.Username)
			}
			totals[u.Username] += u.TotalPRs
		}
	}
	sort.SliceStable(totalOrder, func(i, j int) bool {
		return totals[totalOrder[i]] > totals[totalOrder[j]]
	})
	if len(totalOrder) > chartUserLimit {
		totalOrder = totalOrder[:chartUserLimit]
	}

	labels := make([]string, 0, len(monthlyStats))
	for _, month := range monthlyStats {
		labels = append(labels, month.MonthLabel)
	}

	datasets := make([]domain.ChartDataset, 0, len(totalOrder))
	for _, username := range totalOrder {
		data := make([]int, 0, len(monthlyStats))
		for _, month := range monthlyStats {
			prs := 0
			for _, u := range month.Users {
				if u.Username == username {
					prs = u.TotalPRs
					break
				}
			}
			data = append(data, prs)
		}
		datasets = append(datasets, domain.ChartDataset{Label: username, Data: data})
	}

	return domain.MonthlyChartData{Labels: labels, Datasets: datasets}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
