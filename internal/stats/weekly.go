package stats

import (
	"sort"
	"time"

	"github.com/engintanrikulu/developer-metrics-dashboard/internal/domain"
)

const weekLabelLayout = "Jan 02"

// WeeklyCounts группирует PR по неделям создания (неделя начинается
// с понедельника) и возвращает последние четыре недели, от старой к новой.
func WeeklyCounts(records []domain.PRRecord) []domain.WeekBucket {
	if len(records) == 0 {
		return []domain.WeekBucket{}
	}

	byWeek := make(map[string]*domain.WeekBucket)
	for _, r := range records {
		start := mondayOf(r.CreatedAt)
		key := start.Format("2006-01-02")

		b, ok := byWeek[key]
		if !ok {
			b = &domain.WeekBucket{
				WeekStart: start,
				WeekLabel: start.Format(weekLabelLayout),
			}
			byWeek[key] = b
		}

		b.TotalPRs++
		if r.Merged() {
			b.MergedPRs++
		}
	}

	weeks := make([]domain.WeekBucket, 0, len(byWeek))
	for _, b := range byWeek {
		weeks = append(weeks, *b)
	}
	sort.Slice(weeks, func(i, j int) bool {
		return weeks[i].WeekStart.After(weeks[j].WeekStart)
	})

	if len(weeks) > 4 {
		weeks = weeks[:4]
	}

	// От старой недели к новой.
	for i, j := 0, len(weeks)-1; i < j; i, j = i+1, j-1 {
		weeks[i], weeks[j] = weeks[j], weeks[i]
	}
	return weeks
}

// mondayOf возвращает начало недели (понедельник, полночь) для момента времени.
func mondayOf(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
