package stats

import (
	"fmt"
	"time"

	"github.com/engintanrikulu/developer-metrics-dashboard/internal/domain"
)

const (
	humanDateLayout  = "Jan 02, 2006"
	monthYearLayout  = "January 2006"
	filterDateLayout = "2006-01-02"
)

// SummarizeDateRange определяет фактический диапазон дат создания PR.
func SummarizeDateRange(records []domain.PRRecord) domain.DateRange {
	if len(records) == 0 {
		return domain.DateRange{
			FormattedRange: "No data available for the selected period",
			HasData:        false,
		}
	}

	start := records[0].CreatedAt
	end := records[0].CreatedAt
	for _, r := range records[1:] {
		if r.CreatedAt.Before(start) {
			start = r.CreatedAt
		}
		if r.CreatedAt.After(end) {
			end = r.CreatedAt
		}
	}

	startFmt := start.Format(humanDateLayout)
	endFmt := end.Format(humanDateLayout)

	formatted := startFmt
	if !sameDay(start, end) {
		formatted = fmt.Sprintf("%s – %s", startFmt, endFmt)
	}

	return domain.DateRange{
		StartDate:      &start,
		EndDate:        &end,
		FormattedRange: formatted,
		HasData:        true,
		TotalDays:      int(end.Sub(start).Hours()/24) + 1,
	}
}

// FormatFilterDescription строит человекочитаемое описание фильтра по датам.
func FormatFilterDescription(startDate, endDate string) string {
	if startDate == "" && endDate == "" {
		return "All available data"
	}

	start, startErr := time.Parse(filterDateLayout, startDate)
	end, endErr := time.Parse(filterDateLayout, endDate)

	switch {
	case startDate != "" && endDate != "":
		if startErr != nil || endErr != nil {
			return fmt.Sprintf("Date range: %s to %s", startDate, endDate)
		}
		if start.Year() == end.Year() && start.Month() == end.Month() {
			return fmt.Sprintf("%s (%s → %s)", start.Format(monthYearLayout), startDate, endDate)
		}
		return fmt.Sprintf("%s → %s", start.Format(humanDateLayout), end.Format(humanDateLayout))
	case startDate != "":
		if startErr != nil {
			return fmt.Sprintf("Date range: %s to N/A", startDate)
		}
		return fmt.Sprintf("From %s", start.Format(humanDateLayout))
	default:
		if endErr != nil {
			return fmt.Sprintf("Date range: N/A to %s", endDate)
		}
		return fmt.Sprintf("Until %s", end.Format(humanDateLayout))
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
