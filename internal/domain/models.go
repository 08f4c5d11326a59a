package domain

import "time"

const dateLayout = "2006-01-02"

// PullRequest содержит сырые данные PR, полученные из API хостинга.
// Идентичность записи — пара (репозиторий, номер); после загрузки запись не изменяется.
type PullRequest struct {
	Number    int
	Title     string
	URL       string
	Author    string
	CreatedAt time.Time
	UpdatedAt time.Time
	MergedAt  *time.Time
	Additions int
	Deletions int
}

// Merged сообщает, был ли PR смержен.
func (p PullRequest) Merged() bool {
	return p.MergedAt != nil
}

// Review описывает код-ревью PR. Для метрик важно только самое раннее по submitted_at.
type Review struct {
	SubmittedAt time.Time
	State       string
	Reviewer    string
}

// Commit описывает коммит внутри PR. Для метрик важен только самый ранний.
type Commit struct {
	SHA        string
	AuthoredAt time.Time
	Message    string
}

// RateLimit отражает состояние квоты API хостинга.
type RateLimit struct {
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	Reset     int64 `json:"reset"`
}

// Window задаёт необязательный диапазон дат в формате YYYY-MM-DD.
// Либо обе границы заданы, либо обе пусты.
type Window struct {
	Start string
	End   string
}

// IsZero сообщает, что фильтр по датам не задан.
func (w Window) IsZero() bool {
	return w.Start == "" && w.End == ""
}

// Contains проверяет попадание момента времени в диапазон (включительно).
// Сравниваются строки дат YYYY-MM-DD: лексикографический порядок совпадает с хронологическим.
func (w Window) Contains(t time.Time) bool {
	day := t.Format(dateLayout)
	if w.Start != "" && day < w.Start {
		return false
	}
	if w.End != "" && day > w.End {
		return false
	}
	return true
}

// PRRecord — запись pr_data, сохраняемая внутри RepositoryMetrics.
// Содержит всё необходимое для пересчёта производных метрик при фильтрации
// по диапазону дат без повторных обращений к API.
type PRRecord struct {
	Repository         string     `json:"repository"`
	Number             int        `json:"pr_number"`
	Title              string     `json:"pr_title"`
	URL                string     `json:"pr_url"`
	Author             string     `json:"author"`
	CreatedAt          time.Time  `json:"created_at"`
	MergedAt           *time.Time `json:"merged_at"`
	Additions          int        `json:"additions"`
	Deletions          int        `json:"deletions"`
	TotalLinesChanged  int        `json:"total_lines_changed"`
	FirstReviewAt      *time.Time `json:"first_review_at"`
	ReviewLatencyHours *float64   `json:"mr_time_hours"`
	FirstCommitAt      *time.Time `json:"first_commit_at"`
}

// Merged сообщает, был ли PR записи смержен.
func (r PRRecord) Merged() bool {
	return r.MergedAt != nil
}

// WeekBucket — количество PR за одну неделю (начало недели — понедельник).
type WeekBucket struct {
	WeekStart time.Time `json:"week_start"`
	WeekLabel string    `json:"week_label"`
	TotalPRs  int       `json:"total_prs"`
	MergedPRs int       `json:"merged_prs"`
}

// ContributorStat — позиция в лидерборде одного репозитория.
type ContributorStat struct {
	Username          string  `json:"username"`
	TotalPRs          int     `json:"total_prs"`
	AvgPRSize         float64 `json:"avg_pr_size"`
	TotalLinesChanged int     `json:"total_lines_changed"`
	TotalAdditions    int     `json:"total_additions"`
	TotalDeletions    int     `json:"total_deletions"`
	Repository        string  `json:"repository"`
}

// TeamContributorStat — позиция в командном лидерборде (суммы по всем репозиториям команды).
type TeamContributorStat struct {
	Username          string   `json:"username"`
	TotalPRs          int      `json:"total_prs"`
	TotalLinesChanged int      `json:"total_lines_changed"`
	TotalAdditions    int      `json:"total_additions"`
	TotalDeletions    int      `json:"total_deletions"`
	AvgPRSize         int      `json:"avg_pr_size"`
	RepositoriesCount int      `json:"repositories_count"`
	Repositories      []string `json:"repositories"`
}

// DateRange описывает фактически наблюдаемый диапазон дат создания PR.
type DateRange struct {
	StartDate         *time.Time `json:"start_date"`
	EndDate           *time.Time `json:"end_date"`
	FormattedRange    string     `json:"formatted_range"`
	HasData           bool       `json:"has_data"`
	TotalDays         int        `json:"total_days,omitempty"`
	AppliedStartDate  string     `json:"applied_start_date,omitempty"`
	AppliedEndDate    string     `json:"applied_end_date,omitempty"`
	FilterDescription string     `json:"filter_description,omitempty"`
}

// RepositoryMetrics — производный агрегат по одному репозиторию за окно наблюдения.
// Инвариант: TotalPRs == len(PRData).
type RepositoryMetrics struct {
	Repository         string            `json:"repository"`
	PRThroughput       float64           `json:"pr_throughput"`
	ReviewLatencyHours float64           `json:"mr_time"`
	CommitToMergeHours float64           `json:"first_commit_to_merge"`
	TotalPRs           int               `json:"total_prs"`
	PRData             []PRRecord        `json:"pr_data"`
	WeeklyCounts       []WeekBucket      `json:"weekly_counts"`
	WeeklyTotalCreated int               `json:"weekly_total_created"`
	WeeklyTotalMerged  int               `json:"weekly_total_merged"`
	Leaderboard        []ContributorStat `json:"leaderboard"`
	DateRange          DateRange         `json:"date_range"`
	Error              string            `json:"error,omitempty"`
}

// Filter — фильтр по датам, применённый к TeamMetrics.
type Filter struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// TeamMetrics — набор метрик всех репозиториев команды.
type TeamMetrics struct {
	Metrics          []RepositoryMetrics   `json:"metrics"`
	TopReviewLatency []PRRecord            `json:"top_5_mr_times"`
	TeamLeaderboard  []TeamContributorStat `json:"team_leaderboard"`
	OverallDateRange DateRange             `json:"overall_date_range"`
	AppliedFilters   Filter                `json:"applied_filters"`
}

// TeamSummary — сводка по одной команде для сравнения команд между собой.
type TeamSummary struct {
	TeamName          string    `json:"team_name"`
	PRThroughput      float64   `json:"pr_throughput"`
	AvgMergeTimeHours float64   `json:"avg_merge_time"`
	AvgPRSize         float64   `json:"avg_pr_size"`
	TotalMergedPRs    int       `json:"total_merged_prs"`
	LastUpdated       time.Time `json:"last_updated"`
	RepositoriesCount int       `json:"repositories_count"`
	Repositories      []string  `json:"repositories"`
	DateRange         DateRange `json:"date_range"`
	Error             string    `json:"error,omitempty"`
}

// TeamsOverview — сводки по всем командам.
type TeamsOverview struct {
	Teams       []TeamSummary `json:"teams"`
	TotalTeams  int           `json:"total_teams"`
	LastUpdated time.Time     `json:"last_updated"`
}

// GlobalUserStat — суммарная статистика участника по всем командам.
type GlobalUserStat struct {
	Username          string   `json:"username"`
	TotalPRs          int      `json:"total_prs"`
	TotalLinesChanged int      `json:"total_lines_changed"`
	AvgPRSize         float64  `json:"avg_pr_size"`
	TeamsCount        int      `json:"teams_count"`
	Teams             []string `json:"teams"`
	RepositoriesCount int      `json:"repositories_count"`
	Repositories      []string `json:"repositories"`
	MonthsActive      int      `json:"months_active"`
}

// MonthlyUserStat — статистика участника внутри одного месяца.
type MonthlyUserStat struct {
	Username          string  `json:"username"`
	TotalPRs          int     `json:"total_prs"`
	TotalLinesChanged int     `json:"total_lines_changed"`
	AvgPRSize         float64 `json:"avg_pr_size"`
}

// MonthBreakdown — разбивка активности по одному месяцу.
type MonthBreakdown struct {
	MonthKey      string            `json:"month_key"`
	MonthLabel    string            `json:"month_label"`
	Users         []MonthlyUserStat `json:"users"`
	TotalPRsMonth int               `json:"total_prs_month"`
	Top3Users     []MonthlyUserStat `json:"top_3_users"`
}

// ChartDataset — помесячный ряд одного участника для графика.
type ChartDataset struct {
	Label string `json:"label"`
	Data  []int  `json:"data"`
}

// MonthlyChartData — готовые данные помесячного графика топ-участников.
type MonthlyChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

// GlobalUserMetrics — глобальная статистика участников по всем командам.
type GlobalUserMetrics struct {
	GlobalUsers       []GlobalUserStat `json:"global_users"`
	MonthlyStats      []MonthBreakdown `json:"monthly_stats"`
	Top5Global        []GlobalUserStat `json:"top_5_global"`
	MonthlyChartData  MonthlyChartData `json:"monthly_chart_data"`
	TotalContributors int              `json:"total_contributors"`
	TotalMonths       int              `json:"total_months"`
	LastUpdated       time.Time        `json:"last_updated"`
}

// CacheStats — статистика кэша для служебного эндпоинта.
type CacheStats struct {
	Size       int            `json:"size"`
	TTLSeconds int            `json:"ttl_seconds"`
	Breakdown  map[string]int `json:"breakdown"`
}
