package stats

import (
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/domain"
)

// BuildPRRecords собирает записи pr_data из сырых данных PR.
// Порядок входного списка сохраняется. Детальные данные (additions/deletions)
// берутся из details по номеру PR; при отсутствии запись остаётся с нулями.
// Ревью и коммиты загружаются только для смерженных PR, поэтому у остальных
// записей поля ревью и первого коммита остаются пустыми.
func BuildPRRecords(
	repo string,
	prs []domain.PullRequest,
	details map[int]domain.PullRequest,
	reviews map[int][]domain.Review,
	commits map[int][]domain.Commit,
) []domain.PRRecord {
	records := make([]domain.PRRecord, 0, len(prs))

	for _, pr := range prs {
		additions := pr.Additions
		deletions := pr.Deletions
		if d, ok := details[pr.Number]; ok {
			additions = d.Additions
			deletions = d.Deletions
		}

		rec := domain.PRRecord{
			Repository:        repo,
			Number:            pr.Number,
			Title:             pr.Title,
			URL:               pr.URL,
			Author:            pr.Author,
			CreatedAt:         pr.CreatedAt,
			MergedAt:          pr.MergedAt,
			Additions:         additions,
			Deletions:         deletions,
			TotalLinesChanged: additions + deletions,
		}

		if rs := reviews[pr.Number]; len(rs) > 0 {
			first := rs[0]
			latency := first.SubmittedAt.Sub(pr.CreatedAt).Hours()
			submittedAt := first.SubmittedAt
			rec.FirstReviewAt = &submittedAt
			rec.ReviewLatencyHours = &latency
		}

		if cs := commits[pr.Number]; len(cs) > 0 {
			authoredAt := cs[0].AuthoredAt
			rec.FirstCommitAt = &authoredAt
		}

		records = append(records, rec)
	}

	return records
}
