package github

import (
	"context"

	"github.com/engintanrikulu/developer-metrics-dashboard/internal/domain"
)

// Client — клиент API хостинга кода, которым пользуется движок метрик.
// Реализации: HTTP-клиент GitHub и детерминированный демо-генератор.
type Client interface {
	// ListClosedPullRequests возвращает закрытые PR репозитория.
	// При заданном окне записи фильтруются по дате создания.
	ListClosedPullRequests(ctx context.Context, repo string, window domain.Window) ([]domain.PullRequest, error)
	// GetPullRequestDetail возвращает PR с заполненными additions/deletions.
	GetPullRequestDetail(ctx context.Context, repo string, number int) (domain.PullRequest, error)
	// ListReviews возвращает ревью PR, отсортированные по времени по возрастанию.
	ListReviews(ctx context.Context, repo string, number int) ([]domain.Review, error)
	// ListCommits возвращает коммиты PR, отсортированные по дате автора по возрастанию.
	ListCommits(ctx context.Context, repo string, number int) ([]domain.Commit, error)
	// RateLimit возвращает состояние квоты API.
	RateLimit(ctx context.Context) (domain.RateLimit, error)
	// CheckAccess проверяет доступность API: пользователь, организация и пробный репозиторий.
	CheckAccess(ctx context.Context, probeRepo string) error
}
