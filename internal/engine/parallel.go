package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/engintanrikulu/developer-metrics-dashboard/internal/domain"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/logging"
)

// fetchRepositories параллельно считает метрики репозиториев с ограничением
// одновременных задач. Результаты адресуются по индексу, поэтому порядок
// входного списка сохраняется независимо от порядка завершения задач.
func (e *Engine) fetchRepositories(ctx context.Context, repos []string, window domain.Window) []domain.RepositoryMetrics {
	if len(repos) == 0 {
		return []domain.RepositoryMetrics{}
	}

	results := make([]domain.RepositoryMetrics, len(repos))

	var g errgroup.Group
	g.SetLimit(e.opts.MaxConcurrent)

	for i, repo := range repos {
		i, repo := i, repo
		g.Go(func() error {
			results[i] = e.repoMetrics(logging.WithLogRepository(ctx, repo), repo, window)
			return nil
		})
	}

	// Задачи не возвращают ошибок: сбой репозитория уже превращён в заглушку.
	_ = g.Wait()

	return results
}
