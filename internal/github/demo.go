package github

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"sync"
	"time"

	"github.com/engintanrikulu/developer-metrics-dashboard/internal/domain"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/infrastructure/nower"
)

var demoAuthors = []string{
	"avasilyev", "mpetrova", "dkuznetsov", "esmirnova",
	"ivolkov", "tnikitina", "rgolubev", "ksokolova",
}

// demoRepo — сгенерированный набор данных одного репозитория.
type demoRepo struct {
	prs     []domain.PullRequest
	reviews map[int][]domain.Review
	commits map[int][]domain.Commit
}

// DemoClient — детерминированный генератор данных для работы без токена.
// Набор данных репозитория определяется его именем: одинаковые запросы
// всегда возвращают одинаковый результат.
type DemoClient struct {
	clock nower.Nower

	mu    sync.Mutex
	repos map[string]*demoRepo
}

// NewDemoClient создаёт демо-клиент.
func NewDemoClient(clock nower.Nower) *DemoClient {
	return &DemoClient{
		clock: clock,
		repos: make(map[string]*demoRepo),
	}
}

func (c *DemoClient) repo(name string) *demoRepo {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r, ok := c.repos[name]; ok {
		return r
	}

	h := fnv.New64a()
	h.Write([]byte(name))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	now := c.clock.Now()
	count := 6 + rng.Intn(18)

	r := &demoRepo{
		reviews: make(map[int][]domain.Review),
		commits: make(map[int][]domain.Commit),
	}

	for i := 0; i < count; i++ {
		number := 100 + i
		author := demoAuthors[rng.Intn(len(demoAuthors))]
		createdAt := now.Add(-time.Duration(1+rng.Intn(29*24)) * time.Hour)
		additions := 5 + rng.Intn(480)
		deletions := rng.Intn(200)

		pr := domain.PullRequest{
			Number:    number,
			Title:     fmt.Sprintf("Demo change #%d in %s", number, name),
			URL:       fmt.Sprintf("https://example.invalid/%s/pull/%d", name, number),
			Author:    author,
			CreatedAt: createdAt,
			UpdatedAt: createdAt.Add(time.Hour),
			Additions: additions,
			Deletions: deletions,
		}

		// Большинство демо-PR смержены; у смерженных есть ревью и коммит.
		if rng.Intn(100) < 85 {
			lifetime := time.Duration(2+rng.Intn(70)) * time.Hour
			mergedAt := createdAt.Add(lifetime)
			pr.MergedAt = &mergedAt
			pr.UpdatedAt = mergedAt

			reviewer := demoAuthors[(rng.Intn(len(demoAuthors)-1)+1)%len(demoAuthors)]
			r.reviews[number] = []domain.Review{{
				SubmittedAt: createdAt.Add(lifetime * 3 / 10),
				State:       "APPROVED",
				Reviewer:    reviewer,
			}}
			r.commits[number] = []domain.Commit{{
				SHA:        fmt.Sprintf("%016x", rng.Uint64()),
				AuthoredAt: createdAt.Add(lifetime / 10),
				Message:    fmt.Sprintf("demo commit for #%d", number),
			}}
		}

		r.prs = append(r.prs, pr)
	}

	c.repos[name] = r
	return r
}

// ListClosedPullRequests возвращает сгенерированные PR репозитория.
func (c *DemoClient) ListClosedPullRequests(_ context.Context, repo string, window domain.Window) ([]domain.PullRequest, error) {
	all := c.repo(repo).prs

	prs := make([]domain.PullRequest, 0, len(all))
	for _, pr := range all {
		if window.IsZero() || window.Contains(pr.CreatedAt) {
			prs = append(prs, pr)
		}
	}
	return prs, nil
}

// GetPullRequestDetail возвращает PR: демо-данные уже содержат additions/deletions.
func (c *DemoClient) GetPullRequestDetail(_ context.Context, repo string, number int) (domain.PullRequest, error) {
	for _, pr := range c.repo(repo).prs {
		if pr.Number == number {
			return pr, nil
		}
	}
	return domain.PullRequest{}, fmt.Errorf("demo pull request #%d not found in %s", number, repo)
}

// ListReviews возвращает сгенерированные ревью PR.
func (c *DemoClient) ListReviews(_ context.Context, repo string, number int) ([]domain.Review, error) {
	return c.repo(repo).reviews[number], nil
}

// ListCommits возвращает сгенерированные коммиты PR.
func (c *DemoClient) ListCommits(_ context.Context, repo string, number int) ([]domain.Commit, error) {
	return c.repo(repo).commits[number], nil
}

// RateLimit возвращает фиктивную квоту.
func (c *DemoClient) RateLimit(_ context.Context) (domain.RateLimit, error) {
	return domain.RateLimit{
		Limit:     5000,
		Remaining: 4999,
		Reset:     c.clock.Now().Add(time.Hour).Unix(),
	}, nil
}

// CheckAccess в демо-режиме всегда успешен.
func (c *DemoClient) CheckAccess(context.Context, string) error {
	return nil
}
