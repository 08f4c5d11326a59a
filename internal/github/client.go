package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/engintanrikulu/developer-metrics-dashboard/internal/domain"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/infrastructure/nower"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/metrics"
)

// UpstreamError — ответ API с неожиданным статусом. Запрос не повторяется,
// кроме статуса 403 (лимит квоты) и транспортных ошибок.
type UpstreamError struct {
	Endpoint   string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s responded with status %d", e.Endpoint, e.StatusCode)
}

// Options — настройки HTTP-клиента API хостинга.
type Options struct {
	BaseURL        string
	Token          string
	Organization   string
	PerPage        int
	MaxPages       int
	MaxRetries     int
	RetryBaseDelay time.Duration
	WindowDays     int
	HTTPTimeout    time.Duration
}

// HTTPClient — клиент GitHub REST API.
type HTTPClient struct {
	httpClient *http.Client
	opts       Options
	clock      nower.Nower
}

// NewHTTPClient создаёт клиент GitHub API.
func NewHTTPClient(opts Options, clock nower.Nower) *HTTPClient {
	return &HTTPClient{
		httpClient: &http.Client{Timeout: opts.HTTPTimeout},
		opts:       opts,
		clock:      clock,
	}
}

// ListClosedPullRequests загружает закрытые PR постранично, свежие в начале.
// Загрузка останавливается на пустой странице, на странице, чей самый старый
// элемент обновлён раньше нижней границы окна, либо по лимиту страниц.
func (c *HTTPClient) ListClosedPullRequests(ctx context.Context, repo string, window domain.Window) ([]domain.PullRequest, error) {
	since := c.clock.Now().AddDate(0, 0, -c.opts.WindowDays)
	if window.Start != "" {
		parsed, err := time.Parse("2006-01-02", window.Start)
		if err != nil {
			return nil, fmt.Errorf("parse window start %q: %w", window.Start, err)
		}
		since = parsed
	}

	var prs []domain.PullRequest
	for page := 1; page <= c.opts.MaxPages; page++ {
		query := url.Values{
			"state":     {"closed"},
			"sort":      {"updated"},
			"direction": {"desc"},
			"per_page":  {strconv.Itoa(c.opts.PerPage)},
			"page":      {strconv.Itoa(page)},
		}
		body, err := c.get(ctx, "pulls", fmt.Sprintf("/repos/%s/%s/pulls?%s", c.opts.Organization, repo, query.Encode()))
		if err != nil {
			return nil, err
		}

		var dtos []prDTO
		if err := json.Unmarshal(body, &dtos); err != nil {
			return nil, fmt.Errorf("decode pulls page %d for %s: %w", page, repo, err)
		}
		if len(dtos) == 0 {
			break
		}

		pageOlderThanSince := false
		for _, dto := range dtos {
			pr, err := dto.toDomain()
			if err != nil {
				slog.WarnContext(ctx, "skipping pull request with malformed timestamps",
					"repository", repo, "pr_number", dto.Number, "error", err)
				continue
			}
			if window.IsZero() || window.Contains(pr.CreatedAt) {
				prs = append(prs, pr)
			}
		}

		// Сортировка по updated desc: если последний элемент страницы старее
		// нижней границы, дальше только более старые PR.
		if last, err := dtos[len(dtos)-1].toDomain(); err == nil && last.UpdatedAt.Before(since) {
			pageOlderThanSince = true
		}
		if pageOlderThanSince {
			break
		}
	}

	return prs, nil
}

// GetPullRequestDetail загружает PR с заполненными additions/deletions.
func (c *HTTPClient) GetPullRequestDetail(ctx context.Context, repo string, number int) (domain.PullRequest, error) {
	body, err := c.get(ctx, "pull_details", fmt.Sprintf("/repos/%s/%s/pulls/%d", c.opts.Organization, repo, number))
	if err != nil {
		return domain.PullRequest{}, err
	}

	var dto prDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return domain.PullRequest{}, fmt.Errorf("decode PR #%d for %s: %w", number, repo, err)
	}
	return dto.toDomain()
}

// ListReviews загружает ревью PR, отсортированные по времени по возрастанию.
func (c *HTTPClient) ListReviews(ctx context.Context, repo string, number int) ([]domain.Review, error) {
	body, err := c.get(ctx, "reviews", fmt.Sprintf("/repos/%s/%s/pulls/%d/reviews", c.opts.Organization, repo, number))
	if err != nil {
		return nil, err
	}

	var dtos []reviewDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, fmt.Errorf("decode reviews of PR #%d for %s: %w", number, repo, err)
	}

	reviews := make([]domain.Review, 0, len(dtos))
	for _, dto := range dtos {
		review, err := dto.toDomain()
		if err != nil {
			slog.WarnContext(ctx, "skipping review with malformed timestamp",
				"repository", repo, "pr_number", number, "error", err)
			continue
		}
		reviews = append(reviews, review)
	}

	sort.Slice(reviews, func(i, j int) bool {
		return reviews[i].SubmittedAt.Before(reviews[j].SubmittedAt)
	})
	return reviews, nil
}

// ListCommits загружает коммиты PR, отсортированные по дате автора по возрастанию.
func (c *HTTPClient) ListCommits(ctx context.Context, repo string, number int) ([]domain.Commit, error) {
	body, err := c.get(ctx, "commits", fmt.Sprintf("/repos/%s/%s/pulls/%d/commits", c.opts.Organization, repo, number))
	if err != nil {
		return nil, err
	}

	var dtos []commitDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, fmt.Errorf("decode commits of PR #%d for %s: %w", number, repo, err)
	}

	commits := make([]domain.Commit, 0, len(dtos))
	for _, dto := range dtos {
		commit, err := dto.toDomain()
		if err != nil {
			slog.WarnContext(ctx, "skipping commit with malformed timestamp",
				"repository", repo, "pr_number", number, "error", err)
			continue
		}
		commits = append(commits, commit)
	}

	sort.Slice(commits, func(i, j int) bool {
		return commits[i].AuthoredAt.Before(commits[j].AuthoredAt)
	})
	return commits, nil
}

// RateLimit возвращает состояние квоты API и обновляет гейдж остатка.
func (c *HTTPClient) RateLimit(ctx context.Context) (domain.RateLimit, error) {
	body, err := c.get(ctx, "rate_limit", "/rate_limit")
	if err != nil {
		return domain.RateLimit{}, err
	}

	var dto rateLimitDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return domain.RateLimit{}, fmt.Errorf("decode rate limit: %w", err)
	}

	limit := dto.toDomain()
	metrics.SetRateLimitRemaining(limit.Remaining)
	return limit, nil
}

// CheckAccess проверяет доступ к API: пользователь, организация
// и пробный репозиторий, если он задан.
func (c *HTTPClient) CheckAccess(ctx context.Context, probeRepo string) error {
	if _, err := c.get(ctx, "access", "/user"); err != nil {
		return fmt.Errorf("check user access: %w", err)
	}
	if _, err := c.get(ctx, "access", "/orgs/"+c.opts.Organization); err != nil {
		return fmt.Errorf("check organization access: %w", err)
	}
	if probeRepo != "" {
		if _, err := c.get(ctx, "access", fmt.Sprintf("/repos/%s/%s", c.opts.Organization, probeRepo)); err != nil {
			return fmt.Errorf("check repository access: %w", err)
		}
	}
	return nil
}

// get выполняет GET с повторами: транспортные ошибки и статус 403 повторяются
// с экспоненциальной задержкой, остальные неожиданные статусы — нет.
func (c *HTTPClient) get(ctx context.Context, endpoint, path string) ([]byte, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.opts.RetryBaseDelay
	policy.Multiplier = 2
	policy.RandomizationFactor = 0
	policy.MaxInterval = time.Minute

	var body []byte
	attempt := 0

	operation := func() error {
		if attempt > 0 {
			metrics.IncUpstreamRetry()
		}
		attempt++

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.BaseURL+path, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request %s: %w", path, err))
		}
		req.Header.Set("Accept", "application/vnd.github+json")
		if c.opts.Token != "" {
			req.Header.Set("Authorization", "Bearer "+c.opts.Token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			metrics.IncUpstreamRequest(endpoint, "transport_error")
			return fmt.Errorf("request %s: %w", path, err)
		}
		defer resp.Body.Close()

		metrics.IncUpstreamRequest(endpoint, strconv.Itoa(resp.StatusCode))

		switch {
		case resp.StatusCode == http.StatusOK:
			body, err = io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("read response %s: %w", path, err)
			}
			return nil
		case resp.StatusCode == http.StatusForbidden:
			// Скорее всего исчерпана квота, имеет смысл подождать и повторить.
			return &UpstreamError{Endpoint: endpoint, StatusCode: resp.StatusCode}
		default:
			return backoff.Permanent(&UpstreamError{Endpoint: endpoint, StatusCode: resp.StatusCode})
		}
	}

	err := backoff.Retry(operation, backoff.WithContext(
		backoff.WithMaxRetries(policy, uint64(c.opts.MaxRetries)), ctx))
	if err != nil {
		return nil, err
	}
	return body, nil
}
