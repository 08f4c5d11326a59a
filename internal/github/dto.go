package github

import (
	"fmt"
	"time"

	"github.com/engintanrikulu/developer-metrics-dashboard/internal/domain"
)

// DTO сетевого слоя: временные метки приходят строками и валидируются
// на границе при преобразовании в доменные структуры.

type userDTO struct {
	Login string `json:"login"`
}

type prDTO struct {
	Number    int     `json:"number"`
	Title     string  `json:"title"`
	HTMLURL   string  `json:"html_url"`
	User      userDTO `json:"user"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
	MergedAt  *string `json:"merged_at"`
	Additions int     `json:"additions"`
	Deletions int     `json:"deletions"`
}

func (d prDTO) toDomain() (domain.PullRequest, error) {
	createdAt, err := time.Parse(time.RFC3339, d.CreatedAt)
	if err != nil {
		return domain.PullRequest{}, fmt.Errorf("parse created_at of PR #%d: %w", d.Number, err)
	}

	updatedAt, err := time.Parse(time.RFC3339, d.UpdatedAt)
	if err != nil {
		return domain.PullRequest{}, fmt.Errorf("parse updated_at of PR #%d: %w", d.Number, err)
	}

	var mergedAt *time.Time
	if d.MergedAt != nil {
		t, err := time.Parse(time.RFC3339, *d.MergedAt)
		if err != nil {
			return domain.PullRequest{}, fmt.Errorf("parse merged_at of PR #%d: %w", d.Number, err)
		}
		mergedAt = &t
	}

	return domain.PullRequest{
		Number:    d.Number,
		Title:     d.Title,
		URL:       d.HTMLURL,
		Author:    d.User.Login,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		MergedAt:  mergedAt,
		Additions: d.Additions,
		Deletions: d.Deletions,
	}, nil
}

type reviewDTO struct {
	SubmittedAt string  `json:"submitted_at"`
	State       string  `json:"state"`
	User        userDTO `json:"user"`
}

func (d reviewDTO) toDomain() (domain.Review, error) {
	submittedAt, err := time.Parse(time.RFC3339, d.SubmittedAt)
	if err != nil {
		return domain.Review{}, fmt.Errorf("parse submitted_at: %w", err)
	}
	return domain.Review{
		SubmittedAt: submittedAt,
		State:       d.State,
		Reviewer:    d.User.Login,
	}, nil
}

type commitDTO struct {
	SHA    string `json:"sha"`
	Commit struct {
		Author struct {
			Date string `json:"date"`
		} `json:"author"`
		Message string `json:"message"`
	} `json:"commit"`
}

func (d commitDTO) toDomain() (domain.Commit, error) {
	authoredAt, err := time.Parse(time.RFC3339, d.Commit.Author.Date)
	if err != nil {
		return domain.Commit{}, fmt.Errorf("parse commit %s author date: %w", d.SHA, err)
	}
	return domain.Commit{
		SHA:        d.SHA,
		AuthoredAt: authoredAt,
		Message:    d.Commit.Message,
	}, nil
}

type rateLimitDTO struct {
	Resources struct {
		Core struct {
			Limit     int   `json:"limit"`
			Remaining int   `json:"remaining"`
			Reset     int64 `json:"reset"`
		} `json:"core"`
	} `json:"resources"`
}

func (d rateLimitDTO) toDomain() domain.RateLimit {
	return domain.RateLimit{
		Limit:     d.Resources.Core.Limit,
		Remaining: d.Resources.Core.Remaining,
		Reset:     d.Resources.Core.Reset,
	}
}
