package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/engintanrikulu/developer-metrics-dashboard/internal/cache"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/config"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/engine"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/github"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/http/router"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/infrastructure/nower"
)

// App отвечает за жизненный цикл сервиса.
type App struct {
	cfg    config.Config
	server *http.Server
}

// New подготавливает все зависимости приложения: кэш, клиент GitHub, движок метрик, HTTP-роутер.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	teams, err := config.LoadTeams(cfg.Teams.Path)
	if err != nil {
		return nil, fmt.Errorf("load teams: %w", err)
	}
	slog.Info("teams configuration loaded", "path", cfg.Teams.Path, "teams", len(teams.Names()))

	// Инициализация инфраструктурных зависимостей
	nowerImpl := nower.New()
	metricsCache := cache.New(cfg.Cache.TTL, nowerImpl)

	// В демо-режиме поднимаем детерминированный генератор вместо реального API
	var client github.Client
	if cfg.GitHub.DemoMode {
		slog.Info("demo mode enabled, using synthetic repository data")
		client = github.NewDemoClient(nowerImpl)
	} else {
		client = github.NewHTTPClient(github.Options{
			BaseURL:        cfg.GitHub.BaseURL,
			Token:          cfg.GitHub.Token,
			Organization:   cfg.GitHub.Organization,
			PerPage:        cfg.GitHub.PerPage,
			MaxPages:       cfg.GitHub.MaxPages,
			MaxRetries:     cfg.GitHub.MaxRetries,
			RetryBaseDelay: cfg.GitHub.RetryDelay,
			WindowDays:     cfg.Fetch.WindowDays,
			HTTPTimeout:    cfg.GitHub.HTTPTimeout,
		}, nowerImpl)
	}

	eng := engine.New(metricsCache, client, teams, nowerImpl, engine.Options{
		WindowDays:    cfg.Fetch.WindowDays,
		ErrorTTL:      cfg.Cache.ErrorTTL,
		MaxConcurrent: cfg.Fetch.MaxConcurrent,
		RequestDelay:  cfg.Fetch.RequestDelay,
	})

	handler := router.New(eng)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      handler.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:    cfg,
		server: srv,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		// Graceful shutdown: даём серверу время завершить обработку текущих запросов
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Timeouts.Shutdown)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}
