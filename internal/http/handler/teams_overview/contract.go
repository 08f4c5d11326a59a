package teamsoverview

import (
	"context"

	"github.com/engintanrikulu/developer-metrics-dashboard/internal/domain"
)

// UseCase — сводка метрик по всем командам.
type UseCase interface {
	AllTeamsMetrics(ctx context.Context) domain.TeamsOverview
}
