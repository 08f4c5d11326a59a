package teammetrics

import (
	"context"

	"github.com/engintanrikulu/developer-metrics-dashboard/internal/domain"
)

// UseCase — расчёт метрик одной команды за выбранный период.
type UseCase interface {
	TeamMetrics(ctx context.Context, team string, window domain.Window) (domain.TeamMetrics, error)
}
