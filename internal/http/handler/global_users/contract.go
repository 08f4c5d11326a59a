package globalusers

import (
	"context"

	"github.com/engintanrikulu/developer-metrics-dashboard/internal/domain"
)

// UseCase — глобальная статистика участников по всем командам.
type UseCase interface {
	GlobalUserMetrics(ctx context.Context) domain.GlobalUserMetrics
}
