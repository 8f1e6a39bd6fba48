package ports

import (
	"context"

	"github.com/moderncrm/crm-api/internal/core/analytics"
	"github.com/moderncrm/crm-api/internal/core/domain"
)

// AnalyticsReport bundles every summary shown on the analytics view.
type AnalyticsReport struct {
	Summary   analytics.Summary         `json:"summary"`
	Pipeline  []analytics.StageSummary  `json:"pipeline"`
	Sources   []analytics.SourceSummary `json:"sources"`
	TaskStats analytics.TaskStats       `json:"taskStats"`
}

// DashboardService computes summaries from live collection snapshots.
type DashboardService interface {
	Stats(ctx context.Context) (analytics.DashboardStats, error)
	RecentDeals(ctx context.Context, limit int) ([]domain.Deal, error)
	Analytics(ctx context.Context) (*AnalyticsReport, error)
}
