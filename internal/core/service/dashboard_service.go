package service

import (
	"context"
	"fmt"
	"time"

	"github.com/moderncrm/crm-api/internal/core/analytics"
	"github.com/moderncrm/crm-api/internal/core/domain"
	"github.com/moderncrm/crm-api/internal/core/ports"
)

// DefaultRecentDeals is the size of the dashboard's recent-deals card.
const DefaultRecentDeals = 5

// DashboardService snapshots the collections and hands them to the
// analytics functions. It keeps no state of its own.
type DashboardService struct {
	customers ports.CustomerRepository
	deals     ports.DealRepository
	tasks     ports.TaskRepository
	now       func() time.Time
}

func NewDashboardService(customers ports.CustomerRepository, deals ports.DealRepository, tasks ports.TaskRepository) *DashboardService {
	return &DashboardService{customers: customers, deals: deals, tasks: tasks, now: time.Now}
}

func (s *DashboardService) Stats(ctx context.Context) (analytics.DashboardStats, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return analytics.DashboardStats{}, fmt.Errorf("dashboard stats: %w", err)
	}
	deals, err := s.deals.List(ctx)
	if err != nil {
		return analytics.DashboardStats{}, fmt.Errorf("dashboard stats: %w", err)
	}
	return analytics.Dashboard(customers, deals), nil
}

// RecentDeals returns the newest deals; limit <= 0 means DefaultRecentDeals.
func (s *DashboardService) RecentDeals(ctx context.Context, limit int) ([]domain.Deal, error) {
	if limit <= 0 {
		limit = DefaultRecentDeals
	}
	deals, err := s.deals.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("recent deals: %w", err)
	}
	return analytics.RecentDeals(deals, limit), nil
}

func (s *DashboardService) Analytics(ctx context.Context) (*ports.AnalyticsReport, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics: %w", err)
	}
	deals, err := s.deals.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics: %w", err)
	}
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics: %w", err)
	}

	return &ports.AnalyticsReport{
		Summary:   analytics.Analytics(customers, deals, tasks),
		Pipeline:  analytics.Pipeline(deals, domain.PipelineStages),
		Sources:   analytics.CustomerSources(customers),
		TaskStats: analytics.Tasks(tasks, s.now()),
	}, nil
}
