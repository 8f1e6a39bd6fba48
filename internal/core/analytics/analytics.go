// Package analytics derives dashboard and analytics summaries from snapshots
// of the CRM collections. Every function is pure: it reads its arguments,
// keeps no state and never mutates the records it is given.
package analytics

import (
	"sort"
	"time"

	"github.com/moderncrm/crm-api/internal/core/domain"
)

// ThisMonthRevenue is the sample figure the dashboard shows until a real
// definition of monthly revenue exists.
const ThisMonthRevenue = 15000

// DashboardStats is the headline card row of the dashboard.
type DashboardStats struct {
	TotalCustomers   int     `json:"totalCustomers"`
	TotalDeals       int     `json:"totalDeals"`
	TotalValue       float64 `json:"totalValue"`
	ActiveDeals      int     `json:"activeDeals"`
	ThisMonthRevenue float64 `json:"thisMonthRevenue"`
	ConversionRate   float64 `json:"conversionRate"`
}

// StageSummary is one row of the pipeline breakdown.
type StageSummary struct {
	Stage      domain.DealStage `json:"stage"`
	Count      int              `json:"count"`
	Value      float64          `json:"value"`
	Percentage float64          `json:"percentage"`
}

// SourceSummary is one row of the customer source breakdown.
type SourceSummary struct {
	Source     string  `json:"source"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// TaskStats summarises the task list.
type TaskStats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Pending        int     `json:"pending"`
	InProgress     int     `json:"inProgress"`
	Overdue        int     `json:"overdue"`
	CompletionRate float64 `json:"completionRate"`
}

// Summary is the KPI block of the analytics view.
type Summary struct {
	TotalRevenue       float64 `json:"totalRevenue"`
	ConversionRate     float64 `json:"conversionRate"`
	AverageDealSize    float64 `json:"averageDealSize"`
	ActiveCustomers    int     `json:"activeCustomers"`
	ActiveCustomerRate float64 `json:"activeCustomerRate"`
	TaskCompletionRate float64 `json:"taskCompletionRate"`
	TotalPipelineValue float64 `json:"totalPipelineValue"`
}

// Percent returns part/whole*100, or 0 when whole is zero.
func Percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

// Dashboard computes the headline stats.
func Dashboard(customers []domain.Customer, deals []domain.Deal) DashboardStats {
	stats := DashboardStats{
		TotalCustomers:   len(customers),
		TotalDeals:       len(deals),
		ThisMonthRevenue: ThisMonthRevenue,
	}
	for _, d := range deals {
		stats.TotalValue += d.Value
		if d.Stage != domain.StageClosed {
			stats.ActiveDeals++
		}
	}
	stats.ConversionRate = ConversionRate(deals)
	return stats
}

// ConversionRate is the share of closed deals, in percent.
func ConversionRate(deals []domain.Deal) float64 {
	closed := 0
	for _, d := range deals {
		if d.Stage == domain.StageClosed {
			closed++
		}
	}
	return Percent(float64(closed), float64(len(deals)))
}

// Pipeline reports count, value and share of deals for each stage, in the
// order given. Deals whose stage is not listed still count toward the total.
func Pipeline(deals []domain.Deal, stages []domain.DealStage) []StageSummary {
	out := make([]StageSummary, len(stages))
	index := make(map[domain.DealStage]int, len(stages))
	for i, st := range stages {
		out[i].Stage = st
		index[st] = i
	}
	for _, d := range deals {
		i, ok := index[d.Stage]
		if !ok {
			continue
		}
		out[i].Count++
		out[i].Value += d.Value
	}
	for i := range out {
		out[i].Percentage = Percent(float64(out[i].Count), float64(len(deals)))
	}
	return out
}

// CustomerSources groups customers by source, in order of first appearance.
func CustomerSources(customers []domain.Customer) []SourceSummary {
	var out []SourceSummary
	index := make(map[string]int)
	for _, c := range customers {
		i, ok := index[c.Source]
		if !ok {
			i = len(out)
			index[c.Source] = i
			out = append(out, SourceSummary{Source: c.Source})
		}
		out[i].Count++
	}
	for i := range out {
		out[i].Percentage = Percent(float64(out[i].Count), float64(len(customers)))
	}
	return out
}

// Tasks computes task counters as of now.
func Tasks(tasks []domain.Task, now time.Time) TaskStats {
	stats := TaskStats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case domain.TaskCompleted:
			stats.Completed++
		case domain.TaskPending:
			stats.Pending++
		case domain.TaskInProgress:
			stats.InProgress++
		}
		if t.Overdue(now) {
			stats.Overdue++
		}
	}
	stats.CompletionRate = Percent(float64(stats.Completed), float64(stats.Total))
	return stats
}

// Analytics computes the KPI block of the analytics view.
func Analytics(customers []domain.Customer, deals []domain.Deal, tasks []domain.Task) Summary {
	var s Summary
	for _, d := range deals {
		s.TotalPipelineValue += d.Value
		if d.Stage == domain.StageClosed {
			s.TotalRevenue += d.Value
		}
	}
	if len(deals) > 0 {
		s.AverageDealSize = s.TotalPipelineValue / float64(len(deals))
	}
	s.ConversionRate = ConversionRate(deals)

	for _, c := range customers {
		if c.Status == domain.CustomerActive {
			s.ActiveCustomers++
		}
	}
	s.ActiveCustomerRate = Percent(float64(s.ActiveCustomers), float64(len(customers)))

	completed := 0
	for _, t := range tasks {
		if t.Status == domain.TaskCompleted {
			completed++
		}
	}
	s.TaskCompletionRate = Percent(float64(completed), float64(len(tasks)))
	return s
}

// RecentDeals returns up to limit deals, newest first. Ties keep insertion
// order. The input slice is not modified.
func RecentDeals(deals []domain.Deal, limit int) []domain.Deal {
	sorted := make([]domain.Deal, len(deals))
	copy(sorted, deals)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if limit >= 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted
}
