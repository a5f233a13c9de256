// Package reports wraps the reporting endpoints. What each report contains
// is tailored server-side to the caller's role.
package reports

import (
	"context"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-crm-console/apiclient"
	"github.com/jrsteele09/go-crm-console/calllogs"
)

// DashboardSummary is the landing-page aggregate.
type DashboardSummary struct {
	TotalProspects int     `json:"totalProspects"`
	TotalSales     int     `json:"totalSales"`
	TotalAmount    float64 `json:"totalAmount"`
	TeamSize       int     `json:"teamSize"`
}

// PerformanceRow is one line of the performance report.
type PerformanceRow struct {
	UserID    string  `json:"userId"`
	Name      string  `json:"name"`
	Sales     int     `json:"sales"`
	Amount    float64 `json:"amount"`
	CallCount int     `json:"callCount"`
}

// ActivityLog is one general activity record (manager-only endpoint).
type ActivityLog struct {
	ID        string    `json:"id,omitempty"`
	UserID    string    `json:"userId,omitempty"`
	Action    string    `json:"action,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

type Service struct {
	client *apiclient.Client
}

func NewService(client *apiclient.Client) (*Service, error) {
	if client == nil {
		return nil, errors.New("[reports.NewService] api client is required")
	}
	return &Service{client: client}, nil
}

// DashboardSummary fetches the role-tailored dashboard aggregate.
func (s *Service) DashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	var resp struct {
		Data *DashboardSummary `json:"data"`
	}
	if err := s.client.Get(ctx, "/reports/dashboard-summary", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Performance fetches the performance report for a period ("day" or
// "month"), optionally narrowed to one team lead's team.
func (s *Service) Performance(ctx context.Context, period, teamLeadID string) ([]*PerformanceRow, error) {
	query := url.Values{"period": {period}}
	if teamLeadID != "" {
		query.Set("teamLeadId", teamLeadID)
	}

	var resp struct {
		Data struct {
			Report []*PerformanceRow `json:"report"`
		} `json:"data"`
	}
	if err := s.client.Get(ctx, "/reports/performance", query, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Report, nil
}

// ManagerCalls fetches the manager-only call report.
func (s *Service) ManagerCalls(ctx context.Context, filters url.Values) ([]*calllogs.CallLog, error) {
	var resp struct {
		Data struct {
			CallLogs []*calllogs.CallLog `json:"callLogs"`
		} `json:"data"`
	}
	if err := s.client.Get(ctx, "/reports/manager-calls", filters, &resp); err != nil {
		return nil, err
	}
	return resp.Data.CallLogs, nil
}

// ActivityLogs fetches the manager-only activity feed.
func (s *Service) ActivityLogs(ctx context.Context) ([]*ActivityLog, error) {
	var resp struct {
		Data struct {
			ActivityLogs []*ActivityLog `json:"activityLogs"`
		} `json:"data"`
	}
	if err := s.client.Get(ctx, "/reports/activity-logs", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.ActivityLogs, nil
}
