package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-console/internal/analytics"
	"github.com/spec-kit/helpdesk-console/internal/repository"
)

// Dashboard bundles every analytics read model the console renders.
type Dashboard struct {
	Snapshot       analytics.Snapshot           `json:"snapshot"`
	SLAFunnel      []analytics.SLAFunnelRow     `json:"sla_funnel"`
	TopIssues      []analytics.IssueGroup       `json:"top_issues"`
	Teams          []analytics.TeamPerformance  `json:"teams"`
	Agents         []analytics.AgentPerformance `json:"agents"`
	Lifecycle      []analytics.FunnelStage      `json:"lifecycle"`
	Forecast       analytics.Forecast           `json:"forecast"`
	AccessRequests analytics.AccessReport       `json:"access_requests"`
}

// AnalyticsOptions tunes the aggregator.
type AnalyticsOptions struct {
	CacheTTL      time.Duration
	TopIssueLimit int
	ForecastDays  int
	Baseline      int
	ForecastSeed  int64
}

// AnalyticsService computes derived reporting views from the ticket store.
// The full-dashboard payload is cached briefly in Redis; everything else is
// recomputed per call.
type AnalyticsService struct {
	tickets repository.TicketRepository
	cache   *redis.Client
	logger  *zap.Logger
	opts    AnalyticsOptions
	clock   func() time.Time
}

// NewAnalyticsService constructs the service. cache may be nil, in which
// case dashboards are always recomputed.
func NewAnalyticsService(tickets repository.TicketRepository, cache *redis.Client, logger *zap.Logger, opts AnalyticsOptions) *AnalyticsService {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Minute
	}
	if opts.TopIssueLimit <= 0 {
		opts.TopIssueLimit = 10
	}
	return &AnalyticsService{
		tickets: tickets,
		cache:   cache,
		logger:  logger,
		opts:    opts,
		clock:   time.Now,
	}
}

// WithClock overrides the time source, mainly for tests.
func (s *AnalyticsService) WithClock(clock func() time.Time) *AnalyticsService {
	s.clock = clock
	return s
}

// Dashboard assembles the full analytics bundle for the owner scope and
// window, consulting the Redis cache first.
func (s *AnalyticsService) Dashboard(ctx context.Context, ownerID string, window analytics.Window) (*Dashboard, error) {
	key := s.cacheKey(ownerID, window)
	if cached := s.fromCache(ctx, key); cached != nil {
		return cached, nil
	}

	tickets, err := s.tickets.All(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	dashboard := &Dashboard{
		Snapshot:       analytics.KPISnapshot(tickets, window),
		SLAFunnel:      analytics.SLAFunnel(tickets, now),
		TopIssues:      analytics.TopIssues(tickets, s.opts.TopIssueLimit, now),
		Teams:          analytics.TeamReport(tickets),
		Agents:         analytics.AgentReport(tickets, analytics.DemoRoster),
		Lifecycle:      analytics.LifecycleFunnel(tickets),
		Forecast:       analytics.BuildForecast(now, s.opts.ForecastDays, s.opts.Baseline, s.opts.ForecastSeed),
		AccessRequests: analytics.AccessRequests(tickets, now),
	}

	s.toCache(ctx, key, dashboard)
	return dashboard, nil
}

// KPIs returns the KPI snapshot alone.
func (s *AnalyticsService) KPIs(ctx context.Context, ownerID string, window analytics.Window) (*analytics.Snapshot, error) {
	tickets, err := s.tickets.All(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	snap := analytics.KPISnapshot(tickets, window)
	return &snap, nil
}

// SLAFunnel returns only the per-priority SLA rows.
func (s *AnalyticsService) SLAFunnel(ctx context.Context, ownerID string) ([]analytics.SLAFunnelRow, error) {
	tickets, err := s.tickets.All(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return analytics.SLAFunnel(tickets, s.clock()), nil
}

// TopIssues returns keyword clusters limited to limit rows.
func (s *AnalyticsService) TopIssues(ctx context.Context, ownerID string, limit int) ([]analytics.IssueGroup, error) {
	tickets, err := s.tickets.All(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.opts.TopIssueLimit
	}
	return analytics.TopIssues(tickets, limit, s.clock()), nil
}

// Teams returns the team and agent performance rows.
func (s *AnalyticsService) Teams(ctx context.Context, ownerID string) ([]analytics.TeamPerformance, []analytics.AgentPerformance, error) {
	tickets, err := s.tickets.All(ctx, ownerID)
	if err != nil {
		return nil, nil, err
	}
	return analytics.TeamReport(tickets), analytics.AgentReport(tickets, analytics.DemoRoster), nil
}

// Lifecycle returns the stage funnel.
func (s *AnalyticsService) Lifecycle(ctx context.Context, ownerID string) ([]analytics.FunnelStage, error) {
	tickets, err := s.tickets.All(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return analytics.LifecycleFunnel(tickets), nil
}

// Forecast returns the demo volume projection.
func (s *AnalyticsService) Forecast(_ context.Context) analytics.Forecast {
	return analytics.BuildForecast(s.clock(), s.opts.ForecastDays, s.opts.Baseline, s.opts.ForecastSeed)
}

// AccessRequests returns the approvals dashboard bundle.
func (s *AnalyticsService) AccessRequests(ctx context.Context, ownerID string) (*analytics.AccessReport, error) {
	tickets, err := s.tickets.All(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	report := analytics.AccessRequests(tickets, s.clock())
	return &report, nil
}

// DefaultWindow exposes the last-seven-days window at the service clock.
func (s *AnalyticsService) DefaultWindow() analytics.Window {
	return analytics.DefaultWindow(s.clock())
}

func (s *AnalyticsService) cacheKey(ownerID string, window analytics.Window) string {
	return fmt.Sprintf("analytics:dashboard:%s:%d:%d", ownerID, window.Start.Unix(), window.End.Unix())
}

func (s *AnalyticsService) fromCache(ctx context.Context, key string) *Dashboard {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil && s.logger != nil {
			s.logger.Warn("analytics cache read failed", zap.Error(err))
		}
		return nil
	}
	var dashboard Dashboard
	if err := json.Unmarshal(raw, &dashboard); err != nil {
		return nil
	}
	return &dashboard
}

func (s *AnalyticsService) toCache(ctx context.Context, key string, dashboard *Dashboard) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(dashboard)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.opts.CacheTTL).Err(); err != nil && s.logger != nil {
		s.logger.Warn("analytics cache write failed", zap.Error(err))
	}
}
