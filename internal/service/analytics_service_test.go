package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-console/internal/analytics"
	"github.com/spec-kit/helpdesk-console/internal/domain"
	"github.com/spec-kit/helpdesk-console/internal/repository/memory"
)

func newAnalyticsFixture(t *testing.T) (*AnalyticsService, *memory.TicketStore) {
	t.Helper()
	clock := func() time.Time { return svcBase }
	store := memory.NewTicketStore().WithClock(clock)
	svc := NewAnalyticsService(store, nil, zap.NewNop(), AnalyticsOptions{
		ForecastSeed: 42,
	}).WithClock(clock)
	return svc, store
}

func TestDashboard_AssemblesAllViews(t *testing.T) {
	svc, store := newAnalyticsFixture(t)

	_, err := store.Create(context.Background(), domain.NewTicketParams{
		TicketType: domain.TicketTypeIncident, Title: "VPN connection dropping", Description: "d",
		Priority: domain.TicketPriorityHigh,
	})
	require.NoError(t, err)
	_, err = store.Create(context.Background(), domain.NewTicketParams{
		TicketType: domain.TicketTypeAccessRequest, Title: "Access request for Tableau", Description: "d",
	})
	require.NoError(t, err)

	dashboard, err := svc.Dashboard(context.Background(), "", svc.DefaultWindow())
	require.NoError(t, err)
	require.NotNil(t, dashboard)

	assert.Equal(t, 2, dashboard.Snapshot.Counts.Total)
	assert.Len(t, dashboard.SLAFunnel, 3)
	assert.Len(t, dashboard.Teams, len(domain.Teams))
	assert.Len(t, dashboard.Agents, len(analytics.DemoRoster))
	assert.Len(t, dashboard.Lifecycle, len(domain.StageOrder))
	assert.Len(t, dashboard.Forecast.Points, 7)
	assert.Len(t, dashboard.AccessRequests.Pending, 1)
}

func TestDashboard_OwnerScope(t *testing.T) {
	svc, store := newAnalyticsFixture(t)

	_, err := store.Create(context.Background(), domain.NewTicketParams{
		OwnerID: "agent-1", TicketType: domain.TicketTypeIncident, Title: "a", Description: "d",
	})
	require.NoError(t, err)
	_, err = store.Create(context.Background(), domain.NewTicketParams{
		OwnerID: "agent-2", TicketType: domain.TicketTypeIncident, Title: "b", Description: "d",
	})
	require.NoError(t, err)

	dashboard, err := svc.Dashboard(context.Background(), "agent-1", svc.DefaultWindow())
	require.NoError(t, err)
	assert.Equal(t, 1, dashboard.Snapshot.Counts.Total)
}

func TestForecast_UsesConfiguredSeed(t *testing.T) {
	svc, _ := newAnalyticsFixture(t)
	a := svc.Forecast(context.Background())
	b := svc.Forecast(context.Background())
	assert.Equal(t, a, b)
}

func TestKPIs_EmptyStore(t *testing.T) {
	svc, _ := newAnalyticsFixture(t)
	snap, err := svc.KPIs(context.Background(), "", svc.DefaultWindow())
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Counts.Total)
	assert.Nil(t, snap.MTTRHours.Current)
}
