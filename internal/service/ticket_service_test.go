package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-console/internal/activity"
	"github.com/spec-kit/helpdesk-console/internal/domain"
	"github.com/spec-kit/helpdesk-console/internal/events"
	"github.com/spec-kit/helpdesk-console/internal/repository"
	"github.com/spec-kit/helpdesk-console/internal/repository/memory"
)

var svcBase = time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

type serviceFixture struct {
	service *TicketService
	store   *memory.TicketStore
	feed    *activity.Feed
	now     *time.Time
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()
	now := svcBase
	fixture := &serviceFixture{now: &now}
	clock := func() time.Time { return *fixture.now }

	fixture.store = memory.NewTicketStore().WithClock(clock)
	fixture.feed = activity.NewFeed().WithClock(clock)
	dispatcher := events.NewInMemoryDispatcher()
	WireActivityFeed(dispatcher, fixture.feed)

	fixture.service = NewTicketService(TicketDependencies{
		TicketRepo: fixture.store,
		Dispatcher: dispatcher,
		Feed:       fixture.feed,
	}).WithClock(clock)
	return fixture
}

func (f *serviceFixture) advance(d time.Duration) {
	*f.now = f.now.Add(d)
}

func (f *serviceFixture) create(t *testing.T, params domain.NewTicketParams) *domain.Ticket {
	t.Helper()
	ticket, err := f.service.Create(context.Background(), "admin", params)
	require.NoError(t, err)
	require.NotNil(t, ticket)
	return ticket
}

func statusPatch(status domain.TicketStatus) repository.TicketPatch {
	return repository.TicketPatch{Status: &status}
}

func TestCreate_PublishesEvent(t *testing.T) {
	f := newFixture(t)
	ticket := f.create(t, domain.NewTicketParams{
		TicketType: domain.TicketTypeIncident, Title: "VPN down", Description: "d",
	})

	feedEvents := f.feed.RecentEvents(0)
	require.Len(t, feedEvents, 1)
	assert.Equal(t, string(events.EventTicketCreated), feedEvents[0].Type)
	assert.Equal(t, ticket.ID, feedEvents[0].TicketID)
	assert.Equal(t, "admin", feedEvents[0].Actor)
	assert.Contains(t, feedEvents[0].Message, "VPN down")
}

func TestUpdate_ResolutionStampsResolvedAt(t *testing.T) {
	f := newFixture(t)
	ticket := f.create(t, domain.NewTicketParams{
		TicketType: domain.TicketTypeIncident, Title: "t", Description: "d",
		Priority: domain.TicketPriorityHigh,
	})

	f.advance(2 * time.Hour)
	updated, err := f.service.Update(context.Background(), "admin", ticket.ID, statusPatch(domain.TicketStatusResolved))
	require.NoError(t, err)
	require.NotNil(t, updated)

	require.NotNil(t, updated.ResolvedAt)
	assert.Equal(t, svcBase.Add(2*time.Hour), *updated.ResolvedAt)
	// resolved within the 24h window, so no breach stamp
	assert.Nil(t, updated.SLABreachedAt)
}

func TestUpdate_LateResolutionStampsBreach(t *testing.T) {
	f := newFixture(t)
	ticket := f.create(t, domain.NewTicketParams{
		TicketType: domain.TicketTypeIncident, Title: "t", Description: "d",
		Priority: domain.TicketPriorityHigh,
	})

	f.advance(30 * time.Hour)
	updated, err := f.service.Update(context.Background(), "admin", ticket.ID, statusPatch(domain.TicketStatusClosed))
	require.NoError(t, err)
	require.NotNil(t, updated)

	require.NotNil(t, updated.SLABreachedAt)
	assert.Equal(t, *ticket.SLADueAt, *updated.SLABreachedAt)
}

func TestUpdate_ReopenBumpsCount(t *testing.T) {
	f := newFixture(t)
	ticket := f.create(t, domain.NewTicketParams{
		TicketType: domain.TicketTypeIncident, Title: "t", Description: "d",
	})

	_, err := f.service.Update(context.Background(), "admin", ticket.ID, statusPatch(domain.TicketStatusResolved))
	require.NoError(t, err)

	reopened, err := f.service.Update(context.Background(), "admin", ticket.ID, statusPatch(domain.TicketStatusOpen))
	require.NoError(t, err)
	require.NotNil(t, reopened)
	assert.Equal(t, 1, reopened.ReopenedCount)

	// resolved_at survives the reopen; a stale patch cannot clear it
	assert.NotNil(t, reopened.ResolvedAt)
}

func TestUpdate_FirstMoveOutOfOpenStampsFirstResponse(t *testing.T) {
	f := newFixture(t)
	ticket := f.create(t, domain.NewTicketParams{
		TicketType: domain.TicketTypeIncident, Title: "t", Description: "d",
	})

	f.advance(time.Hour)
	updated, err := f.service.Update(context.Background(), "admin", ticket.ID, statusPatch(domain.TicketStatusInProgress))
	require.NoError(t, err)
	require.NotNil(t, updated)

	require.NotNil(t, updated.FirstResponseAt)
	assert.Equal(t, svcBase.Add(time.Hour), *updated.FirstResponseAt)

	// a later status change never re-stamps it
	f.advance(time.Hour)
	_, err = f.service.Update(context.Background(), "admin", ticket.ID, statusPatch(domain.TicketStatusOpen))
	require.NoError(t, err)
	again, err := f.service.Update(context.Background(), "admin", ticket.ID, statusPatch(domain.TicketStatusInProgress))
	require.NoError(t, err)
	assert.Equal(t, svcBase.Add(time.Hour), *again.FirstResponseAt)
}

func TestUpdate_StatusChangePublishesEventAndAudit(t *testing.T) {
	f := newFixture(t)
	ticket := f.create(t, domain.NewTicketParams{
		TicketType: domain.TicketTypeIncident, Title: "t", Description: "d",
	})

	_, err := f.service.Update(context.Background(), "agent-1", ticket.ID, statusPatch(domain.TicketStatusInProgress))
	require.NoError(t, err)

	feedEvents := f.feed.RecentEvents(0)
	require.Len(t, feedEvents, 2)
	assert.Equal(t, string(events.EventTicketStatusChanged), feedEvents[0].Type)
	assert.Contains(t, feedEvents[0].Message, "open -> in_progress")

	audit := f.feed.RecentAudit(0)
	require.Len(t, audit, 1)
	assert.Equal(t, "ticket.update", audit[0].Action)
	assert.Equal(t, "agent-1", audit[0].Actor)
}

func TestUpdate_UnknownIsNilNil(t *testing.T) {
	f := newFixture(t)
	updated, err := f.service.Update(context.Background(), "admin", "TKT-missing", statusPatch(domain.TicketStatusClosed))
	assert.NoError(t, err)
	assert.Nil(t, updated)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ticket := f.create(t, domain.NewTicketParams{
		TicketType: domain.TicketTypeIncident, Title: "to remove", Description: "d",
	})

	ok, err := f.service.Delete(context.Background(), "admin", ticket.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	feedEvents := f.feed.RecentEvents(0)
	require.NotEmpty(t, feedEvents)
	assert.Equal(t, string(events.EventTicketDeleted), feedEvents[0].Type)

	audit := f.feed.RecentAudit(0)
	require.Len(t, audit, 1)
	assert.Equal(t, "ticket.delete", audit[0].Action)

	ok, err = f.service.Delete(context.Background(), "admin", ticket.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckBreach(t *testing.T) {
	f := newFixture(t)
	ticket := f.create(t, domain.NewTicketParams{
		TicketType: domain.TicketTypeIncident, Title: "t", Description: "d",
		Priority: domain.TicketPriorityHigh,
	})

	assert.False(t, f.service.CheckBreach(ticket))
	f.advance(25 * time.Hour)
	assert.True(t, f.service.CheckBreach(ticket))
}
