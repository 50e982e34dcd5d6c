package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-console/internal/domain"
	"github.com/spec-kit/helpdesk-console/internal/repository"
)

var storeBase = time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func mustCreate(t *testing.T, store *TicketStore, params domain.NewTicketParams) *domain.Ticket {
	t.Helper()
	ticket, err := store.Create(context.Background(), params)
	require.NoError(t, err)
	require.NotNil(t, ticket)
	return ticket
}

func TestCreate_RoundTrip(t *testing.T) {
	store := NewTicketStore().WithClock(fixedClock(storeBase))

	created := mustCreate(t, store, domain.NewTicketParams{
		OwnerID:     "agent-7",
		TicketType:  domain.TicketTypeIncident,
		Title:       "Wifi down in building B",
		Description: "No APs responding on floor 2",
		Priority:    domain.TicketPriorityHigh,
	})

	fetched, err := store.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, *created, *fetched)
}

func TestCreate_SLADeadlines(t *testing.T) {
	store := NewTicketStore().WithClock(fixedClock(storeBase))

	tests := []struct {
		priority domain.TicketPriority
		offset   time.Duration
	}{
		{domain.TicketPriorityHigh, 24 * time.Hour},
		{domain.TicketPriorityMedium, 48 * time.Hour},
		{domain.TicketPriorityLow, 72 * time.Hour},
	}
	for _, tc := range tests {
		ticket := mustCreate(t, store, domain.NewTicketParams{
			TicketType:  domain.TicketTypeRequest,
			Title:       "x",
			Description: "y",
			Priority:    tc.priority,
		})
		require.NotNil(t, ticket.SLADueAt, "priority %s", tc.priority)
		assert.Equal(t, storeBase.Add(tc.offset), *ticket.SLADueAt, "priority %s", tc.priority)
	}
}

func TestGetByID_UnknownIsNilNil(t *testing.T) {
	store := NewTicketStore()
	ticket, err := store.GetByID(context.Background(), "TKT-missing")
	assert.NoError(t, err)
	assert.Nil(t, ticket)
}

func TestList_Pagination(t *testing.T) {
	store := NewTicketStore()
	ids := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		store.WithClock(fixedClock(storeBase.Add(time.Duration(i) * time.Hour)))
		ticket := mustCreate(t, store, domain.NewTicketParams{
			TicketType:  domain.TicketTypeIncident,
			Title:       "t",
			Description: "d",
		})
		ids = append(ids, ticket.ID)
	}

	page, total, err := store.List(context.Background(), repository.TicketFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	// newest-first: offset 1 skips the newest, leaving the 2nd and 3rd newest
	assert.Equal(t, ids[3], page[0].ID)
	assert.Equal(t, ids[2], page[1].ID)
}

func TestList_Filters(t *testing.T) {
	store := NewTicketStore().WithClock(fixedClock(storeBase))

	mustCreate(t, store, domain.NewTicketParams{
		OwnerID: "agent-1", TicketType: domain.TicketTypeIncident, Title: "a", Description: "d",
		Priority: domain.TicketPriorityHigh,
	})
	mustCreate(t, store, domain.NewTicketParams{
		OwnerID: "agent-2", TicketType: domain.TicketTypeAccessRequest, Title: "b", Description: "d",
		Priority: domain.TicketPriorityLow,
	})

	high := domain.TicketPriorityHigh
	page, total, err := store.List(context.Background(), repository.TicketFilter{Priority: &high})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, page, 1)
	assert.Equal(t, "agent-1", page[0].OwnerID)

	page, total, err = store.List(context.Background(), repository.TicketFilter{OwnerID: "agent-2"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, domain.TicketTypeAccessRequest, page[0].TicketType)
}

func TestUpdate(t *testing.T) {
	store := NewTicketStore().WithClock(fixedClock(storeBase))
	created := mustCreate(t, store, domain.NewTicketParams{
		TicketType: domain.TicketTypeIncident, Title: "before", Description: "d",
	})

	later := storeBase.Add(3 * time.Hour)
	store.WithClock(fixedClock(later))

	title := "after"
	status := domain.TicketStatusInProgress
	updated, err := store.Update(context.Background(), created.ID, repository.TicketPatch{
		Title:  &title,
		Status: &status,
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "after", updated.Title)
	assert.Equal(t, domain.TicketStatusInProgress, updated.Status)
	assert.Equal(t, later, updated.UpdatedAt)
	// the SLA deadline stays frozen at creation
	assert.Equal(t, *created.SLADueAt, *updated.SLADueAt)
}

func TestUpdate_UnknownIsNilNil(t *testing.T) {
	store := NewTicketStore()
	title := "x"
	updated, err := store.Update(context.Background(), "TKT-missing", repository.TicketPatch{Title: &title})
	assert.NoError(t, err)
	assert.Nil(t, updated)
}

func TestDelete_Idempotent(t *testing.T) {
	store := NewTicketStore().WithClock(fixedClock(storeBase))
	created := mustCreate(t, store, domain.NewTicketParams{
		TicketType: domain.TicketTypeIncident, Title: "t", Description: "d",
	})

	ok, err := store.Delete(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Delete(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSearch_CaseInsensitive(t *testing.T) {
	store := NewTicketStore().WithClock(fixedClock(storeBase))
	mustCreate(t, store, domain.NewTicketParams{
		TicketType: domain.TicketTypeIncident, Title: "VPN Connection Dropping", Description: "d",
	})
	mustCreate(t, store, domain.NewTicketParams{
		TicketType: domain.TicketTypeIncident, Title: "Printer offline", Description: "spooler stuck",
	})

	matches, err := store.Search(context.Background(), "", "vpn")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "VPN Connection Dropping", matches[0].Title)

	matches, err = store.Search(context.Background(), "", "SPOOLER")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Printer offline", matches[0].Title)
}

func TestSearch_OwnerScope(t *testing.T) {
	store := NewTicketStore().WithClock(fixedClock(storeBase))
	mustCreate(t, store, domain.NewTicketParams{
		OwnerID: "agent-1", TicketType: domain.TicketTypeIncident, Title: "VPN issue", Description: "d",
	})
	mustCreate(t, store, domain.NewTicketParams{
		OwnerID: "agent-2", TicketType: domain.TicketTypeIncident, Title: "VPN issue too", Description: "d",
	})

	matches, err := store.Search(context.Background(), "agent-1", "vpn")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "agent-1", matches[0].OwnerID)
}

func TestCounts(t *testing.T) {
	store := NewTicketStore().WithClock(fixedClock(storeBase))
	for _, status := range []domain.TicketStatus{
		domain.TicketStatusOpen,
		domain.TicketStatusOpen,
		domain.TicketStatusResolved,
	} {
		mustCreate(t, store, domain.NewTicketParams{
			TicketType: domain.TicketTypeIncident, Title: "t", Description: "d", Status: status,
		})
	}

	counts, err := store.Counts(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCounts{Open: 2, Resolved: 1, Total: 3}, counts)
}
