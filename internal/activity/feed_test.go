package activity

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var feedBase = time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

func TestFeed_AddEventOrdering(t *testing.T) {
	feed := NewFeed().WithClock(func() time.Time { return feedBase })

	feed.AddEvent("ticket_created", "first", "TKT-1", "admin", nil)
	feed.AddEvent("ticket_updated", "second", "TKT-1", "admin", nil)

	events := feed.RecentEvents(0)
	require.Len(t, events, 2)
	// newest first
	assert.Equal(t, "second", events[0].Message)
	assert.Equal(t, "first", events[1].Message)
}

func TestFeed_LiveEventCapEviction(t *testing.T) {
	feed := NewFeed().WithClock(func() time.Time { return feedBase })

	for i := 0; i < LiveEventCap+10; i++ {
		feed.AddEvent("ticket_created", fmt.Sprintf("event %d", i), "TKT-1", "admin", nil)
	}

	events := feed.RecentEvents(0)
	require.Len(t, events, LiveEventCap)
	// the newest survives, the oldest ten were evicted
	assert.Equal(t, fmt.Sprintf("event %d", LiveEventCap+9), events[0].Message)
	assert.Equal(t, "event 10", events[len(events)-1].Message)
}

func TestFeed_RecentEventsLimit(t *testing.T) {
	feed := NewFeed().WithClock(func() time.Time { return feedBase })
	for i := 0; i < 5; i++ {
		feed.AddEvent("ticket_created", fmt.Sprintf("event %d", i), "TKT-1", "admin", nil)
	}

	assert.Len(t, feed.RecentEvents(3), 3)
	assert.Len(t, feed.RecentEvents(0), 5)
	assert.Len(t, feed.RecentEvents(50), 5)
}

func TestFeed_RecordAudit(t *testing.T) {
	feed := NewFeed().WithClock(func() time.Time { return feedBase })

	entry := feed.RecordAudit("admin", "ticket.delete", map[string]any{"ticket_id": "TKT-1"})
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, feedBase, entry.Timestamp)

	audit := feed.RecentAudit(0)
	require.Len(t, audit, 1)
	assert.Equal(t, "ticket.delete", audit[0].Action)
	assert.Equal(t, "admin", audit[0].Actor)
}

func TestFeed_AuditCapEviction(t *testing.T) {
	feed := NewFeed().WithClock(func() time.Time { return feedBase })
	for i := 0; i < AuditLogCap+5; i++ {
		feed.RecordAudit("admin", fmt.Sprintf("action-%d", i), nil)
	}

	audit := feed.RecentAudit(0)
	require.Len(t, audit, AuditLogCap)
	assert.Equal(t, fmt.Sprintf("action-%d", AuditLogCap+4), audit[0].Action)
}

func TestFeed_ReturnsCopies(t *testing.T) {
	feed := NewFeed().WithClock(func() time.Time { return feedBase })
	feed.AddEvent("ticket_created", "original", "TKT-1", "admin", nil)

	events := feed.RecentEvents(0)
	events[0].Message = "mutated"

	again := feed.RecentEvents(0)
	assert.Equal(t, "original", again[0].Message)
}
