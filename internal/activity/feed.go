// Package activity keeps the process-lifetime live-event and audit feeds.
// Both are bounded, append-only lists: no update or delete exists, and state
// resets on restart by design.
package activity

import (
	"sync"
	"time"

	"github.com/spec-kit/helpdesk-console/internal/domain"
)

// Caps for the bounded feeds; oldest entries are evicted first.
const (
	LiveEventCap = 100
	AuditLogCap  = 500
)

// Feed is the shared in-process activity store. A mutex guards both lists
// because Fiber handlers run concurrently.
type Feed struct {
	mu     sync.Mutex
	events []domain.LiveEvent
	audit  []domain.AuditLogEntry
	clock  func() time.Time
}

// NewFeed builds an empty feed.
func NewFeed() *Feed {
	return &Feed{clock: time.Now}
}

// WithClock overrides the time source, mainly for tests.
func (f *Feed) WithClock(clock func() time.Time) *Feed {
	f.clock = clock
	return f
}

// AddEvent assigns an id and timestamp, prepends the event and truncates to
// the newest LiveEventCap entries.
func (f *Feed) AddEvent(eventType, message, ticketID, actor string, metadata map[string]any) domain.LiveEvent {
	now := f.clock()
	event := domain.LiveEvent{
		ID:        domain.NewLiveEventID(now),
		Type:      eventType,
		Message:   message,
		TicketID:  ticketID,
		Actor:     actor,
		Timestamp: now,
		Metadata:  metadata,
	}

	f.mu.Lock()
	f.events = prependEvent(f.events, event, LiveEventCap)
	f.mu.Unlock()
	return event
}

// RecordAudit assigns an id and timestamp, prepends the entry and truncates
// to the newest AuditLogCap entries.
func (f *Feed) RecordAudit(actor, action string, details map[string]any) domain.AuditLogEntry {
	now := f.clock()
	entry := domain.AuditLogEntry{
		ID:        domain.NewAuditLogID(now),
		Actor:     actor,
		Action:    action,
		Details:   details,
		Timestamp: now,
	}

	f.mu.Lock()
	f.audit = prependAudit(f.audit, entry, AuditLogCap)
	f.mu.Unlock()
	return entry
}

// RecentEvents returns up to n live events, newest first. n <= 0 returns all.
func (f *Feed) RecentEvents(n int) []domain.LiveEvent {
	f.mu.Lock()
	defer f.mu.Unlock()

	if n <= 0 || n > len(f.events) {
		n = len(f.events)
	}
	out := make([]domain.LiveEvent, n)
	copy(out, f.events[:n])
	return out
}

// RecentAudit returns up to n audit entries, newest first. n <= 0 returns all.
func (f *Feed) RecentAudit(n int) []domain.AuditLogEntry {
	f.mu.Lock()
	defer f.mu.Unlock()

	if n <= 0 || n > len(f.audit) {
		n = len(f.audit)
	}
	out := make([]domain.AuditLogEntry, n)
	copy(out, f.audit[:n])
	return out
}

func prependEvent(list []domain.LiveEvent, event domain.LiveEvent, limit int) []domain.LiveEvent {
	list = append([]domain.LiveEvent{event}, list...)
	if len(list) > limit {
		list = list[:limit]
	}
	return list
}

func prependAudit(list []domain.AuditLogEntry, entry domain.AuditLogEntry, limit int) []domain.AuditLogEntry {
	list = append([]domain.AuditLogEntry{entry}, list...)
	if len(list) > limit {
		list = list[:limit]
	}
	return list
}
