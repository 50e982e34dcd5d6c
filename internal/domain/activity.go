package domain

import (
	"fmt"
	"math/rand"
	"time"
)

// LiveEvent is an operational event shown in the activity feed. Events are
// append-only and live only for the lifetime of the process.
type LiveEvent struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	TicketID  string         `json:"ticket_id,omitempty"`
	Actor     string         `json:"actor,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// AuditLogEntry records an admin action. Append-only, process-lifetime.
type AuditLogEntry struct {
	ID        string         `json:"id"`
	Actor     string         `json:"actor"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewLiveEventID produces an identifier of the form event-<ts>-<rand>.
func NewLiveEventID(now time.Time) string {
	return feedID("event", now)
}

// NewAuditLogID produces an identifier of the form audit-<ts>-<rand>.
func NewAuditLogID(now time.Time) string {
	return feedID("audit", now)
}

func feedID(prefix string, now time.Time) string {
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = base36Alphabet[rand.Intn(len(base36Alphabet))]
	}
	return fmt.Sprintf("%s-%d-%s", prefix, now.UnixMilli(), suffix)
}
