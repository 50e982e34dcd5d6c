// Package lifecycle provides pure SLA and lifecycle-stage computations over
// ticket records. Functions here perform no I/O and never mutate their input.
//
// Averages and percentages use a nil *float64 as the uniform "no data"
// sentinel: an empty input, or an input where every ticket lacks the
// required timestamps, yields nil rather than zero.
package lifecycle

import (
	"math"
	"time"

	"github.com/spec-kit/helpdesk-console/internal/domain"
)

// MTTR returns the mean time to resolution in hours over tickets that carry
// both created_at and resolved_at. Nil when no ticket qualifies.
func MTTR(tickets []domain.Ticket) *float64 {
	var total float64
	var n int
	for i := range tickets {
		t := &tickets[i]
		if t.ResolvedAt == nil || t.CreatedAt.IsZero() {
			continue
		}
		total += t.ResolvedAt.Sub(t.CreatedAt).Hours()
		n++
	}
	if n == 0 {
		return nil
	}
	return round2(total / float64(n))
}

// FirstResponseTime returns the mean hours from creation to first response
// over tickets that carry first_response_at. Nil when no ticket qualifies.
func FirstResponseTime(tickets []domain.Ticket) *float64 {
	var total float64
	var n int
	for i := range tickets {
		t := &tickets[i]
		if t.FirstResponseAt == nil || t.CreatedAt.IsZero() {
			continue
		}
		total += t.FirstResponseAt.Sub(t.CreatedAt).Hours()
		n++
	}
	if n == 0 {
		return nil
	}
	return round2(total / float64(n))
}

// Breached reports whether the ticket missed its SLA deadline as of now.
// For resolved/closed tickets the resolution timestamp is compared against
// the deadline; for open tickets the clock is. A ticket without a deadline
// is never breached. Resolution exactly at the deadline is compliant.
func Breached(t *domain.Ticket, now time.Time) bool {
	if t.SLADueAt == nil {
		return false
	}
	if t.IsResolved() {
		if t.ResolvedAt == nil {
			return false
		}
		return t.ResolvedAt.After(*t.SLADueAt)
	}
	return now.After(*t.SLADueAt)
}

// SLACompliance returns the percentage of resolved/closed tickets carrying a
// deadline whose effective resolution timestamp (resolved_at, falling back to
// updated_at) is at or before the deadline. Nil when no ticket qualifies:
// compliance over nothing is undefined, not zero.
func SLACompliance(tickets []domain.Ticket) *float64 {
	var compliant, total int
	for i := range tickets {
		t := &tickets[i]
		if !t.IsResolved() || t.SLADueAt == nil {
			continue
		}
		resolved := t.UpdatedAt
		if t.ResolvedAt != nil {
			resolved = *t.ResolvedAt
		}
		total++
		if !resolved.After(*t.SLADueAt) {
			compliant++
		}
	}
	if total == 0 {
		return nil
	}
	return round2(float64(compliant) / float64(total) * 100)
}

// Stage returns the ticket's funnel stage: the explicitly set lifecycle
// stage when present, otherwise the fixed status-derived mapping.
func Stage(t *domain.Ticket) domain.LifecycleStage {
	if t.LifecycleStage != "" {
		return t.LifecycleStage
	}
	return domain.DeriveStage(t.Status)
}

func round2(v float64) *float64 {
	r := math.Round(v*100) / 100
	return &r
}
