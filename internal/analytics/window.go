package analytics

import (
	"math"
	"time"

	"github.com/spec-kit/helpdesk-console/internal/domain"
)

// Window bounds a reporting period. Both ends are inclusive.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DefaultWindow is the last seven days ending at now.
func DefaultWindow(now time.Time) Window {
	return Window{Start: now.AddDate(0, 0, -7), End: now}
}

// Previous returns the immediately preceding window of equal length. Its
// end sits a nanosecond before w.Start so a ticket created exactly on the
// boundary belongs to one window only.
func (w Window) Previous() Window {
	span := w.End.Sub(w.Start)
	return Window{Start: w.Start.Add(-span), End: w.Start.Add(-time.Nanosecond)}
}

// Contains reports whether ts falls inside the window.
func (w Window) Contains(ts time.Time) bool {
	return !ts.Before(w.Start) && !ts.After(w.End)
}

func createdIn(tickets []domain.Ticket, w Window) []domain.Ticket {
	var out []domain.Ticket
	for i := range tickets {
		if w.Contains(tickets[i].CreatedAt) {
			out = append(out, tickets[i])
		}
	}
	return out
}

// deltaPct implements the period-over-period delta convention: a previous
// value of exactly zero with growth reads as +100; an undefined previous
// value makes the comparison itself undefined (nil), not infinite growth.
func deltaPct(previous, current *float64) *float64 {
	if previous == nil || current == nil {
		return nil
	}
	if *previous == 0 {
		if *current > 0 {
			return floatPtr(100)
		}
		return floatPtr(0)
	}
	return round2((*current - *previous) / *previous * 100)
}

func floatPtr(v float64) *float64 {
	return &v
}

func intAsFloat(n int) *float64 {
	v := float64(n)
	return &v
}

func round2(v float64) *float64 {
	r := math.Round(v*100) / 100
	return &r
}
