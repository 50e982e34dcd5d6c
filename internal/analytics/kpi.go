// Package analytics derives read-only reporting views from ticket
// collections. Nothing here mutates tickets or performs I/O; every report is
// recomputed from the full ticket set supplied by the caller.
package analytics

import (
	"time"

	"github.com/spec-kit/helpdesk-console/internal/domain"
	"github.com/spec-kit/helpdesk-console/internal/lifecycle"
)

// TrendPoint is one calendar day of a metric series.
type TrendPoint struct {
	Day   time.Time `json:"day"`
	Value *float64  `json:"value"`
}

// Metric pairs a windowed value with its prior-window comparison and a
// seven-day daily trend. Nil values mean "no data", never zero.
type Metric struct {
	Current  *float64     `json:"current"`
	Previous *float64     `json:"previous"`
	DeltaPct *float64     `json:"delta_pct"`
	Trend    []TrendPoint `json:"trend"`
}

// Snapshot is the KPI dashboard read model for one reporting window.
type Snapshot struct {
	Window         Window              `json:"window"`
	Counts         domain.StatusCounts `json:"counts"`
	PreviousCounts domain.StatusCounts `json:"previous_counts"`

	CreatedVolume      Metric `json:"created_volume"`
	MTTRHours          Metric `json:"mttr_hours"`
	FirstResponseHours Metric `json:"first_response_hours"`
	SLACompliancePct   Metric `json:"sla_compliance_pct"`
	CSATPct            Metric `json:"csat_pct"`
}

// KPISnapshot computes the snapshot for the window against the immediately
// preceding window of equal length.
func KPISnapshot(tickets []domain.Ticket, w Window) Snapshot {
	current := createdIn(tickets, w)
	previous := createdIn(tickets, w.Previous())

	snap := Snapshot{
		Window:         w,
		Counts:         countByStatus(current),
		PreviousCounts: countByStatus(previous),
	}

	snap.CreatedVolume = buildMetric(current, previous, w, func(ts []domain.Ticket) *float64 {
		return intAsFloat(len(ts))
	})
	snap.MTTRHours = buildMetric(current, previous, w, lifecycle.MTTR)
	snap.FirstResponseHours = buildMetric(current, previous, w, lifecycle.FirstResponseTime)
	snap.SLACompliancePct = buildMetric(current, previous, w, lifecycle.SLACompliance)
	snap.CSATPct = buildMetric(current, previous, w, CSATPct)
	return snap
}

// CSATPct is the percentage of rated tickets scored satisfied (score 1).
// Nil when no ticket carries a rating.
func CSATPct(tickets []domain.Ticket) *float64 {
	var rated, satisfied int
	for i := range tickets {
		if tickets[i].CSATScore == nil {
			continue
		}
		rated++
		if *tickets[i].CSATScore == 1 {
			satisfied++
		}
	}
	if rated == 0 {
		return nil
	}
	return round2(float64(satisfied) / float64(rated) * 100)
}

func buildMetric(current, previous []domain.Ticket, w Window, compute func([]domain.Ticket) *float64) Metric {
	cur := compute(current)
	prev := compute(previous)
	return Metric{
		Current:  cur,
		Previous: prev,
		DeltaPct: deltaPct(prev, cur),
		Trend:    dailyTrend(current, w, compute),
	}
}

// dailyTrend recomputes the metric per calendar day for the last seven days
// of the window, each day restricted to tickets created that day.
func dailyTrend(tickets []domain.Ticket, w Window, compute func([]domain.Ticket) *float64) []TrendPoint {
	points := make([]TrendPoint, 0, 7)
	end := w.End.Truncate(24 * time.Hour)
	for offset := 6; offset >= 0; offset-- {
		day := end.AddDate(0, 0, -offset)
		next := day.AddDate(0, 0, 1)
		var daily []domain.Ticket
		for i := range tickets {
			created := tickets[i].CreatedAt
			if !created.Before(day) && created.Before(next) {
				daily = append(daily, tickets[i])
			}
		}
		points = append(points, TrendPoint{Day: day, Value: compute(daily)})
	}
	return points
}

func countByStatus(tickets []domain.Ticket) domain.StatusCounts {
	var counts domain.StatusCounts
	for i := range tickets {
		counts.Add(tickets[i].Status)
	}
	return counts
}
