package analytics

import (
	"time"

	"github.com/spec-kit/helpdesk-console/internal/domain"
	"github.com/spec-kit/helpdesk-console/internal/lifecycle"
)

// SLAFunnelRow summarizes SLA posture for one priority bucket.
type SLAFunnelRow struct {
	Priority      domain.TicketPriority `json:"priority"`
	Total         int                   `json:"total"`
	Breached      int                   `json:"breached"`
	CompliancePct *float64              `json:"compliance_pct"`
}

// SLAFunnel buckets tickets by priority (high first) and reports the count
// currently breached plus compliance over resolved/closed tickets that carry
// a deadline.
func SLAFunnel(tickets []domain.Ticket, now time.Time) []SLAFunnelRow {
	order := []domain.TicketPriority{
		domain.TicketPriorityHigh,
		domain.TicketPriorityMedium,
		domain.TicketPriorityLow,
	}

	rows := make([]SLAFunnelRow, 0, len(order))
	for _, priority := range order {
		var bucket []domain.Ticket
		for i := range tickets {
			if tickets[i].Priority == priority {
				bucket = append(bucket, tickets[i])
			}
		}

		row := SLAFunnelRow{Priority: priority, Total: len(bucket)}
		for i := range bucket {
			if lifecycle.Breached(&bucket[i], now) {
				row.Breached++
			}
		}
		row.CompliancePct = lifecycle.SLACompliance(bucket)
		rows = append(rows, row)
	}
	return rows
}

// FunnelStage is one step of the lifecycle funnel.
type FunnelStage struct {
	Stage         domain.LifecycleStage `json:"stage"`
	Count         int                   `json:"count"`
	ConversionPct float64               `json:"conversion_pct"`
}

// LifecycleFunnel walks the fixed stage order counting tickets in each stage.
// Conversion is the stage count over the previous stage count; the first
// stage converts against the full ticket population.
func LifecycleFunnel(tickets []domain.Ticket) []FunnelStage {
	counts := make(map[domain.LifecycleStage]int)
	for i := range tickets {
		counts[lifecycle.Stage(&tickets[i])]++
	}

	stages := make([]FunnelStage, 0, len(domain.StageOrder))
	previous := len(tickets)
	for _, stage := range domain.StageOrder {
		count := counts[stage]
		var conversion float64
		if previous > 0 {
			conversion = *round2(float64(count) / float64(previous) * 100)
		}
		stages = append(stages, FunnelStage{
			Stage:         stage,
			Count:         count,
			ConversionPct: conversion,
		})
		previous = count
	}
	return stages
}
