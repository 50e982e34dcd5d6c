package analytics

import (
	"github.com/spec-kit/helpdesk-console/internal/domain"
	"github.com/spec-kit/helpdesk-console/internal/lifecycle"
)

// TeamLoad classifies backlog pressure.
type TeamLoad string

const (
	LoadLow    TeamLoad = "low"
	LoadMedium TeamLoad = "medium"
	LoadHigh   TeamLoad = "high"
)

// TeamPerformance is one row of the team report.
type TeamPerformance struct {
	Team                  string   `json:"team"`
	QueueSize             int      `json:"queue_size"`
	Load                  TeamLoad `json:"load"`
	AvgFirstResponseHours *float64 `json:"avg_first_response_hours"`
	AvgResolutionHours    *float64 `json:"avg_resolution_hours"`
}

// AgentPerformance is one row of the per-agent report.
type AgentPerformance struct {
	Agent              string   `json:"agent"`
	Team               string   `json:"team"`
	Assigned           int      `json:"assigned"`
	Workload           TeamLoad `json:"workload"`
	AvgResolutionHours *float64 `json:"avg_resolution_hours"`
}

// TeamReport computes queue size, load classification and response/resolution
// averages per fixed team. Queue size counts tickets not yet resolved or
// closed; load is high above 20 backlog, medium above 10.
func TeamReport(tickets []domain.Ticket) []TeamPerformance {
	rows := make([]TeamPerformance, 0, len(domain.Teams))
	for _, team := range domain.Teams {
		var members []domain.Ticket
		queue := 0
		for i := range tickets {
			if tickets[i].SuggestedTeam != team {
				continue
			}
			members = append(members, tickets[i])
			if !tickets[i].IsResolved() {
				queue++
			}
		}
		rows = append(rows, TeamPerformance{
			Team:                  team,
			QueueSize:             queue,
			Load:                  loadFor(queue, 20, 10),
			AvgFirstResponseHours: lifecycle.FirstResponseTime(members),
			AvgResolutionHours:    lifecycle.MTTR(members),
		})
	}
	return rows
}

// AgentReport synthesizes per-agent rows for the given roster by matching
// ticket assignees. Workload is high above 15 assigned tickets, medium
// above 8.
func AgentReport(tickets []domain.Ticket, roster []RosterAgent) []AgentPerformance {
	rows := make([]AgentPerformance, 0, len(roster))
	for _, agent := range roster {
		var assigned []domain.Ticket
		for i := range tickets {
			if tickets[i].Assignee == agent.Name {
				assigned = append(assigned, tickets[i])
			}
		}
		rows = append(rows, AgentPerformance{
			Agent:              agent.Name,
			Team:               agent.Team,
			Assigned:           len(assigned),
			Workload:           loadFor(len(assigned), 15, 8),
			AvgResolutionHours: lifecycle.MTTR(assigned),
		})
	}
	return rows
}

func loadFor(n, high, medium int) TeamLoad {
	switch {
	case n > high:
		return LoadHigh
	case n > medium:
		return LoadMedium
	default:
		return LoadLow
	}
}
