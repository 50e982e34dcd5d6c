package service

import (
	"context"
	"fmt"

	"github.com/spec-kit/helpdesk-console/internal/analytics"
	"github.com/spec-kit/helpdesk-console/internal/domain"
	"github.com/spec-kit/helpdesk-console/internal/repository"
)

// Demo data; swap for real intake once ticket ingestion goes live.

type seedTicket struct {
	ticketType  domain.TicketType
	title       string
	description string
	priority    domain.TicketPriority
	team        string
	appOrSystem string
	userName    string
	status      domain.TicketStatus
}

var seedTickets = []seedTicket{
	{domain.TicketTypeIncident, "VPN connection drops", "VPN disconnects every few minutes when on home wifi", domain.TicketPriorityHigh, domain.TeamNetwork, "vpn", "dana.r", domain.TicketStatusOpen},
	{domain.TicketTypeIncident, "VPN connection unstable after update", "Client update broke split tunneling", domain.TicketPriorityHigh, domain.TeamNetwork, "vpn", "li.wei", domain.TicketStatusInProgress},
	{domain.TicketTypeIncident, "VPN connection fails at login", "Stuck on authenticating since this morning", domain.TicketPriorityMedium, domain.TeamNetwork, "vpn", "sam.or", domain.TicketStatusOpen},
	{domain.TicketTypeAccessRequest, "Access request for Salesforce", "New AE needs a Salesforce seat", domain.TicketPriorityMedium, domain.TeamIAM, "salesforce", "mia.k", domain.TicketStatusOpen},
	{domain.TicketTypeAccessRequest, "Access request for Tableau", "Quarterly reporting dashboards", domain.TicketPriorityLow, domain.TeamIAM, "tableau", "omar.f", domain.TicketStatusResolved},
	{domain.TicketTypeIncident, "Laptop battery swelling", "Physical damage visible, needs replacement", domain.TicketPriorityHigh, domain.TeamEndpointSupport, "hardware", "jo.b", domain.TicketStatusInProgress},
	{domain.TicketTypeRequest, "Software install request for Figma", "Design team onboarding", domain.TicketPriorityLow, domain.TeamApplicationSupport, "figma", "elena.s", domain.TicketStatusClosed},
	{domain.TicketTypeIncident, "Email delivery delayed", "External mail arriving hours late", domain.TicketPriorityMedium, domain.TeamApplicationSupport, "email", "noah.t", domain.TicketStatusResolved},
}

// SeedSampleTickets loads a small demo dataset through the normal creation
// path so events, SLA deadlines and the activity feed behave as in real use.
// It is idempotent per process, not per store: rerunning against a persistent
// database creates duplicates, so it is meant for the in-memory store.
func SeedSampleTickets(ctx context.Context, svc *TicketService) error {
	roster := analytics.DemoRoster
	for i, seed := range seedTickets {
		agent := roster[i%len(roster)]
		ticket, err := svc.Create(ctx, "seed", domain.NewTicketParams{
			TicketType:    seed.ticketType,
			Title:         seed.title,
			Description:   seed.description,
			Priority:      seed.priority,
			SuggestedTeam: seed.team,
			AppOrSystem:   seed.appOrSystem,
			UserName:      seed.userName,
			Assignee:      agent.Name,
			Source:        domain.SourceManual,
		})
		if err != nil {
			return fmt.Errorf("seed ticket %d: %w", i, err)
		}
		if seed.status != domain.TicketStatusOpen {
			status := seed.status
			if _, err := svc.Update(ctx, "seed", ticket.ID, repository.TicketPatch{Status: &status}); err != nil {
				return fmt.Errorf("seed ticket %d status: %w", i, err)
			}
		}
	}
	return nil
}
