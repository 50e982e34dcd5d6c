package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-console/internal/activity"
	"github.com/spec-kit/helpdesk-console/internal/domain"
	"github.com/spec-kit/helpdesk-console/internal/events"
	"github.com/spec-kit/helpdesk-console/internal/lifecycle"
	"github.com/spec-kit/helpdesk-console/internal/repository"
)

// TicketService coordinates ticket workflows around the repository. The
// repository itself is a plain document store; workflow policy (stamping
// resolution timestamps, counting reopens) lives here.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	feed       *activity.Feed
	clock      func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Feed       *activity.Feed
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		feed:       deps.Feed,
		clock:      time.Now,
	}
}

// WithClock overrides the time source, mainly for tests.
func (s *TicketService) WithClock(clock func() time.Time) *TicketService {
	s.clock = clock
	return s
}

// Create persists a new ticket and announces it.
func (s *TicketService) Create(ctx context.Context, actor string, params domain.NewTicketParams) (*domain.Ticket, error) {
	ticket, err := s.tickets.Create(ctx, params)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload: events.TicketCreatedPayload{
			Title:      ticket.Title,
			TicketType: ticket.TicketType,
			Priority:   ticket.Priority,
			Team:       ticket.SuggestedTeam,
			Source:     ticket.Source,
		},
	})
	return ticket, nil
}

// Get returns the ticket or nil when unknown.
func (s *TicketService) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	return s.tickets.GetByID(ctx, id)
}

// List returns a page of tickets plus the pre-pagination total.
func (s *TicketService) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, int, error) {
	return s.tickets.List(ctx, filter)
}

// Search matches tickets by substring across the searchable text fields.
func (s *TicketService) Search(ctx context.Context, ownerID, query string) ([]domain.Ticket, error) {
	return s.tickets.Search(ctx, ownerID, query)
}

// Counts aggregates tickets by status for the owner scope.
func (s *TicketService) Counts(ctx context.Context, ownerID string) (domain.StatusCounts, error) {
	return s.tickets.Counts(ctx, ownerID)
}

// Update merges the patch onto the ticket, applying lifecycle policy around
// status transitions before the write: resolution stamps resolved_at (and
// sla_breached_at when the deadline was missed), reopening bumps
// reopened_count, and the first move out of open stamps first_response_at.
// Returns nil, nil when the id is unknown.
func (s *TicketService) Update(ctx context.Context, actor, id string, patch repository.TicketPatch) (*domain.Ticket, error) {
	existing, err := s.tickets.GetByID(ctx, id)
	if err != nil || existing == nil {
		return nil, err
	}

	var statusChange *events.TicketStatusChangedPayload
	if patch.Status != nil && *patch.Status != existing.Status {
		statusChange = &events.TicketStatusChangedPayload{
			OldStatus: existing.Status,
			NewStatus: *patch.Status,
		}
		s.applyTransitionPolicy(existing, &patch)
	}

	updated, err := s.tickets.Update(ctx, id, patch)
	if err != nil || updated == nil {
		return nil, err
	}

	if statusChange != nil {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: updated.ID,
			Actor:    actor,
			Payload:  *statusChange,
		})
	} else {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketUpdated,
			TicketID: updated.ID,
			Actor:    actor,
			Payload:  events.TicketUpdatedPayload{Fields: patchedFields(patch)},
		})
	}
	s.recordAudit(actor, "ticket.update", map[string]any{
		"ticket_id": updated.ID,
		"fields":    patchedFields(patch),
	})
	return updated, nil
}

// Delete removes the ticket; false when the id is unknown.
func (s *TicketService) Delete(ctx context.Context, actor, id string) (bool, error) {
	existing, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return false, err
	}

	ok, err := s.tickets.Delete(ctx, id)
	if err != nil || !ok {
		return ok, err
	}

	title := ""
	if existing != nil {
		title = existing.Title
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: id,
		Actor:    actor,
		Payload:  events.TicketDeletedPayload{Title: title},
	})
	s.recordAudit(actor, "ticket.delete", map[string]any{"ticket_id": id, "title": title})
	return true, nil
}

func (s *TicketService) applyTransitionPolicy(existing *domain.Ticket, patch *repository.TicketPatch) {
	now := s.clock()
	newStatus := *patch.Status

	entering := newStatus == domain.TicketStatusResolved || newStatus == domain.TicketStatusClosed
	leaving := existing.IsResolved() &&
		(newStatus == domain.TicketStatusOpen || newStatus == domain.TicketStatusInProgress)

	if entering {
		if patch.ResolvedAt == nil && existing.ResolvedAt == nil {
			patch.ResolvedAt = &now
		}
		resolved := existing.ResolvedAt
		if patch.ResolvedAt != nil {
			resolved = patch.ResolvedAt
		}
		if patch.SLABreachedAt == nil && existing.SLABreachedAt == nil &&
			existing.SLADueAt != nil && resolved != nil && resolved.After(*existing.SLADueAt) {
			patch.SLABreachedAt = existing.SLADueAt
		}
	}
	if leaving && patch.ReopenedCount == nil {
		count := existing.ReopenedCount + 1
		patch.ReopenedCount = &count
	}
	if existing.Status == domain.TicketStatusOpen && newStatus != domain.TicketStatusOpen &&
		patch.FirstResponseAt == nil && existing.FirstResponseAt == nil {
		patch.FirstResponseAt = &now
	}
}

// CheckBreach reports whether the ticket is currently past its SLA deadline.
func (s *TicketService) CheckBreach(t *domain.Ticket) bool {
	return lifecycle.Breached(t, s.clock())
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.clock()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func (s *TicketService) recordAudit(actor, action string, details map[string]any) {
	if s.feed == nil {
		return
	}
	s.feed.RecordAudit(actor, action, details)
}

func patchedFields(patch repository.TicketPatch) []string {
	var fields []string
	add := func(set bool, name string) {
		if set {
			fields = append(fields, name)
		}
	}
	add(patch.Title != nil, "title")
	add(patch.Description != nil, "description")
	add(patch.UserName != nil, "user_name")
	add(patch.AppOrSystem != nil, "app_or_system")
	add(patch.Assignee != nil, "assignee")
	add(patch.AssetID != nil, "asset_id")
	add(patch.TicketType != nil, "ticket_type")
	add(patch.Priority != nil, "priority")
	add(patch.SuggestedTeam != nil, "suggested_team")
	add(patch.Status != nil, "status")
	add(patch.LifecycleStage != nil, "lifecycle_stage")
	add(patch.Source != nil, "source")
	add(patch.ReopenedCount != nil, "reopened_count")
	add(patch.CollectedDetails != nil, "collected_details")
	add(patch.ExternalIDs != nil, "external_ids")
	add(patch.CSATScore != nil, "csat_score")
	add(patch.CSATComment != nil, "csat_comment")
	add(patch.FirstResponseAt != nil, "first_response_at")
	add(patch.ResolvedAt != nil, "resolved_at")
	add(patch.SLABreachedAt != nil, "sla_breached_at")
	add(patch.CSATSubmittedAt != nil, "csat_submitted_at")
	return fields
}

// EventMessage renders a human-readable feed line for a ticket event.
func EventMessage(event events.Event) string {
	switch event.Type {
	case events.EventTicketCreated:
		if p, ok := event.Payload.(events.TicketCreatedPayload); ok {
			return fmt.Sprintf("ticket %s created: %s", event.TicketID, p.Title)
		}
	case events.EventTicketStatusChanged:
		if p, ok := event.Payload.(events.TicketStatusChangedPayload); ok {
			return fmt.Sprintf("ticket %s moved %s -> %s", event.TicketID, p.OldStatus, p.NewStatus)
		}
	case events.EventTicketDeleted:
		return fmt.Sprintf("ticket %s deleted", event.TicketID)
	}
	return fmt.Sprintf("ticket %s updated", event.TicketID)
}

// WireActivityFeed subscribes the live-event feed to ticket events so the
// console's activity view reflects every mutation.
func WireActivityFeed(dispatcher events.Dispatcher, feed *activity.Feed) {
	if dispatcher == nil || feed == nil {
		return
	}
	handler := func(_ context.Context, event events.Event) error {
		feed.AddEvent(string(event.Type), EventMessage(event), event.TicketID, event.Actor, nil)
		return nil
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketUpdated,
		events.EventTicketStatusChanged,
		events.EventTicketDeleted,
	} {
		dispatcher.Subscribe(eventType, handler)
	}
}
