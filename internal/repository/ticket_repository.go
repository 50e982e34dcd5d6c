package repository

import (
	"context"
	"time"

	"github.com/spec-kit/helpdesk-console/internal/domain"
)

// DefaultPageSize applies when a list request carries no limit.
const DefaultPageSize = 50

// TicketFilter captures list parameters. String filters are exact matches;
// an empty OwnerID means no owner scoping.
type TicketFilter struct {
	OwnerID       string
	Status        *domain.TicketStatus
	Priority      *domain.TicketPriority
	TicketType    *domain.TicketType
	SuggestedTeam *string
	Limit         int
	Offset        int
}

// TicketPatch is a partial update. Nil fields are left untouched; there is
// deliberately no way to clear an already-set timestamp, so a stale patch
// cannot erase resolved_at.
type TicketPatch struct {
	Title          *string
	Description    *string
	UserName       *string
	AppOrSystem    *string
	Assignee       *string
	AssetID        *string
	TicketType     *domain.TicketType
	Priority       *domain.TicketPriority
	SuggestedTeam  *string
	Status         *domain.TicketStatus
	LifecycleStage *domain.LifecycleStage
	Source         *domain.TicketSource
	ReopenedCount  *int

	CollectedDetails map[string]string
	ExternalIDs      map[string]string

	CSATScore   *int
	CSATComment *string

	FirstResponseAt *time.Time
	ResolvedAt      *time.Time
	SLABreachedAt   *time.Time
	CSATSubmittedAt *time.Time
}

// Apply merges the patch onto the ticket and re-stamps updated_at. The SLA
// deadline is never recomputed here, even when the patch changes priority.
func (p TicketPatch) Apply(t *domain.Ticket, now time.Time) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.UserName != nil {
		t.UserName = *p.UserName
	}
	if p.AppOrSystem != nil {
		t.AppOrSystem = *p.AppOrSystem
	}
	if p.Assignee != nil {
		t.Assignee = *p.Assignee
	}
	if p.AssetID != nil {
		t.AssetID = *p.AssetID
	}
	if p.TicketType != nil {
		t.TicketType = *p.TicketType
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.SuggestedTeam != nil {
		t.SuggestedTeam = *p.SuggestedTeam
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.LifecycleStage != nil {
		t.LifecycleStage = *p.LifecycleStage
	}
	if p.Source != nil {
		t.Source = *p.Source
	}
	if p.ReopenedCount != nil {
		t.ReopenedCount = *p.ReopenedCount
	}
	if p.CollectedDetails != nil {
		t.CollectedDetails = p.CollectedDetails
	}
	if p.ExternalIDs != nil {
		t.ExternalIDs = p.ExternalIDs
	}
	if p.CSATScore != nil {
		t.CSATScore = p.CSATScore
	}
	if p.CSATComment != nil {
		t.CSATComment = *p.CSATComment
	}
	if p.FirstResponseAt != nil {
		t.FirstResponseAt = p.FirstResponseAt
	}
	if p.ResolvedAt != nil {
		t.ResolvedAt = p.ResolvedAt
	}
	if p.SLABreachedAt != nil {
		t.SLABreachedAt = p.SLABreachedAt
	}
	if p.CSATSubmittedAt != nil {
		t.CSATSubmittedAt = p.CSATSubmittedAt
	}
	t.UpdatedAt = now
}

// TicketRepository encapsulates ticket persistence. Lookups for an unknown id
// return a nil ticket (or false for Delete) with a nil error; only store
// failures surface as errors, propagated unwrapped.
type TicketRepository interface {
	// Create assigns the id, timestamps and SLA deadline and persists the
	// ticket. Required fields (type, title, description) are the caller's
	// contract; no enum validation happens here.
	Create(ctx context.Context, params domain.NewTicketParams) (*domain.Ticket, error)

	// List returns a page of tickets sorted newest-created-first plus the
	// total count matching the filter before pagination.
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, int, error)

	// GetByID returns nil, nil when the id is unknown.
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)

	// Update merges the patch onto the stored record, refreshing updated_at.
	// Returns nil, nil when the id is unknown. Last write wins; there is no
	// compare-and-swap on concurrent updates.
	Update(ctx context.Context, id string, patch TicketPatch) (*domain.Ticket, error)

	// Delete reports false (without error) when the id is unknown.
	Delete(ctx context.Context, id string) (bool, error)

	// Search performs a case-insensitive substring match across title,
	// description, user_name and app_or_system.
	Search(ctx context.Context, ownerID, query string) ([]domain.Ticket, error)

	// Counts aggregates ticket counts by status across the whole store,
	// scoped only by owner.
	Counts(ctx context.Context, ownerID string) (domain.StatusCounts, error)

	// All returns every ticket for the owner scope, newest first. Analytics
	// recomputes its views from this set on each call.
	All(ctx context.Context, ownerID string) ([]domain.Ticket, error)
}
