// Package memory provides an in-process document store for tickets. It backs
// the service when no Postgres DSN is configured and the repository tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/helpdesk-console/internal/domain"
	"github.com/spec-kit/helpdesk-console/internal/repository"
)

// TicketStore keeps tickets in a mutex-guarded map. Semantics match the
// Postgres repository: last write wins, no retention limit.
type TicketStore struct {
	mu      sync.RWMutex
	tickets map[string]domain.Ticket
	clock   func() time.Time
}

// NewTicketStore builds an empty store.
func NewTicketStore() *TicketStore {
	return &TicketStore{
		tickets: make(map[string]domain.Ticket),
		clock:   time.Now,
	}
}

// WithClock overrides the time source, mainly for tests.
func (s *TicketStore) WithClock(clock func() time.Time) *TicketStore {
	s.clock = clock
	return s
}

// Create assigns identity, timestamps and the SLA deadline, then stores the
// ticket.
func (s *TicketStore) Create(_ context.Context, params domain.NewTicketParams) (*domain.Ticket, error) {
	ticket := domain.NewTicket(params, s.clock())

	s.mu.Lock()
	s.tickets[ticket.ID] = *ticket
	s.mu.Unlock()

	return ticket, nil
}

// List filters, sorts newest-created-first and paginates. The returned total
// reflects the filtered count before pagination.
func (s *TicketStore) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, int, error) {
	s.mu.RLock()
	matched := make([]domain.Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		if matchesFilter(&t, filter) {
			matched = append(matched, t)
		}
	}
	s.mu.RUnlock()

	sortNewestFirst(matched)
	total := len(matched)

	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []domain.Ticket{}, total, nil
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = repository.DefaultPageSize
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

// GetByID returns nil, nil for an unknown id.
func (s *TicketStore) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tickets[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

// Update merges the patch and refreshes updated_at; nil, nil for unknown ids.
func (s *TicketStore) Update(_ context.Context, id string, patch repository.TicketPatch) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[id]
	if !ok {
		return nil, nil
	}
	patch.Apply(&t, s.clock())
	s.tickets[id] = t
	return &t, nil
}

// Delete reports false for unknown ids, never an error.
func (s *TicketStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tickets[id]; !ok {
		return false, nil
	}
	delete(s.tickets, id)
	return true, nil
}

// Search matches the query case-insensitively against title, description,
// user_name and app_or_system.
func (s *TicketStore) Search(_ context.Context, ownerID, query string) ([]domain.Ticket, error) {
	needle := strings.ToLower(strings.TrimSpace(query))

	s.mu.RLock()
	var matched []domain.Ticket
	for _, t := range s.tickets {
		if ownerID != "" && t.OwnerID != ownerID {
			continue
		}
		if needle == "" || ticketMatches(&t, needle) {
			matched = append(matched, t)
		}
	}
	s.mu.RUnlock()

	sortNewestFirst(matched)
	return matched, nil
}

// Counts aggregates by status across the owner scope.
func (s *TicketStore) Counts(_ context.Context, ownerID string) (domain.StatusCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var counts domain.StatusCounts
	for _, t := range s.tickets {
		if ownerID != "" && t.OwnerID != ownerID {
			continue
		}
		counts.Add(t.Status)
	}
	return counts, nil
}

// All returns every ticket in the owner scope, newest first.
func (s *TicketStore) All(_ context.Context, ownerID string) ([]domain.Ticket, error) {
	s.mu.RLock()
	out := make([]domain.Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		if ownerID != "" && t.OwnerID != ownerID {
			continue
		}
		out = append(out, t)
	}
	s.mu.RUnlock()

	sortNewestFirst(out)
	return out, nil
}

func matchesFilter(t *domain.Ticket, filter repository.TicketFilter) bool {
	if filter.OwnerID != "" && t.OwnerID != filter.OwnerID {
		return false
	}
	if filter.Status != nil && t.Status != *filter.Status {
		return false
	}
	if filter.Priority != nil && t.Priority != *filter.Priority {
		return false
	}
	if filter.TicketType != nil && t.TicketType != *filter.TicketType {
		return false
	}
	if filter.SuggestedTeam != nil && t.SuggestedTeam != *filter.SuggestedTeam {
		return false
	}
	return true
}

func ticketMatches(t *domain.Ticket, needle string) bool {
	for _, field := range []string{t.Title, t.Description, t.UserName, t.AppOrSystem} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func sortNewestFirst(tickets []domain.Ticket) {
	sort.Slice(tickets, func(i, j int) bool {
		if !tickets[i].CreatedAt.Equal(tickets[j].CreatedAt) {
			return tickets[i].CreatedAt.After(tickets[j].CreatedAt)
		}
		return tickets[i].ID > tickets[j].ID
	})
}
