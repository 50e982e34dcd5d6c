package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-console/internal/domain"
)

var baseTime = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func ticketAt(created time.Time) domain.Ticket {
	return domain.Ticket{
		ID:        domain.NewTicketID(created),
		Status:    domain.TicketStatusOpen,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func resolvedTicket(created time.Time, after time.Duration) domain.Ticket {
	t := ticketAt(created)
	t.Status = domain.TicketStatusResolved
	resolved := created.Add(after)
	t.ResolvedAt = &resolved
	t.UpdatedAt = resolved
	return t
}

func TestMTTR(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, MTTR(nil))
	})

	t.Run("no resolved tickets", func(t *testing.T) {
		tickets := []domain.Ticket{ticketAt(baseTime), ticketAt(baseTime.Add(time.Hour))}
		assert.Nil(t, MTTR(tickets))
	})

	t.Run("averages only resolved tickets", func(t *testing.T) {
		tickets := []domain.Ticket{
			resolvedTicket(baseTime, 2*time.Hour),
			resolvedTicket(baseTime, 4*time.Hour),
			ticketAt(baseTime),
		}
		got := MTTR(tickets)
		require.NotNil(t, got)
		assert.Equal(t, 3.0, *got)
	})
}

func TestFirstResponseTime(t *testing.T) {
	t.Run("nil without responses", func(t *testing.T) {
		assert.Nil(t, FirstResponseTime([]domain.Ticket{ticketAt(baseTime)}))
	})

	t.Run("averages responded tickets", func(t *testing.T) {
		first := ticketAt(baseTime)
		responded := baseTime.Add(30 * time.Minute)
		first.FirstResponseAt = &responded

		second := ticketAt(baseTime)
		laterResponse := baseTime.Add(90 * time.Minute)
		second.FirstResponseAt = &laterResponse

		got := FirstResponseTime([]domain.Ticket{first, second, ticketAt(baseTime)})
		require.NotNil(t, got)
		assert.Equal(t, 1.0, *got)
	})
}

func TestBreached(t *testing.T) {
	due := baseTime.Add(24 * time.Hour)

	t.Run("no deadline is never breached", func(t *testing.T) {
		ticket := ticketAt(baseTime)
		assert.False(t, Breached(&ticket, baseTime.Add(1000*time.Hour)))
	})

	t.Run("open ticket past deadline", func(t *testing.T) {
		ticket := ticketAt(baseTime)
		ticket.SLADueAt = &due
		assert.False(t, Breached(&ticket, due))
		assert.True(t, Breached(&ticket, due.Add(time.Second)))
	})

	t.Run("resolved ticket compares resolution time", func(t *testing.T) {
		ticket := resolvedTicket(baseTime, 25*time.Hour)
		ticket.SLADueAt = &due
		assert.True(t, Breached(&ticket, baseTime))

		onTime := resolvedTicket(baseTime, 24*time.Hour)
		onTime.SLADueAt = &due
		assert.False(t, Breached(&onTime, baseTime.Add(1000*time.Hour)))
	})
}

func TestSLACompliance(t *testing.T) {
	due := baseTime.Add(24 * time.Hour)

	t.Run("nil when nothing qualifies", func(t *testing.T) {
		assert.Nil(t, SLACompliance(nil))

		open := ticketAt(baseTime)
		open.SLADueAt = &due
		assert.Nil(t, SLACompliance([]domain.Ticket{open}))

		noDeadline := resolvedTicket(baseTime, time.Hour)
		assert.Nil(t, SLACompliance([]domain.Ticket{noDeadline}))
	})

	t.Run("resolution exactly at deadline is compliant", func(t *testing.T) {
		ticket := resolvedTicket(baseTime, 24*time.Hour)
		ticket.SLADueAt = &due
		got := SLACompliance([]domain.Ticket{ticket})
		require.NotNil(t, got)
		assert.Equal(t, 100.0, *got)
	})

	t.Run("falls back to updated_at", func(t *testing.T) {
		ticket := ticketAt(baseTime)
		ticket.Status = domain.TicketStatusClosed
		ticket.SLADueAt = &due
		ticket.UpdatedAt = due.Add(time.Hour)
		got := SLACompliance([]domain.Ticket{ticket})
		require.NotNil(t, got)
		assert.Equal(t, 0.0, *got)
	})

	t.Run("rounds to two decimals", func(t *testing.T) {
		tickets := []domain.Ticket{
			resolvedTicket(baseTime, time.Hour),
			resolvedTicket(baseTime, 2*time.Hour),
			resolvedTicket(baseTime, 48*time.Hour),
		}
		for i := range tickets {
			tickets[i].SLADueAt = &due
		}
		got := SLACompliance(tickets)
		require.NotNil(t, got)
		assert.Equal(t, 66.67, *got)
	})
}

func TestStage(t *testing.T) {
	t.Run("explicit stage wins", func(t *testing.T) {
		ticket := ticketAt(baseTime)
		ticket.Status = domain.TicketStatusInProgress
		ticket.LifecycleStage = domain.StageWaitingForUser
		assert.Equal(t, domain.StageWaitingForUser, Stage(&ticket))
	})

	t.Run("derived from status when unset", func(t *testing.T) {
		ticket := ticketAt(baseTime)
		ticket.Status = domain.TicketStatusResolved
		ticket.LifecycleStage = ""
		assert.Equal(t, domain.StageResolved, Stage(&ticket))
	})
}
