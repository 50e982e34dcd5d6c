package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-console/internal/domain"
)

var windowEnd = time.Date(2026, 5, 14, 0, 0, 0, 0, time.UTC)

func testWindow() Window {
	return Window{Start: windowEnd.AddDate(0, 0, -7), End: windowEnd}
}

func createdTicket(created time.Time, status domain.TicketStatus) domain.Ticket {
	return domain.Ticket{
		ID:        domain.NewTicketID(created),
		Status:    status,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestDeltaPct(t *testing.T) {
	tests := []struct {
		name     string
		previous *float64
		current  *float64
		want     *float64
	}{
		{"nil previous is undefined", nil, floatPtr(5), nil},
		{"nil current is undefined", floatPtr(5), nil, nil},
		{"zero previous with growth", floatPtr(0), floatPtr(3), floatPtr(100)},
		{"zero previous without growth", floatPtr(0), floatPtr(0), floatPtr(0)},
		{"regular growth", floatPtr(4), floatPtr(6), floatPtr(50)},
		{"regular decline", floatPtr(4), floatPtr(3), floatPtr(-25)},
		{"rounded", floatPtr(3), floatPtr(4), floatPtr(33.33)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := deltaPct(tc.previous, tc.current)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tc.want, *got)
		})
	}
}

func TestWindowPrevious(t *testing.T) {
	w := testWindow()
	prev := w.Previous()
	assert.Equal(t, w.Start.Add(-time.Nanosecond), prev.End)
	assert.Equal(t, w.Start.Add(-w.End.Sub(w.Start)), prev.Start)
}

func TestWindowPrevious_BoundaryCountedOnce(t *testing.T) {
	w := testWindow()
	prev := w.Previous()

	// a ticket created exactly at the window start belongs to the current
	// window only, never both
	assert.True(t, w.Contains(w.Start))
	assert.False(t, prev.Contains(w.Start))

	snap := KPISnapshot([]domain.Ticket{createdTicket(w.Start, domain.TicketStatusOpen)}, w)
	assert.Equal(t, 1, snap.Counts.Open)
	assert.Equal(t, 0, snap.PreviousCounts.Open)
}

func TestWindowContains_InclusiveBounds(t *testing.T) {
	w := testWindow()
	assert.True(t, w.Contains(w.Start))
	assert.True(t, w.Contains(w.End))
	assert.False(t, w.Contains(w.Start.Add(-time.Second)))
	assert.False(t, w.Contains(w.End.Add(time.Second)))
}

func TestKPISnapshot(t *testing.T) {
	w := testWindow()

	inWindow := createdTicket(w.Start.Add(24*time.Hour), domain.TicketStatusOpen)
	resolvedIn := createdTicket(w.Start.Add(48*time.Hour), domain.TicketStatusResolved)
	resolvedAt := resolvedIn.CreatedAt.Add(4 * time.Hour)
	resolvedIn.ResolvedAt = &resolvedAt
	previous := createdTicket(w.Start.Add(-24*time.Hour), domain.TicketStatusClosed)

	snap := KPISnapshot([]domain.Ticket{inWindow, resolvedIn, previous}, w)

	assert.Equal(t, 2, snap.Counts.Total)
	assert.Equal(t, 1, snap.Counts.Open)
	assert.Equal(t, 1, snap.Counts.Resolved)
	assert.Equal(t, 1, snap.PreviousCounts.Closed)

	require.NotNil(t, snap.CreatedVolume.Current)
	assert.Equal(t, 2.0, *snap.CreatedVolume.Current)
	require.NotNil(t, snap.CreatedVolume.DeltaPct)
	assert.Equal(t, 100.0, *snap.CreatedVolume.DeltaPct)

	require.NotNil(t, snap.MTTRHours.Current)
	assert.Equal(t, 4.0, *snap.MTTRHours.Current)
	// previous window has no resolved_at, so the comparison is undefined
	assert.Nil(t, snap.MTTRHours.DeltaPct)

	assert.Len(t, snap.CreatedVolume.Trend, 7)
}

func TestKPISnapshot_EmptyInput(t *testing.T) {
	snap := KPISnapshot(nil, testWindow())

	assert.Equal(t, 0, snap.Counts.Total)
	require.NotNil(t, snap.CreatedVolume.Current)
	assert.Equal(t, 0.0, *snap.CreatedVolume.Current)
	assert.Nil(t, snap.MTTRHours.Current)
	assert.Nil(t, snap.SLACompliancePct.Current)
	assert.Nil(t, snap.CSATPct.Current)
}

func TestCSATPct(t *testing.T) {
	t.Run("nil when unrated", func(t *testing.T) {
		assert.Nil(t, CSATPct([]domain.Ticket{createdTicket(windowEnd, domain.TicketStatusResolved)}))
	})

	t.Run("fraction of satisfied ratings", func(t *testing.T) {
		satisfied, unsatisfied := 1, 0
		a := createdTicket(windowEnd, domain.TicketStatusResolved)
		a.CSATScore = &satisfied
		b := createdTicket(windowEnd, domain.TicketStatusResolved)
		b.CSATScore = &unsatisfied
		c := createdTicket(windowEnd, domain.TicketStatusResolved)
		c.CSATScore = &satisfied

		got := CSATPct([]domain.Ticket{a, b, c})
		require.NotNil(t, got)
		assert.Equal(t, 66.67, *got)
	})
}
