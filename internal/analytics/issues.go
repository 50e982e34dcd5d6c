package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/spec-kit/helpdesk-console/internal/domain"
)

// IssueGroup clusters tickets sharing a title keyword signature.
type IssueGroup struct {
	Key       string   `json:"key"`
	Count     int      `json:"count"`
	TrendPct  *float64 `json:"trend_pct"`
	TicketIDs []string `json:"ticket_ids"`
}

// TopIssues groups tickets by a naive keyword key: the first three words
// longer than four characters from the lowercased title, falling back to the
// whole lowercased title. Only groups of two or more survive; the trend
// compares the most recent seven days against everything older. Results are
// sorted by group size descending and truncated to limit.
func TopIssues(tickets []domain.Ticket, limit int, now time.Time) []IssueGroup {
	groups := make(map[string][]domain.Ticket)
	for i := range tickets {
		key := issueKey(tickets[i].Title)
		groups[key] = append(groups[key], tickets[i])
	}

	cutoff := now.AddDate(0, 0, -7)
	var out []IssueGroup
	for key, members := range groups {
		if len(members) < 2 {
			continue
		}
		var recent, older int
		ids := make([]string, 0, len(members))
		for i := range members {
			ids = append(ids, members[i].ID)
			if members[i].CreatedAt.After(cutoff) {
				recent++
			} else {
				older++
			}
		}
		sort.Strings(ids)
		out = append(out, IssueGroup{
			Key:       key,
			Count:     len(members),
			TrendPct:  deltaPct(intAsFloat(older), intAsFloat(recent)),
			TicketIDs: ids,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func issueKey(title string) string {
	lowered := strings.ToLower(strings.TrimSpace(title))
	var keywords []string
	for _, word := range strings.Fields(lowered) {
		if len(word) > 4 {
			keywords = append(keywords, word)
			if len(keywords) == 3 {
				break
			}
		}
	}
	if len(keywords) == 0 {
		return lowered
	}
	return strings.Join(keywords, " ")
}
