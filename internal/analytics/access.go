package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/spec-kit/helpdesk-console/internal/domain"
	"github.com/spec-kit/helpdesk-console/internal/lifecycle"
)

// Approval SLA thresholds for access requests.
const (
	approvalWindow  = 24 * time.Hour
	breachThreshold = 48 * time.Hour
)

// ApprovalStatus is the tri-state of a pending approval.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalOverdue  ApprovalStatus = "overdue"
	ApprovalBreached ApprovalStatus = "breached"
)

// PendingApproval is one unresolved access request awaiting a decision.
type PendingApproval struct {
	TicketID       string         `json:"ticket_id"`
	Title          string         `json:"title"`
	Requester      string         `json:"requester"`
	Application    string         `json:"application"`
	Approver       string         `json:"approver,omitempty"`
	DueAt          time.Time      `json:"due_at"`
	HoursRemaining float64        `json:"hours_remaining"`
	Status         ApprovalStatus `json:"status"`
}

// ApproverPerformance aggregates decisions per approver (ticket assignee).
type ApproverPerformance struct {
	Approver         string   `json:"approver"`
	Completed        int      `json:"completed"`
	AvgApprovalHours *float64 `json:"avg_approval_hours"`
	Overdue          int      `json:"overdue"`
	OverduePct       float64  `json:"overdue_pct"`
}

// ApplicationStats reports request volume and SLA posture per application.
type ApplicationStats struct {
	Application   string   `json:"application"`
	Requests      int      `json:"requests"`
	CompliancePct *float64 `json:"compliance_pct"`
}

// AccessInsight is a rule-derived recommendation for the approvals dashboard.
type AccessInsight struct {
	Message  string   `json:"message"`
	Severity string   `json:"severity"`
	Actions  []string `json:"actions"`
}

// AccessReport bundles the access-request analytics views.
type AccessReport struct {
	Pending      []PendingApproval     `json:"pending"`
	Approvers    []ApproverPerformance `json:"approvers"`
	Applications []ApplicationStats    `json:"applications"`
	Insights     []AccessInsight       `json:"insights"`
}

// AccessRequests derives the approvals dashboard from access_request tickets.
// The approval deadline defaults to 24h after creation; an approval more
// than 48h past due counts as breached.
func AccessRequests(tickets []domain.Ticket, now time.Time) AccessReport {
	var access []domain.Ticket
	for i := range tickets {
		if tickets[i].TicketType == domain.TicketTypeAccessRequest {
			access = append(access, tickets[i])
		}
	}

	report := AccessReport{
		Pending:      pendingApprovals(access, now),
		Approvers:    approverPerformance(access, now),
		Applications: applicationStats(access),
	}
	report.Insights = accessInsights(report)
	return report
}

func pendingApprovals(access []domain.Ticket, now time.Time) []PendingApproval {
	var out []PendingApproval
	for i := range access {
		t := &access[i]
		if t.IsResolved() {
			continue
		}
		due := t.CreatedAt.Add(approvalWindow)
		remaining := due.Sub(now).Hours()
		status := ApprovalPending
		switch {
		case now.After(due.Add(breachThreshold)):
			status = ApprovalBreached
		case now.After(due):
			status = ApprovalOverdue
		}
		out = append(out, PendingApproval{
			TicketID:       t.ID,
			Title:          t.Title,
			Requester:      t.UserName,
			Application:    t.AppOrSystem,
			Approver:       t.Assignee,
			DueAt:          due,
			HoursRemaining: *round2(remaining),
			Status:         status,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueAt.Before(out[j].DueAt) })
	return out
}

func approverPerformance(access []domain.Ticket, now time.Time) []ApproverPerformance {
	byApprover := make(map[string][]domain.Ticket)
	for i := range access {
		if access[i].Assignee == "" {
			continue
		}
		byApprover[access[i].Assignee] = append(byApprover[access[i].Assignee], access[i])
	}

	out := make([]ApproverPerformance, 0, len(byApprover))
	for approver, assigned := range byApprover {
		var resolved []domain.Ticket
		overdue := 0
		for i := range assigned {
			due := assigned[i].CreatedAt.Add(approvalWindow)
			if assigned[i].IsResolved() {
				resolved = append(resolved, assigned[i])
				if assigned[i].ResolvedAt != nil && assigned[i].ResolvedAt.After(due) {
					overdue++
				}
			} else if now.After(due) {
				overdue++
			}
		}
		row := ApproverPerformance{
			Approver:         approver,
			Completed:        len(resolved),
			AvgApprovalHours: lifecycle.MTTR(resolved),
			Overdue:          overdue,
		}
		if len(assigned) > 0 {
			row.OverduePct = *round2(float64(overdue) / float64(len(assigned)) * 100)
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Approver < out[j].Approver })
	return out
}

func applicationStats(access []domain.Ticket) []ApplicationStats {
	byApp := make(map[string][]domain.Ticket)
	for i := range access {
		byApp[access[i].AppOrSystem] = append(byApp[access[i].AppOrSystem], access[i])
	}

	out := make([]ApplicationStats, 0, len(byApp))
	for app, requests := range byApp {
		out = append(out, ApplicationStats{
			Application:   app,
			Requests:      len(requests),
			CompliancePct: lifecycle.SLACompliance(requests),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Requests != out[j].Requests {
			return out[i].Requests > out[j].Requests
		}
		return out[i].Application < out[j].Application
	})
	return out
}

func accessInsights(report AccessReport) []AccessInsight {
	var insights []AccessInsight

	breached := 0
	overdue := 0
	for _, p := range report.Pending {
		switch p.Status {
		case ApprovalBreached:
			breached++
			overdue++
		case ApprovalOverdue:
			overdue++
		}
	}
	if overdue > 0 {
		severity := "warning"
		if breached > 0 {
			severity = "critical"
		}
		insights = append(insights, AccessInsight{
			Message:  fmt.Sprintf("%d approvals are past their SLA (%d more than 48h overdue)", overdue, breached),
			Severity: severity,
			Actions: []string{
				"escalate breached approvals to the IAM team lead",
				"enable approval reminders for pending requests",
			},
		})
	}

	var slowest *ApproverPerformance
	for i := range report.Approvers {
		a := &report.Approvers[i]
		if a.AvgApprovalHours == nil {
			continue
		}
		if slowest == nil || *a.AvgApprovalHours > *slowest.AvgApprovalHours {
			slowest = a
		}
	}
	if slowest != nil && *slowest.AvgApprovalHours > 48 {
		insights = append(insights, AccessInsight{
			Message:  fmt.Sprintf("%s averages %.1fh per approval, above the 48h threshold", slowest.Approver, *slowest.AvgApprovalHours),
			Severity: "warning",
			Actions: []string{
				"rebalance the approval queue",
				"add a delegate approver for this queue",
			},
		})
	}

	if len(report.Applications) > 0 && report.Applications[0].Requests > 15 {
		top := report.Applications[0]
		insights = append(insights, AccessInsight{
			Message:  fmt.Sprintf("%s received %d access requests this period; consider an automation rule", top.Application, top.Requests),
			Severity: "info",
			Actions: []string{
				"create a pre-approved access policy for this application",
				"route repeat requests through self-service provisioning",
			},
		})
	}
	return insights
}
