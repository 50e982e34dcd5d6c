package domain

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// TicketType classifies the nature of a request.
type TicketType string

const (
	TicketTypeIncident      TicketType = "incident"
	TicketTypeAccessRequest TicketType = "access_request"
	TicketTypeRequest       TicketType = "request"
)

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// SLAWindow returns the resolution deadline offset for the priority. The
// deadline is fixed at creation time; later priority changes never recompute it.
func (p TicketPriority) SLAWindow() time.Duration {
	switch p {
	case TicketPriorityHigh:
		return 24 * time.Hour
	case TicketPriorityLow:
		return 72 * time.Hour
	default:
		return 48 * time.Hour
	}
}

// TicketStatus enumerates workflow states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// LifecycleStage is a funnel-reporting refinement of TicketStatus. It is
// optionally set; when absent it is derived from the status.
type LifecycleStage string

const (
	StageNew            LifecycleStage = "new"
	StageTriage         LifecycleStage = "triage"
	StageInProgress     LifecycleStage = "in_progress"
	StageWaitingForUser LifecycleStage = "waiting_for_user"
	StageResolved       LifecycleStage = "resolved"
	StageClosed         LifecycleStage = "closed"
)

// StageOrder is the fixed funnel walk order.
var StageOrder = []LifecycleStage{
	StageNew,
	StageTriage,
	StageInProgress,
	StageResolved,
	StageClosed,
}

// TicketSource records how a ticket entered the system.
type TicketSource string

const (
	SourceChat        TicketSource = "chat"
	SourceEmail       TicketSource = "email"
	SourceIntegration TicketSource = "integration"
	SourceManual      TicketSource = "manual"
)

// Team names recognized by routing and the team-performance report.
const (
	TeamNetwork            = "Network"
	TeamEndpointSupport    = "Endpoint Support"
	TeamApplicationSupport = "Application Support"
	TeamIAM                = "IAM"
	TeamSecurity           = "Security"
	TeamDevOps             = "DevOps"
)

// Teams lists the fixed team roster.
var Teams = []string{
	TeamNetwork,
	TeamEndpointSupport,
	TeamApplicationSupport,
	TeamIAM,
	TeamSecurity,
	TeamDevOps,
}

// Ticket is the central helpdesk entity.
type Ticket struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id,omitempty"`

	TicketType     TicketType     `json:"ticket_type"`
	Priority       TicketPriority `json:"priority"`
	SuggestedTeam  string         `json:"suggested_team"`
	Status         TicketStatus   `json:"status"`
	LifecycleStage LifecycleStage `json:"lifecycle_stage,omitempty"`

	Title            string            `json:"title"`
	Description      string            `json:"description"`
	UserName         string            `json:"user_name"`
	AppOrSystem      string            `json:"app_or_system"`
	CollectedDetails map[string]string `json:"collected_details,omitempty"`
	ExternalIDs      map[string]string `json:"external_ids,omitempty"`
	Assignee         string            `json:"assignee,omitempty"`
	Source           TicketSource     `json:"source"`
	AssetID          string            `json:"asset_id,omitempty"`
	ReopenedCount    int               `json:"reopened_count"`

	CSATScore   *int   `json:"csat_score,omitempty"`
	CSATComment string `json:"csat_comment,omitempty"`

	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	FirstResponseAt *time.Time `json:"first_response_at,omitempty"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	SLADueAt        *time.Time `json:"sla_due_at,omitempty"`
	SLABreachedAt   *time.Time `json:"sla_breached_at,omitempty"`
	CSATSubmittedAt *time.Time `json:"csat_submitted_at,omitempty"`
}

// DeriveStage maps a status to its funnel stage. Triage and waiting_for_user
// never arise from derivation; they only exist when set explicitly.
func DeriveStage(status TicketStatus) LifecycleStage {
	switch status {
	case TicketStatusInProgress:
		return StageInProgress
	case TicketStatusResolved:
		return StageResolved
	case TicketStatusClosed:
		return StageClosed
	default:
		return StageNew
	}
}

// IsResolved reports whether the ticket reached a terminal resolution state.
func (t *Ticket) IsResolved() bool {
	return t.Status == TicketStatusResolved || t.Status == TicketStatusClosed
}

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewTicketID produces an identifier of the form
// TKT-<base36 millisecond timestamp>-<4 random base36 chars>.
func NewTicketID(now time.Time) string {
	var sb strings.Builder
	sb.WriteString("TKT-")
	sb.WriteString(strconv.FormatInt(now.UnixMilli(), 36))
	sb.WriteByte('-')
	for i := 0; i < 4; i++ {
		sb.WriteByte(base36Alphabet[rand.Intn(len(base36Alphabet))])
	}
	return sb.String()
}

// NewTicketParams carries caller-supplied fields for NewTicket. Only
// TicketType, Title and Description are required; everything else defaults.
type NewTicketParams struct {
	OwnerID          string
	TicketType       TicketType
	Title            string
	Description      string
	Priority         TicketPriority
	SuggestedTeam    string
	Status           TicketStatus
	LifecycleStage   LifecycleStage
	UserName         string
	AppOrSystem      string
	Source           TicketSource
	Assignee         string
	AssetID          string
	CollectedDetails map[string]string
	ExternalIDs      map[string]string
}

// NewTicket builds a ticket with defaults applied and the SLA deadline
// computed from the priority in effect at creation. Enum values are not
// validated here; invalid values are a caller contract violation.
func NewTicket(params NewTicketParams, now time.Time) *Ticket {
	if params.Priority == "" {
		params.Priority = TicketPriorityMedium
	}
	if params.SuggestedTeam == "" {
		params.SuggestedTeam = TeamApplicationSupport
	}
	if params.Status == "" {
		params.Status = TicketStatusOpen
	}
	if params.LifecycleStage == "" {
		params.LifecycleStage = StageNew
	}
	if params.UserName == "" {
		params.UserName = "unknown"
	}
	if params.AppOrSystem == "" {
		params.AppOrSystem = "general"
	}
	if params.Source == "" {
		params.Source = SourceChat
	}

	slaDue := now.Add(params.Priority.SLAWindow())
	return &Ticket{
		ID:               NewTicketID(now),
		OwnerID:          params.OwnerID,
		TicketType:       params.TicketType,
		Priority:         params.Priority,
		SuggestedTeam:    params.SuggestedTeam,
		Status:           params.Status,
		LifecycleStage:   params.LifecycleStage,
		Title:            params.Title,
		Description:      params.Description,
		UserName:         params.UserName,
		AppOrSystem:      params.AppOrSystem,
		CollectedDetails: params.CollectedDetails,
		ExternalIDs:      params.ExternalIDs,
		Assignee:         params.Assignee,
		Source:           params.Source,
		AssetID:          params.AssetID,
		CreatedAt:        now,
		UpdatedAt:        now,
		SLADueAt:         &slaDue,
	}
}

// StatusCounts aggregates tickets by workflow state.
type StatusCounts struct {
	Open       int `json:"open"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
	Closed     int `json:"closed"`
	Total      int `json:"total"`
}

// Add increments the bucket for the given status.
func (c *StatusCounts) Add(status TicketStatus) {
	switch status {
	case TicketStatusOpen:
		c.Open++
	case TicketStatusInProgress:
		c.InProgress++
	case TicketStatusResolved:
		c.Resolved++
	case TicketStatusClosed:
		c.Closed++
	}
	c.Total++
}
