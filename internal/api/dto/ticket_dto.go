package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-console/internal/domain"
	"github.com/spec-kit/helpdesk-console/internal/repository"
)

// CreateTicketRequest payload. ticket_type, title and description are
// required; everything else falls back to the repository defaults.
type CreateTicketRequest struct {
	TicketType       domain.TicketType     `json:"ticket_type"`
	Title            string                `json:"title"`
	Description      string                `json:"description"`
	Priority         domain.TicketPriority `json:"priority,omitempty"`
	SuggestedTeam    string                `json:"suggested_team,omitempty"`
	UserName         string                `json:"user_name,omitempty"`
	AppOrSystem      string                `json:"app_or_system,omitempty"`
	Source           domain.TicketSource   `json:"source,omitempty"`
	Assignee         string                `json:"assignee,omitempty"`
	AssetID          string                `json:"asset_id,omitempty"`
	CollectedDetails map[string]string     `json:"collected_details,omitempty"`
	ExternalIDs      map[string]string     `json:"external_ids,omitempty"`
}

// Params converts the request into creation parameters for the owner scope.
func (r CreateTicketRequest) Params(ownerID string) domain.NewTicketParams {
	return domain.NewTicketParams{
		OwnerID:          ownerID,
		TicketType:       r.TicketType,
		Title:            r.Title,
		Description:      r.Description,
		Priority:         r.Priority,
		SuggestedTeam:    r.SuggestedTeam,
		UserName:         r.UserName,
		AppOrSystem:      r.AppOrSystem,
		Source:           r.Source,
		Assignee:         r.Assignee,
		AssetID:          r.AssetID,
		CollectedDetails: r.CollectedDetails,
		ExternalIDs:      r.ExternalIDs,
	}
}

// UpdateTicketRequest is a partial patch; absent fields stay untouched.
type UpdateTicketRequest struct {
	Title            *string                `json:"title"`
	Description      *string                `json:"description"`
	UserName         *string                `json:"user_name"`
	AppOrSystem      *string                `json:"app_or_system"`
	Assignee         *string                `json:"assignee"`
	AssetID          *string                `json:"asset_id"`
	TicketType       *domain.TicketType     `json:"ticket_type"`
	Priority         *domain.TicketPriority `json:"priority"`
	SuggestedTeam    *string                `json:"suggested_team"`
	Status           *domain.TicketStatus   `json:"status"`
	LifecycleStage   *domain.LifecycleStage `json:"lifecycle_stage"`
	Source           *domain.TicketSource   `json:"source"`
	ReopenedCount    *int                   `json:"reopened_count"`
	CollectedDetails map[string]string      `json:"collected_details"`
	ExternalIDs      map[string]string      `json:"external_ids"`
	CSATScore        *int                   `json:"csat_score"`
	CSATComment      *string                `json:"csat_comment"`
	FirstResponseAt  *time.Time             `json:"first_response_at"`
	ResolvedAt       *time.Time             `json:"resolved_at"`
	CSATSubmittedAt  *time.Time             `json:"csat_submitted_at"`
}

// Patch converts the request into a repository patch.
func (r UpdateTicketRequest) Patch() repository.TicketPatch {
	return repository.TicketPatch{
		Title:            r.Title,
		Description:      r.Description,
		UserName:         r.UserName,
		AppOrSystem:      r.AppOrSystem,
		Assignee:         r.Assignee,
		AssetID:          r.AssetID,
		TicketType:       r.TicketType,
		Priority:         r.Priority,
		SuggestedTeam:    r.SuggestedTeam,
		Status:           r.Status,
		LifecycleStage:   r.LifecycleStage,
		Source:           r.Source,
		ReopenedCount:    r.ReopenedCount,
		CollectedDetails: r.CollectedDetails,
		ExternalIDs:      r.ExternalIDs,
		CSATScore:        r.CSATScore,
		CSATComment:      r.CSATComment,
		FirstResponseAt:  r.FirstResponseAt,
		ResolvedAt:       r.ResolvedAt,
		CSATSubmittedAt:  r.CSATSubmittedAt,
	}
}

// TicketListResponse wraps a page of tickets.
type TicketListResponse struct {
	Tickets []domain.Ticket `json:"tickets"`
	Total   int             `json:"total"`
}

// LoginRequest authenticates the console admin.
type LoginRequest struct {
	Password string `json:"password"`
}

// TokenRequest mints a scoped agent token (admin only).
type TokenRequest struct {
	SubjectID string `json:"subject_id"`
	Role      string `json:"role"`
}

// TokenResponse carries a signed JWT.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
