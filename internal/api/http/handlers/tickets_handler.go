package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-console/internal/api/dto"
	"github.com/spec-kit/helpdesk-console/internal/auth"
	"github.com/spec-kit/helpdesk-console/internal/domain"
	"github.com/spec-kit/helpdesk-console/internal/repository"
	"github.com/spec-kit/helpdesk-console/internal/service"
	apperrors "github.com/spec-kit/helpdesk-console/pkg/util/errorutil"
)

// TicketsHandler manages ticket CRUD and search endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TicketType == "" || strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		return apperrors.NewValidationError("ticket_type, title, description required", nil)
	}
	if err := validateEnums(&req); err != nil {
		return err
	}

	ticket, err := h.service.Create(c.UserContext(), principal.SubjectID, req.Params(ownerForCreate(principal)))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticket})
}

// ListTickets GET /api/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter, err := parseTicketQuery(c)
	if err != nil {
		return err
	}
	filter.OwnerID = auth.OwnerScope(principal)

	tickets, total, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketListResponse{Tickets: tickets, Total: total}})
}

// GetTicket GET /api/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if ticket == nil || !visibleTo(principal, ticket) {
		return apperrors.NewNotFound("ticket", nil)
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// UpdateTicket PATCH /api/tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	existing, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if existing == nil || !visibleTo(principal, existing) {
		return apperrors.NewNotFound("ticket", nil)
	}

	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validatePatchEnums(&req); err != nil {
		return err
	}

	ticket, err := h.service.Update(c.UserContext(), principal.SubjectID, existing.ID, req.Patch())
	if err != nil {
		return err
	}
	if ticket == nil {
		return apperrors.NewNotFound("ticket", nil)
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// DeleteTicket DELETE /api/tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	existing, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if existing == nil || !visibleTo(principal, existing) {
		return apperrors.NewNotFound("ticket", nil)
	}

	deleted, err := h.service.Delete(c.UserContext(), principal.SubjectID, existing.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NewNotFound("ticket", nil)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true, "id": existing.ID}})
}

// SearchTickets GET /api/tickets/search.
func (h *TicketsHandler) SearchTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return apperrors.NewValidationError("q required", nil)
	}
	tickets, err := h.service.Search(c.UserContext(), auth.OwnerScope(principal), query)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tickets})
}

// TicketCounts GET /api/tickets/counts.
func (h *TicketsHandler) TicketCounts(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	counts, err := h.service.Counts(c.UserContext(), auth.OwnerScope(principal))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": counts})
}

// visibleTo applies the owner scope: admins see everything, agents only
// tickets they own.
func visibleTo(principal *auth.Principal, t *domain.Ticket) bool {
	scope := auth.OwnerScope(principal)
	return scope == "" || t.OwnerID == scope
}

// ownerForCreate stamps agent-created tickets with the agent's own scope.
func ownerForCreate(principal *auth.Principal) string {
	return auth.OwnerScope(principal)
}

func parseTicketQuery(c *fiber.Ctx) (repository.TicketFilter, error) {
	filter := repository.TicketFilter{
		Limit:  repository.DefaultPageSize,
		Offset: 0,
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return filter, apperrors.NewValidationError("limit must be a positive integer", nil)
		}
		filter.Limit = limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return filter, apperrors.NewValidationError("offset must be a non-negative integer", nil)
		}
		filter.Offset = offset
	}
	if raw := c.Query("status"); raw != "" {
		status := domain.TicketStatus(raw)
		if !validStatus(status) {
			return filter, apperrors.NewValidationError("unknown status", fiber.Map{"status": raw})
		}
		filter.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority := domain.TicketPriority(raw)
		if !validPriority(priority) {
			return filter, apperrors.NewValidationError("unknown priority", fiber.Map{"priority": raw})
		}
		filter.Priority = &priority
	}
	if raw := c.Query("ticket_type"); raw != "" {
		ticketType := domain.TicketType(raw)
		if !validTicketType(ticketType) {
			return filter, apperrors.NewValidationError("unknown ticket_type", fiber.Map{"ticket_type": raw})
		}
		filter.TicketType = &ticketType
	}
	if raw := c.Query("team"); raw != "" {
		team := raw
		filter.SuggestedTeam = &team
	}
	return filter, nil
}

func validateEnums(req *dto.CreateTicketRequest) error {
	if !validTicketType(req.TicketType) {
		return apperrors.NewValidationError("unknown ticket_type", fiber.Map{"ticket_type": string(req.TicketType)})
	}
	if req.Priority != "" && !validPriority(req.Priority) {
		return apperrors.NewValidationError("unknown priority", fiber.Map{"priority": string(req.Priority)})
	}
	if req.Source != "" && !validSource(req.Source) {
		return apperrors.NewValidationError("unknown source", fiber.Map{"source": string(req.Source)})
	}
	return nil
}

func validatePatchEnums(req *dto.UpdateTicketRequest) error {
	if req.TicketType != nil && !validTicketType(*req.TicketType) {
		return apperrors.NewValidationError("unknown ticket_type", fiber.Map{"ticket_type": string(*req.TicketType)})
	}
	if req.Priority != nil && !validPriority(*req.Priority) {
		return apperrors.NewValidationError("unknown priority", fiber.Map{"priority": string(*req.Priority)})
	}
	if req.Status != nil && !validStatus(*req.Status) {
		return apperrors.NewValidationError("unknown status", fiber.Map{"status": string(*req.Status)})
	}
	if req.LifecycleStage != nil && !validStage(*req.LifecycleStage) {
		return apperrors.NewValidationError("unknown lifecycle_stage", fiber.Map{"lifecycle_stage": string(*req.LifecycleStage)})
	}
	if req.Source != nil && !validSource(*req.Source) {
		return apperrors.NewValidationError("unknown source", fiber.Map{"source": string(*req.Source)})
	}
	if req.CSATScore != nil && *req.CSATScore != 0 && *req.CSATScore != 1 {
		return apperrors.NewValidationError("csat_score must be 0 or 1", nil)
	}
	return nil
}

func validStatus(s domain.TicketStatus) bool {
	switch s {
	case domain.TicketStatusOpen, domain.TicketStatusInProgress, domain.TicketStatusResolved, domain.TicketStatusClosed:
		return true
	}
	return false
}

func validPriority(p domain.TicketPriority) bool {
	switch p {
	case domain.TicketPriorityLow, domain.TicketPriorityMedium, domain.TicketPriorityHigh:
		return true
	}
	return false
}

func validTicketType(t domain.TicketType) bool {
	switch t {
	case domain.TicketTypeIncident, domain.TicketTypeAccessRequest, domain.TicketTypeRequest:
		return true
	}
	return false
}

func validStage(s domain.LifecycleStage) bool {
	switch s {
	case domain.StageNew, domain.StageTriage, domain.StageInProgress,
		domain.StageWaitingForUser, domain.StageResolved, domain.StageClosed:
		return true
	}
	return false
}

func validSource(s domain.TicketSource) bool {
	switch s {
	case domain.SourceChat, domain.SourceEmail, domain.SourceIntegration, domain.SourceManual:
		return true
	}
	return false
}
