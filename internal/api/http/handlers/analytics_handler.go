package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-console/internal/analytics"
	"github.com/spec-kit/helpdesk-console/internal/auth"
	"github.com/spec-kit/helpdesk-console/internal/service"
	apperrors "github.com/spec-kit/helpdesk-console/pkg/util/errorutil"
)

// AnalyticsHandler serves the reporting views.
type AnalyticsHandler struct {
	service *service.AnalyticsService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: analyticsService}
}

// Dashboard GET /api/analytics/dashboard.
func (h *AnalyticsHandler) Dashboard(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	window, err := parseWindow(c, h.service.DefaultWindow())
	if err != nil {
		return err
	}
	dashboard, err := h.service.Dashboard(c.UserContext(), auth.OwnerScope(principal), window)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dashboard})
}

// KPIs GET /api/analytics/kpis.
func (h *AnalyticsHandler) KPIs(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	window, err := parseWindow(c, h.service.DefaultWindow())
	if err != nil {
		return err
	}
	snapshot, err := h.service.KPIs(c.UserContext(), auth.OwnerScope(principal), window)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": snapshot})
}

// SLAFunnel GET /api/analytics/sla.
func (h *AnalyticsHandler) SLAFunnel(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	rows, err := h.service.SLAFunnel(c.UserContext(), auth.OwnerScope(principal))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rows})
}

// TopIssues GET /api/analytics/top-issues.
func (h *AnalyticsHandler) TopIssues(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return apperrors.NewValidationError("limit must be a positive integer", nil)
		}
		limit = parsed
	}
	groups, err := h.service.TopIssues(c.UserContext(), auth.OwnerScope(principal), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": groups})
}

// Teams GET /api/analytics/teams.
func (h *AnalyticsHandler) Teams(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	teams, agents, err := h.service.Teams(c.UserContext(), auth.OwnerScope(principal))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"teams": teams, "agents": agents}})
}

// Lifecycle GET /api/analytics/lifecycle.
func (h *AnalyticsHandler) Lifecycle(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	stages, err := h.service.Lifecycle(c.UserContext(), auth.OwnerScope(principal))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stages})
}

// Forecast GET /api/analytics/forecast.
func (h *AnalyticsHandler) Forecast(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"data": h.service.Forecast(c.UserContext())})
}

// AccessRequests GET /api/analytics/access-requests.
func (h *AnalyticsHandler) AccessRequests(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	report, err := h.service.AccessRequests(c.UserContext(), auth.OwnerScope(principal))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}

// parseWindow reads optional RFC 3339 start/end bounds, falling back to the
// default reporting window.
func parseWindow(c *fiber.Ctx, fallback analytics.Window) (analytics.Window, error) {
	window := fallback
	if raw := c.Query("start"); raw != "" {
		start, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return window, apperrors.NewValidationError("start must be RFC 3339", fiber.Map{"start": raw})
		}
		window.Start = start
	}
	if raw := c.Query("end"); raw != "" {
		end, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return window, apperrors.NewValidationError("end must be RFC 3339", fiber.Map{"end": raw})
		}
		window.End = end
	}
	if window.End.Before(window.Start) {
		return window, apperrors.NewValidationError("end must not precede start", nil)
	}
	return window, nil
}
