package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-console/internal/activity"
	"github.com/spec-kit/helpdesk-console/internal/auth"
	apperrors "github.com/spec-kit/helpdesk-console/pkg/util/errorutil"
)

// ActivityHandler exposes the live-event and audit feeds.
type ActivityHandler struct {
	feed *activity.Feed
}

// NewActivityHandler constructs handler.
func NewActivityHandler(feed *activity.Feed) *ActivityHandler {
	return &ActivityHandler{feed: feed}
}

// Events GET /api/activity/events.
func (h *ActivityHandler) Events(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	n, err := parseFeedLimit(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.feed.RecentEvents(n)})
}

// Audit GET /api/activity/audit. Restricted to admins via the router.
func (h *ActivityHandler) Audit(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	n, err := parseFeedLimit(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.feed.RecentAudit(n)})
}

func parseFeedLimit(c *fiber.Ctx) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apperrors.NewValidationError("limit must be a positive integer", nil)
	}
	return n, nil
}
