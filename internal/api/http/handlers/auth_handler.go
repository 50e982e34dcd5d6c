package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-console/internal/api/dto"
	"github.com/spec-kit/helpdesk-console/internal/auth"
	apperrors "github.com/spec-kit/helpdesk-console/pkg/util/errorutil"
)

// AuthHandler issues console tokens. The admin authenticates with the
// configured password; agent tokens are minted by an authenticated admin.
type AuthHandler struct {
	tokens            *auth.TokenManager
	adminPasswordHash string
}

// NewAuthHandler constructs handler.
func NewAuthHandler(tokens *auth.TokenManager, adminPasswordHash string) *AuthHandler {
	return &AuthHandler{tokens: tokens, adminPasswordHash: adminPasswordHash}
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Password == "" {
		return apperrors.NewValidationError("password required", nil)
	}
	if h.adminPasswordHash == "" {
		return apperrors.NewUnauthorized("admin login disabled")
	}
	if err := auth.ComparePassword(h.adminPasswordHash, req.Password); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := h.tokens.GenerateToken("admin", auth.RoleAdmin)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(fiber.Map{"data": dto.TokenResponse{Token: token, ExpiresAt: expiresAt}})
}

// MintToken POST /auth/tokens. Admin-only; creates a scoped agent token.
func (h *AuthHandler) MintToken(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.SubjectID) == "" {
		return apperrors.NewValidationError("subject_id required", nil)
	}
	role := auth.Role(req.Role)
	if role == "" {
		role = auth.RoleAgent
	}
	if role != auth.RoleAdmin && role != auth.RoleAgent {
		return apperrors.NewValidationError("unknown role", fiber.Map{"role": req.Role})
	}

	token, expiresAt, err := h.tokens.GenerateToken(req.SubjectID, role)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.TokenResponse{Token: token, ExpiresAt: expiresAt}})
}
