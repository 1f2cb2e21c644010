package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-tickets/internal/api/dto"
	apperrors "github.com/spec-kit/event-tickets/pkg/util/errorutil"
)

// RegisterHandler exposes the manual registration entry point.
type RegisterHandler struct {
	identities    IdentityResolver
	issuer        TicketIssuer
	defaultOrigin string
}

// NewRegisterHandler constructs handler.
func NewRegisterHandler(identities IdentityResolver, issuer TicketIssuer, defaultOrigin string) *RegisterHandler {
	return &RegisterHandler{identities: identities, issuer: issuer, defaultOrigin: defaultOrigin}
}

// Register handles POST /api/auth/register. Manual registration is
// single-use per email; a duplicate fails before any ticket or email exists.
func (h *RegisterHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		return apperrors.NewValidationError("name and email required", nil)
	}

	origin := c.Query("origin", h.defaultOrigin)

	user, err := h.identities.RegisterManual(c.UserContext(), req.Name, req.Email)
	if err != nil {
		return err
	}

	issued, err := h.issuer.Issue(c.UserContext(), user, origin)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.RegisterResponse{
		Ticket: dto.IssuedTicketPayload{
			ID:    issued.Ticket.ID,
			Name:  issued.User.Name,
			Email: issued.User.Email,
			Code:  issued.Ticket.QRCodeData,
		},
		Redirect: issued.RedirectURL,
	})
}
