package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-tickets/internal/api/dto"
)

// TicketsHandler serves ticket lookups for the viewer frontend.
type TicketsHandler struct {
	tickets TicketFinder
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets TicketFinder) *TicketsHandler {
	return &TicketsHandler{tickets: tickets}
}

// GetTicket handles GET /api/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	result, err := h.tickets.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.TicketResponse{
		ID:      result.Ticket.ID,
		EventID: result.Ticket.EventID,
		Code:    result.Ticket.QRCodeData,
		User: dto.TicketOwner{
			ID:    result.User.ID,
			Name:  result.User.Name,
			Email: result.User.Email,
		},
		CreatedAt: result.Ticket.CreatedAt,
	})
}
