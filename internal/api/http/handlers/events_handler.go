package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-tickets/internal/domain"
)

// EventsHandler serves the fixed event descriptor.
type EventsHandler struct {
	event domain.Event
}

// NewEventsHandler constructs handler.
func NewEventsHandler(event domain.Event) *EventsHandler {
	return &EventsHandler{event: event}
}

// Get handles GET /api/events.
func (h *EventsHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.event)
}
