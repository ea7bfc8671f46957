package server

import (
	"time"

	"github.com/brrock/ronotbroyt.xyz/internal/models"
	"github.com/brrock/ronotbroyt.xyz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListEvents handles GET /api/events?status=...
// Without a status filter only events dated from now on are returned.
func (s *Server) ListEvents(c *fiber.Ctx) error {
	events, err := s.eventService.ListEvents(c.Context(), c.Query("status"))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(events)
}

// CreateEvent handles POST /api/events
// @Summary Create an event (admin only)
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.Event
// @Failure 403 {object} models.ErrorResponse
// @Router /api/events [post]
func (s *Server) CreateEvent(c *fiber.Ctx) error {
	var req struct {
		Title       string    `json:"title"`
		Description string    `json:"description"`
		Date        time.Time `json:"date"`
		Type        string    `json:"type"`
		Status      string    `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondAppError(c, models.NewValidationError("Invalid request body"))
	}

	event, err := s.eventService.CreateEvent(c.Context(), service.CreateEventInput{
		Claims:      claimsFromCtx(c),
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Type:        req.Type,
		Status:      req.Status,
	})
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}
