package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetCurrentUser handles GET /api/user. It echoes the acting identity's
// internal User record, creating it on first sight.
// @Summary Current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Router /api/user [get]
func (s *Server) GetCurrentUser(c *fiber.Ctx) error {
	user, err := s.userService.CurrentUser(c.Context(), claimsFromCtx(c))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(user)
}
