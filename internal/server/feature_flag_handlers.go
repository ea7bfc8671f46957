package server

import "github.com/gofiber/fiber/v2"

// GetFeatures handles GET /api/features. It evaluates every configured
// flag for the caller; anonymous callers get the zero-bucket evaluation,
// which still resolves seasonal date windows correctly.
func (s *Server) GetFeatures(c *fiber.Ctx) error {
	userID := ""
	if claims := s.optionalClaims(c); claims != nil {
		userID = claims.ExternalID
	}

	return c.JSON(fiber.Map{
		"features": s.featureFlags.Snapshot(userID),
	})
}

// GetFeatureFlagConfig returns the raw flag configuration for the admin page.
func (s *Server) GetFeatureFlagConfig(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"raw":       s.featureFlags.Raw(),
		"evaluated": s.featureFlags.Snapshot(externalIDFromCtx(c)),
	})
}
