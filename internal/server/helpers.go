package server

import (
	"errors"

	"github.com/brrock/ronotbroyt.xyz/internal/identity"
	"github.com/brrock/ronotbroyt.xyz/internal/models"
	"github.com/brrock/ronotbroyt.xyz/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// respondAppError translates an error into its HTTP response. Application
// errors carry their own status mapping; anything else is a 500.
func respondAppError(c *fiber.Ctx, err error) error {
	observability.RecordErrorInContext(c.UserContext(), err)

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return models.RespondWithError(c, models.StatusForCode(appErr.Code), appErr)
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// claimsFromCtx returns the identity claims stored by AuthRequired.
func claimsFromCtx(c *fiber.Ctx) *identity.Claims {
	claims, _ := c.Locals("identity").(*identity.Claims)
	return claims
}

// externalIDFromCtx returns the verified external identity id, or "".
func externalIDFromCtx(c *fiber.Ctx) string {
	if claims := claimsFromCtx(c); claims != nil {
		return claims.ExternalID
	}
	return ""
}
