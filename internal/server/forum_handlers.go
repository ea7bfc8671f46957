package server

import (
	"github.com/brrock/ronotbroyt.xyz/internal/models"
	"github.com/brrock/ronotbroyt.xyz/internal/repository"
	"github.com/brrock/ronotbroyt.xyz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListForumPosts handles GET /api/forum/posts
// @Summary List forum posts
// @Tags forum
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.ForumPost
// @Router /api/forum/posts [get]
func (s *Server) ListForumPosts(c *fiber.Ctx) error {
	page := parsePagination(c, repository.DefaultListLimit)

	posts, err := s.forumService.ListPosts(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(posts)
}

// GetForumPost handles GET /api/forum/posts/:id
func (s *Server) GetForumPost(c *fiber.Ctx) error {
	post, err := s.forumService.GetPost(c.Context(), c.Params("id"))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(post)
}

// CreateForumPost handles POST /api/forum/posts
// @Summary Create a forum post
// @Tags forum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.ForumPost
// @Failure 422 {object} models.ErrorResponse "content rejected by moderation"
// @Router /api/forum/posts [post]
func (s *Server) CreateForumPost(c *fiber.Ctx) error {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondAppError(c, models.NewValidationError("Invalid request body"))
	}

	post, err := s.forumService.CreatePost(c.Context(), service.CreateForumPostInput{
		Claims:  claimsFromCtx(c),
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// DeleteForumPost handles DELETE /api/forum/posts/:id
// @Summary Delete a forum post and its comments
// @Tags forum
// @Security BearerAuth
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Router /api/forum/posts/{id} [delete]
func (s *Server) DeleteForumPost(c *fiber.Ctx) error {
	err := s.forumService.DeletePost(c.Context(), service.DeleteForumPostInput{
		ExternalID: externalIDFromCtx(c),
		PostID:     c.Params("id"),
	})
	if err != nil {
		return respondAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
