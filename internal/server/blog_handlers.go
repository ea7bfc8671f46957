package server

import (
	"github.com/brrock/ronotbroyt.xyz/internal/models"
	"github.com/brrock/ronotbroyt.xyz/internal/repository"
	"github.com/brrock/ronotbroyt.xyz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListBlogPosts handles GET /api/blog/posts
func (s *Server) ListBlogPosts(c *fiber.Ctx) error {
	page := parsePagination(c, repository.DefaultListLimit)

	posts, err := s.blogService.ListPosts(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(posts)
}

// GetBlogPost handles GET /api/blog/posts/:id
func (s *Server) GetBlogPost(c *fiber.Ctx) error {
	post, err := s.blogService.GetPost(c.Context(), c.Params("id"))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(post)
}

// CreateBlogPost handles POST /api/blog/posts
// @Summary Publish a blog post (admin only)
// @Tags blog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.BlogPost
// @Failure 403 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse "content rejected by moderation"
// @Router /api/blog/posts [post]
func (s *Server) CreateBlogPost(c *fiber.Ctx) error {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondAppError(c, models.NewValidationError("Invalid request body"))
	}

	post, err := s.blogService.CreatePost(c.Context(), service.CreateBlogPostInput{
		Claims:  claimsFromCtx(c),
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// DeleteBlogPost handles DELETE /api/blog/posts/:id
func (s *Server) DeleteBlogPost(c *fiber.Ctx) error {
	err := s.blogService.DeletePost(c.Context(), service.DeleteBlogPostInput{
		ExternalID: externalIDFromCtx(c),
		PostID:     c.Params("id"),
	})
	if err != nil {
		return respondAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
