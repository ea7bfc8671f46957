package server

import (
	"github.com/brrock/ronotbroyt.xyz/internal/models"
	"github.com/brrock/ronotbroyt.xyz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListComments handles GET /api/comments?postId=...&postType=...
func (s *Server) ListComments(c *fiber.Ctx) error {
	postID := c.Query("postId")
	if postID == "" {
		return respondAppError(c, models.NewValidationError("postId is required"))
	}

	comments, err := s.commentService.ListComments(c.Context(), postID, c.Query("postType"))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(comments)
}

// CreateComment handles POST /api/comments
// @Summary Comment on a post
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.Comment
// @Failure 404 {object} models.ErrorResponse "parent post missing"
// @Failure 422 {object} models.ErrorResponse "content rejected by moderation"
// @Router /api/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req struct {
		PostID   string `json:"postId"`
		PostType string `json:"postType"`
		Content  string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondAppError(c, models.NewValidationError("Invalid request body"))
	}
	if req.PostID == "" {
		return respondAppError(c, models.NewValidationError("postId is required"))
	}

	comment, err := s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		Claims:   claimsFromCtx(c),
		PostID:   req.PostID,
		PostType: req.PostType,
		Content:  req.Content,
	})
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id
// @Summary Delete a comment
// @Tags comments
// @Security BearerAuth
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Router /api/comments/{id} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	err := s.commentService.DeleteComment(c.Context(), service.DeleteCommentInput{
		ExternalID: externalIDFromCtx(c),
		CommentID:  c.Params("id"),
	})
	if err != nil {
		return respondAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
