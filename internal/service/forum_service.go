package service

import (
	"context"
	"log/slog"

	"github.com/brrock/ronotbroyt.xyz/internal/identity"
	"github.com/brrock/ronotbroyt.xyz/internal/middleware"
	"github.com/brrock/ronotbroyt.xyz/internal/models"
	"github.com/brrock/ronotbroyt.xyz/internal/moderation"
	"github.com/brrock/ronotbroyt.xyz/internal/observability"
	"github.com/brrock/ronotbroyt.xyz/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

const (
	maxTitleLen   = 200
	maxContentLen = 50000
)

type ForumService struct {
	postRepo repository.ForumPostRepository
	userRepo repository.UserRepository
	checker  *moderation.Checker
}

type CreateForumPostInput struct {
	Claims  *identity.Claims
	Title   string
	Content string
}

type DeleteForumPostInput struct {
	ExternalID string
	PostID     string
}

func NewForumService(
	postRepo repository.ForumPostRepository,
	userRepo repository.UserRepository,
	checker *moderation.Checker,
) *ForumService {
	return &ForumService{
		postRepo: postRepo,
		userRepo: userRepo,
		checker:  checker,
	}
}

func (s *ForumService) CreatePost(ctx context.Context, in CreateForumPostInput) (*models.ForumPost, error) {
	actor, err := ensureActor(ctx, s.userRepo, in.Claims)
	if err != nil {
		return nil, err
	}

	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	verdict := s.checker.Check(ctx, map[string]string{
		"title":   in.Title,
		"content": in.Content,
	})
	if !verdict.Allowed {
		return nil, models.NewContentRejectedError(verdict.Failing)
	}

	post := &models.ForumPost{
		Title:   in.Title,
		Content: in.Content,
		UserID:  actor.ID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *ForumService) GetPost(ctx context.Context, id string) (*models.ForumPost, error) {
	if id == "" {
		return nil, models.NewValidationError("post id is required")
	}
	return s.postRepo.GetByID(ctx, id)
}

func (s *ForumService) ListPosts(ctx context.Context, limit, offset int) ([]models.ForumPost, error) {
	return s.postRepo.List(ctx, limit, offset)
}

// DeletePost removes a post and its comments. Admins may delete any
// post; everyone else only their own.
func (s *ForumService) DeletePost(ctx context.Context, in DeleteForumPostInput) error {
	span, ctx := observability.NewSpan(ctx, "forum.delete_post")
	defer span.End()
	span.AddAttributes(attribute.String("post.id", in.PostID))

	if err := s.deletePost(ctx, in); err != nil {
		span.SetError(err)
		return err
	}

	middleware.Logger.InfoContext(ctx, "forum post deleted",
		slog.String("post_id", in.PostID),
		slog.String("trace_id", span.TraceID()),
	)
	return nil
}

func (s *ForumService) deletePost(ctx context.Context, in DeleteForumPostInput) error {
	actor, err := resolveActor(ctx, s.userRepo, in.ExternalID)
	if err != nil {
		return err
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}

	if !canDeletePost(actor, post.UserID) {
		return models.NewForbiddenError("You can only delete your own posts")
	}

	return s.postRepo.DeleteWithComments(ctx, in.PostID)
}
