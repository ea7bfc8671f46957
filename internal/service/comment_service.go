package service

import (
	"context"

	"github.com/brrock/ronotbroyt.xyz/internal/identity"
	"github.com/brrock/ronotbroyt.xyz/internal/models"
	"github.com/brrock/ronotbroyt.xyz/internal/moderation"
	"github.com/brrock/ronotbroyt.xyz/internal/repository"
)

const maxCommentLen = 10000

type CommentService struct {
	commentRepo   repository.CommentRepository
	forumPostRepo repository.ForumPostRepository
	blogPostRepo  repository.BlogPostRepository
	userRepo      repository.UserRepository
	checker       *moderation.Checker
}

type CreateCommentInput struct {
	Claims   *identity.Claims
	PostID   string
	PostType string
	Content  string
}

type DeleteCommentInput struct {
	ExternalID string
	CommentID  string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	forumPostRepo repository.ForumPostRepository,
	blogPostRepo repository.BlogPostRepository,
	userRepo repository.UserRepository,
	checker *moderation.Checker,
) *CommentService {
	return &CommentService{
		commentRepo:   commentRepo,
		forumPostRepo: forumPostRepo,
		blogPostRepo:  blogPostRepo,
		userRepo:      userRepo,
		checker:       checker,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	actor, err := ensureActor(ctx, s.userRepo, in.Claims)
	if err != nil {
		return nil, err
	}

	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	postType := in.PostType
	if postType == "" {
		postType = models.PostKindForum
	}

	// The parent post must exist before anything is scored or persisted.
	switch postType {
	case models.PostKindForum:
		if _, err := s.forumPostRepo.GetByID(ctx, in.PostID); err != nil {
			return nil, err
		}
	case models.PostKindBlog:
		if _, err := s.blogPostRepo.GetByID(ctx, in.PostID); err != nil {
			return nil, err
		}
	default:
		return nil, models.NewValidationError("postType must be forum or blog")
	}

	verdict := s.checker.Check(ctx, map[string]string{
		"content": in.Content,
	})
	if !verdict.Allowed {
		return nil, models.NewContentRejectedError(verdict.Failing)
	}

	comment := &models.Comment{
		Content:  in.Content,
		UserID:   actor.ID,
		PostID:   in.PostID,
		PostType: postType,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) ListComments(ctx context.Context, postID, postType string) ([]models.Comment, error) {
	if postType == "" {
		postType = models.PostKindForum
	}
	switch postType {
	case models.PostKindForum:
		if _, err := s.forumPostRepo.GetByID(ctx, postID); err != nil {
			return nil, err
		}
	case models.PostKindBlog:
		if _, err := s.blogPostRepo.GetByID(ctx, postID); err != nil {
			return nil, err
		}
	default:
		return nil, models.NewValidationError("postType must be forum or blog")
	}
	return s.commentRepo.ListByPost(ctx, postID, postType)
}

// DeleteComment removes a comment. Admins and mods may delete any
// comment; everyone else only their own.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	actor, err := resolveActor(ctx, s.userRepo, in.ExternalID)
	if err != nil {
		return err
	}

	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return err
	}

	if !canDeleteComment(actor, comment.UserID) {
		return models.NewForbiddenError("You can only delete your own comments")
	}

	return s.commentRepo.Delete(ctx, in.CommentID)
}
