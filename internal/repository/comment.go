package repository

import (
	"context"
	"errors"

	"github.com/brrock/ronotbroyt.xyz/internal/cache"
	"github.com/brrock/ronotbroyt.xyz/internal/models"
	"github.com/brrock/ronotbroyt.xyz/internal/observability"

	"gorm.io/gorm"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByPost(ctx context.Context, postID, postType string) ([]models.Comment, error)
	Delete(ctx context.Context, id string) error
}

type commentRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewCommentRepository returns a new CommentRepository implementation.
func NewCommentRepository(db *gorm.DB, c *cache.Cache) CommentRepository {
	return &commentRepository{db: db, cache: c}
}

// invalidateParent drops the cached parent post, which embeds its comments.
func (r *commentRepository) invalidateParent(ctx context.Context, postID, postType string) {
	if postType == models.PostKindBlog {
		r.cache.Invalidate(ctx, cache.BlogPostKey(postID))
		return
	}
	r.cache.Invalidate(ctx, cache.ForumPostKey(postID))
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	defer observability.TrackQuery("create", "comments")()
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		if isForeignKeyError(err) {
			return models.NewConflictError("comment references a missing row", err)
		}
		return models.NewInternalError(err)
	}
	r.invalidateParent(ctx, comment.PostID, comment.PostType)
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	defer observability.TrackQuery("get", "comments")()
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID, postType string) ([]models.Comment, error) {
	var comments []models.Comment
	defer observability.TrackQuery("list", "comments")()
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ? AND post_type = ?", postID, postType).
		Order("created_at desc").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	defer observability.TrackQuery("delete", "comments")()

	var comment models.Comment
	err := r.db.WithContext(ctx).
		Select("id", "post_id", "post_type").
		First(&comment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Comment", id)
		}
		return models.NewInternalError(err)
	}

	res := r.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", id)
	}
	r.invalidateParent(ctx, comment.PostID, comment.PostType)
	return nil
}
