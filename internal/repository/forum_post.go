package repository

import (
	"context"
	"errors"

	"github.com/brrock/ronotbroyt.xyz/internal/cache"
	"github.com/brrock/ronotbroyt.xyz/internal/models"
	"github.com/brrock/ronotbroyt.xyz/internal/observability"

	"gorm.io/gorm"
)

// ForumPostRepository defines persistence operations for forum posts.
type ForumPostRepository interface {
	Create(ctx context.Context, post *models.ForumPost) error
	GetByID(ctx context.Context, id string) (*models.ForumPost, error)
	List(ctx context.Context, limit, offset int) ([]models.ForumPost, error)
	// DeleteWithComments removes the post and every comment attached
	// to it in a single transaction.
	DeleteWithComments(ctx context.Context, id string) error
}

type forumPostRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewForumPostRepository returns a new ForumPostRepository implementation.
func NewForumPostRepository(db *gorm.DB, c *cache.Cache) ForumPostRepository {
	return &forumPostRepository{db: db, cache: c}
}

func (r *forumPostRepository) Create(ctx context.Context, post *models.ForumPost) error {
	defer observability.TrackQuery("create", "forum_posts")()
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		if isForeignKeyError(err) {
			return models.NewConflictError("forum post references a missing row", err)
		}
		return models.NewInternalError(err)
	}
	r.cache.Invalidate(ctx, cache.ForumListKey)
	return nil
}

func (r *forumPostRepository) GetByID(ctx context.Context, id string) (*models.ForumPost, error) {
	var post models.ForumPost
	defer observability.TrackQuery("get", "forum_posts")()

	fetch := func() error {
		err := r.db.WithContext(ctx).
			Preload("User").
			Preload("Comments", func(db *gorm.DB) *gorm.DB {
				return db.Order("created_at desc")
			}).
			Preload("Comments.User").
			First(&post, "id = ?", id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Forum post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	}

	// The cached value embeds the comment thread, so comment writes
	// invalidate this key.
	if err := r.cache.Aside(ctx, cache.ForumPostKey(id), &post, r.cache.ListTTL, fetch); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *forumPostRepository) List(ctx context.Context, limit, offset int) ([]models.ForumPost, error) {
	var posts []models.ForumPost
	defer observability.TrackQuery("list", "forum_posts")()

	fetch := func() error {
		return r.db.WithContext(ctx).
			Preload("User").
			Order("pinned desc").
			Order("created_at desc").
			Limit(limit).
			Offset(offset).
			Find(&posts).Error
	}

	var err error
	if isFirstPage(limit, offset) {
		err = r.cache.Aside(ctx, cache.ForumListKey, &posts, r.cache.ListTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *forumPostRepository) DeleteWithComments(ctx context.Context, id string) error {
	defer observability.TrackQuery("delete_cascade", "forum_posts")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("post_id = ? AND post_type = ?", id, models.PostKindForum).
			Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.ForumPost{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Forum post", id)
		}
		return nil
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return err
		}
		if isForeignKeyError(err) {
			return models.NewConflictError("forum post is still referenced", err)
		}
		return models.NewInternalError(err)
	}

	observability.CascadeDeletesTotal.WithLabelValues(models.PostKindForum).Inc()
	r.cache.Invalidate(ctx, cache.ForumListKey, cache.ForumPostKey(id))
	return nil
}
