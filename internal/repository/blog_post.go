package repository

import (
	"context"
	"errors"

	"github.com/brrock/ronotbroyt.xyz/internal/cache"
	"github.com/brrock/ronotbroyt.xyz/internal/models"
	"github.com/brrock/ronotbroyt.xyz/internal/observability"

	"gorm.io/gorm"
)

// BlogPostRepository defines persistence operations for blog posts.
type BlogPostRepository interface {
	Create(ctx context.Context, post *models.BlogPost) error
	GetByID(ctx context.Context, id string) (*models.BlogPost, error)
	List(ctx context.Context, limit, offset int) ([]models.BlogPost, error)
	// DeleteWithComments removes the post and every comment attached
	// to it in a single transaction.
	DeleteWithComments(ctx context.Context, id string) error
}

type blogPostRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewBlogPostRepository returns a new BlogPostRepository implementation.
func NewBlogPostRepository(db *gorm.DB, c *cache.Cache) BlogPostRepository {
	return &blogPostRepository{db: db, cache: c}
}

func (r *blogPostRepository) Create(ctx context.Context, post *models.BlogPost) error {
	defer observability.TrackQuery("create", "blog_posts")()
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		if isForeignKeyError(err) {
			return models.NewConflictError("blog post references a missing row", err)
		}
		return models.NewInternalError(err)
	}
	r.cache.Invalidate(ctx, cache.BlogListKey)
	return nil
}

func (r *blogPostRepository) GetByID(ctx context.Context, id string) (*models.BlogPost, error) {
	var post models.BlogPost
	defer observability.TrackQuery("get", "blog_posts")()

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
				return models.NewNotFoundError("Blog post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	}

	// The cached value embeds the comment thread, so comment writes
	// invalidate this key.
	if err := r.cache.Aside(ctx, cache.BlogPostKey(id), &post, r.cache.ListTTL, fetch); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *blogPostRepository) List(ctx context.Context, limit, offset int) ([]models.BlogPost, error) {
	var posts []models.BlogPost
	defer observability.TrackQuery("list", "blog_posts")()

	fetch := func() error {
		return r.db.WithContext(ctx).
			Preload("User").
			Order("created_at desc").
			Limit(limit).
			Offset(offset).
			Find(&posts).Error
	}

	var err error
	if isFirstPage(limit, offset) {
		err = r.cache.Aside(ctx, cache.BlogListKey, &posts, r.cache.ListTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *blogPostRepository) DeleteWithComments(ctx context.Context, id string) error {
	defer observability.TrackQuery("delete_cascade", "blog_posts")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("post_id = ? AND post_type = ?", id, models.PostKindBlog).
			Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.BlogPost{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Blog post", id)
		}
		return nil
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return err
		}
		if isForeignKeyError(err) {
			return models.NewConflictError("blog post is still referenced", err)
		}
		return models.NewInternalError(err)
	}

	observability.CascadeDeletesTotal.WithLabelValues(models.PostKindBlog).Inc()
	r.cache.Invalidate(ctx, cache.BlogListKey, cache.BlogPostKey(id))
	return nil
}
