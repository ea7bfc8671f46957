package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/brrock/ronotbroyt.xyz/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupMockDB builds a gorm DB over sqlmock for driver-level error paths
// that sqlite cannot simulate.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{SkipDefaultTransaction: false})
	require.NoError(t, err)

	return gormDB, mock
}

func TestBlogPostRepository_ListOrdering(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBlogPostRepository(db, noCache())
	ctx := context.Background()

	author := seedUser(t, db, "admin", models.RoleAdmin)

	old := &models.BlogPost{Title: "old", Content: "c", UserID: author.ID}
	require.NoError(t, db.Create(old).Error)
	require.NoError(t, db.Model(old).Update("created_at", time.Now().Add(-time.Hour)).Error)

	newer := &models.BlogPost{Title: "newer", Content: "c", UserID: author.ID}
	require.NoError(t, db.Create(newer).Error)

	posts, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "newer", posts[0].Title)
	assert.Equal(t, "old", posts[1].Title)
}

func TestBlogPostRepository_DeleteWithComments(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBlogPostRepository(db, noCache())
	ctx := context.Background()

	author := seedUser(t, db, "admin", models.RoleAdmin)
	post := &models.BlogPost{Title: "article", Content: "c", UserID: author.ID}
	require.NoError(t, db.Create(post).Error)

	comment := &models.Comment{Content: "hi", UserID: author.ID, PostID: post.ID, PostType: models.PostKindBlog}
	require.NoError(t, db.Create(comment).Error)

	require.NoError(t, repo.DeleteWithComments(ctx, post.ID))

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&count).Error)
	assert.Zero(t, count)

	err := repo.DeleteWithComments(ctx, post.ID)
	assertAppErrorCode(t, err, "NOT_FOUND")
}

func TestBlogPostRepository_DeleteRollsBackOnFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBlogPostRepository(db, noCache())
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "comments"`)).
		WithArgs("post-1", models.PostKindBlog).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "blog_posts"`)).
		WithArgs("post-1").
		WillReturnError(errors.New("violates foreign key constraint (SQLSTATE 23503)"))
	mock.ExpectRollback()

	err := repo.DeleteWithComments(ctx, "post-1")
	assertAppErrorCode(t, err, "CONFLICT")
	assert.NoError(t, mock.ExpectationsWereMet(), "failed delete must roll the comment delete back")
}
