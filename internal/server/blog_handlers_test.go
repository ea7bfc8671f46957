package server

import (
	"net/http"
	"testing"

	"github.com/brrock/ronotbroyt.xyz/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedBlogPost(t *testing.T, db *gorm.DB, author *models.User, title string) *models.BlogPost {
	t.Helper()

	post := &models.BlogPost{
		Title:   title,
		Content: "content of " + title,
		UserID:  author.ID,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestCreateBlogPost(t *testing.T) {
	t.Run("admin publishes a post", func(t *testing.T) {
		_, app, db := setupTestServer(t)
		admin := seedUser(t, db, "root", models.RoleAdmin)

		resp := doJSON(t, app, http.MethodPost, "/api/blog/posts", bearer(t, admin), map[string]string{
			"title":   "September update",
			"content": "What shipped this month.",
		})

		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var post models.BlogPost
		decodeBody(t, resp, &post)
		assert.Equal(t, admin.ID, post.UserID)
	})

	t.Run("non-admins are forbidden", func(t *testing.T) {
		_, app, db := setupTestServer(t)
		user := seedUser(t, db, "alice", models.RoleUser)

		resp := doJSON(t, app, http.MethodPost, "/api/blog/posts", bearer(t, user), map[string]string{
			"title": "t", "content": "c",
		})

		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestListBlogPosts(t *testing.T) {
	_, app, db := setupTestServer(t)
	admin := seedUser(t, db, "root", models.RoleAdmin)
	seedBlogPost(t, db, admin, "first")
	seedBlogPost(t, db, admin, "second")

	resp := doJSON(t, app, http.MethodGet, "/api/blog/posts", "", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var posts []models.BlogPost
	decodeBody(t, resp, &posts)
	require.Len(t, posts, 2)
}

func TestDeleteBlogPost(t *testing.T) {
	t.Run("cascade removes only the blog post's comments", func(t *testing.T) {
		_, app, db := setupTestServer(t)
		admin := seedUser(t, db, "root", models.RoleAdmin)
		commenter := seedUser(t, db, "alice", models.RoleUser)
		post := seedBlogPost(t, db, admin, "doomed")
		seedComment(t, db, commenter, post.ID, models.PostKindBlog, "on the blog")
		forumPost := seedForumPost(t, db, commenter, "unrelated", false)
		seedComment(t, db, commenter, forumPost.ID, models.PostKindForum, "on the forum")

		resp := doJSON(t, app, http.MethodDelete, "/api/blog/posts/"+post.ID, bearer(t, admin), nil)

		require.Equal(t, http.StatusNoContent, resp.StatusCode)
		var count int64
		require.NoError(t, db.Model(&models.Comment{}).Count(&count).Error)
		assert.EqualValues(t, 1, count, "forum comments survive a blog cascade")
	})

	t.Run("non-owner non-admin is forbidden", func(t *testing.T) {
		_, app, db := setupTestServer(t)
		admin := seedUser(t, db, "root", models.RoleAdmin)
		user := seedUser(t, db, "alice", models.RoleUser)
		post := seedBlogPost(t, db, admin, "kept")

		resp := doJSON(t, app, http.MethodDelete, "/api/blog/posts/"+post.ID, bearer(t, user), nil)

		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}
