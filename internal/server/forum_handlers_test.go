package server

import (
	"net/http"
	"testing"

	"github.com/brrock/ronotbroyt.xyz/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedForumPost(t *testing.T, db *gorm.DB, author *models.User, title string, pinned bool) *models.ForumPost {
	t.Helper()

	post := &models.ForumPost{
		Title:   title,
		Content: "content of " + title,
		UserID:  author.ID,
		Pinned:  pinned,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func seedComment(t *testing.T, db *gorm.DB, author *models.User, postID, postType, content string) *models.Comment {
	t.Helper()

	comment := &models.Comment{
		Content:  content,
		UserID:   author.ID,
		PostID:   postID,
		PostType: postType,
	}
	require.NoError(t, db.Create(comment).Error)
	return comment
}

func TestCreateForumPost(t *testing.T) {
	t.Run("creates a post and the user row on first write", func(t *testing.T) {
		_, app, db := setupTestServer(t)
		visitor := &models.User{ExternalID: "ext-visitor", Username: "visitor", Role: models.RoleUser}

		resp := doJSON(t, app, http.MethodPost, "/api/forum/posts", bearer(t, visitor), map[string]string{
			"title":   "Hello forum",
			"content": "First post here.",
		})

		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var post models.ForumPost
		decodeBody(t, resp, &post)
		assert.NotEmpty(t, post.ID)
		assert.Equal(t, "Hello forum", post.Title)

		var user models.User
		require.NoError(t, db.Where("external_id = ?", "ext-visitor").First(&user).Error)
		assert.Equal(t, user.ID, post.UserID)
	})

	t.Run("rejects anonymous submissions", func(t *testing.T) {
		_, app, _ := setupTestServer(t)

		resp := doJSON(t, app, http.MethodPost, "/api/forum/posts", "", map[string]string{
			"title": "t", "content": "c",
		})

		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejects profane submissions with per-field scores", func(t *testing.T) {
		_, app, db := setupTestServer(t)
		author := seedUser(t, db, "alice", models.RoleUser)

		resp := doJSON(t, app, http.MethodPost, "/api/forum/posts", bearer(t, author), map[string]string{
			"title":   "a wretched title",
			"content": "and a wretched body",
		})

		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		var body models.ErrorResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, "CONTENT_REJECTED", body.Code)
		assert.Equal(t, map[string]float64{"title": 3.5, "content": 3.5}, body.Scores)

		var count int64
		require.NoError(t, db.Model(&models.ForumPost{}).Count(&count).Error)
		assert.Zero(t, count, "rejected post must not be persisted")
	})

	t.Run("rejects invalid bodies", func(t *testing.T) {
		_, app, db := setupTestServer(t)
		author := seedUser(t, db, "alice", models.RoleUser)

		resp := doJSON(t, app, http.MethodPost, "/api/forum/posts", bearer(t, author), map[string]string{
			"title": "only a title",
		})

		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestListForumPosts(t *testing.T) {
	_, app, db := setupTestServer(t)
	author := seedUser(t, db, "alice", models.RoleUser)

	seedForumPost(t, db, author, "oldest", false)
	seedForumPost(t, db, author, "newest", false)
	seedForumPost(t, db, author, "pinned announcement", true)

	resp := doJSON(t, app, http.MethodGet, "/api/forum/posts", "", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var posts []models.ForumPost
	decodeBody(t, resp, &posts)
	require.Len(t, posts, 3)
	assert.Equal(t, "pinned announcement", posts[0].Title)
}

func TestGetForumPost(t *testing.T) {
	_, app, db := setupTestServer(t)
	author := seedUser(t, db, "alice", models.RoleUser)
	post := seedForumPost(t, db, author, "with comments", false)
	seedComment(t, db, author, post.ID, models.PostKindForum, "first!")

	resp := doJSON(t, app, http.MethodGet, "/api/forum/posts/"+post.ID, "", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got models.ForumPost
	decodeBody(t, resp, &got)
	assert.Equal(t, post.ID, got.ID)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, author.Username, got.Comments[0].User.Username)

	resp = doJSON(t, app, http.MethodGet, "/api/forum/posts/missing", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteForumPost(t *testing.T) {
	t.Run("author deletes their post and its comments atomically", func(t *testing.T) {
		_, app, db := setupTestServer(t)
		author := seedUser(t, db, "alice", models.RoleUser)
		commenter := seedUser(t, db, "bob", models.RoleUser)
		post := seedForumPost(t, db, author, "doomed", false)
		seedComment(t, db, commenter, post.ID, models.PostKindForum, "goodbye")
		survivor := seedForumPost(t, db, author, "survivor", false)
		seedComment(t, db, commenter, survivor.ID, models.PostKindForum, "still here")

		resp := doJSON(t, app, http.MethodDelete, "/api/forum/posts/"+post.ID, bearer(t, author), nil)

		require.Equal(t, http.StatusNoContent, resp.StatusCode)
		var comments int64
		require.NoError(t, db.Model(&models.Comment{}).
			Where("post_id = ? AND post_type = ?", post.ID, models.PostKindForum).
			Count(&comments).Error)
		assert.Zero(t, comments)
		require.NoError(t, db.Model(&models.Comment{}).Count(&comments).Error)
		assert.EqualValues(t, 1, comments, "other posts keep their comments")
	})

	t.Run("admin deletes anyone's post", func(t *testing.T) {
		_, app, db := setupTestServer(t)
		author := seedUser(t, db, "alice", models.RoleUser)
		admin := seedUser(t, db, "root", models.RoleAdmin)
		post := seedForumPost(t, db, author, "flagged", false)

		resp := doJSON(t, app, http.MethodDelete, "/api/forum/posts/"+post.ID, bearer(t, admin), nil)

		require.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("moderators and strangers are forbidden", func(t *testing.T) {
		_, app, db := setupTestServer(t)
		author := seedUser(t, db, "alice", models.RoleUser)
		post := seedForumPost(t, db, author, "contested", false)

		for _, actor := range []*models.User{
			seedUser(t, db, "mod", models.RoleMod),
			seedUser(t, db, "stranger", models.RoleUser),
		} {
			resp := doJSON(t, app, http.MethodDelete, "/api/forum/posts/"+post.ID, bearer(t, actor), nil)
			require.Equal(t, http.StatusForbidden, resp.StatusCode, actor.Username)
		}
	})

	t.Run("identity without a user row yields a distinct 404", func(t *testing.T) {
		_, app, db := setupTestServer(t)
		author := seedUser(t, db, "alice", models.RoleUser)
		post := seedForumPost(t, db, author, "safe", false)
		ghost := &models.User{ExternalID: "ext-ghost", Username: "ghost", Role: models.RoleUser}

		resp := doJSON(t, app, http.MethodDelete, "/api/forum/posts/"+post.ID, bearer(t, ghost), nil)

		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		var body models.ErrorResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, "USER_NOT_FOUND", body.Code)
	})

	t.Run("second delete observes not found", func(t *testing.T) {
		_, app, db := setupTestServer(t)
		author := seedUser(t, db, "alice", models.RoleUser)
		post := seedForumPost(t, db, author, "once", false)

		resp := doJSON(t, app, http.MethodDelete, "/api/forum/posts/"+post.ID, bearer(t, author), nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = doJSON(t, app, http.MethodDelete, "/api/forum/posts/"+post.ID, bearer(t, author), nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		var body models.ErrorResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, "NOT_FOUND", body.Code)
	})
}
