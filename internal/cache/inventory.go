package cache

import "fmt"

// Key inventory. Every cached value is listed here so invalidation
// stays auditable.
const (
	userKeyPrefix     = "user:%s"
	userExtKeyPrefix  = "user:ext:%s"
	blogPostKeyPrefix = "blog:%s"
	forumPostPrefix   = "forum:%s"

	BlogListKey  = "blog:list"
	ForumListKey = "forum:list"
	EventListKey = "events:list"
)

func UserKey(userID string) string {
	return fmt.Sprintf(userKeyPrefix, userID)
}

func UserByExternalKey(externalID string) string {
	return fmt.Sprintf(userExtKeyPrefix, externalID)
}

func BlogPostKey(postID string) string {
	return fmt.Sprintf(blogPostKeyPrefix, postID)
}

func ForumPostKey(postID string) string {
	return fmt.Sprintf(forumPostPrefix, postID)
}
