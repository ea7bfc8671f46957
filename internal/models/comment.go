package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostKind distinguishes which flavor of post a comment belongs to.
const (
	PostKindBlog  = "blog"
	PostKindForum = "forum"
)

// Comment is a reply attached to a blog or forum post.
type Comment struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	PostID    string    `gorm:"type:uuid;not null;index" json:"post_id"`
	PostType  string    `gorm:"type:varchar(8);not null" json:"post_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
