// Package seed creates demo data for development databases.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/brrock/ronotbroyt.xyz/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seeder populates the database with plausible site content.
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
}

func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll wipes seeded content. Comments go first so the wipe never
// trips over referential checks.
func (s *Seeder) ClearAll() error {
	for _, model := range []any{
		&models.Comment{},
		&models.ForumPost{},
		&models.BlogPost{},
		&models.Event{},
		&models.User{},
	} {
		if err := s.db.Where("1 = 1").Delete(model).Error; err != nil {
			return fmt.Errorf("clearing %T: %w", model, err)
		}
	}
	return nil
}

// Run seeds users, posts, comments and events.
func (s *Seeder) Run(opts Options) error {
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	users, err := s.seedUsers(opts.NumUsers)
	if err != nil {
		return err
	}
	admin := users[0]

	forumPosts, err := s.seedForumPosts(users, opts.NumPosts)
	if err != nil {
		return err
	}
	blogPosts, err := s.seedBlogPosts(admin, opts.NumPosts/10+1)
	if err != nil {
		return err
	}
	if err := s.seedComments(users, forumPosts, blogPosts); err != nil {
		return err
	}
	if err := s.seedEvents(); err != nil {
		return err
	}

	log.Printf("seeded %d users, %d forum posts, %d blog posts",
		len(users), len(forumPosts), len(blogPosts))
	return nil
}

// seedUsers creates one admin, one moderator and the rest regular users.
func (s *Seeder) seedUsers(n int) ([]*models.User, error) {
	if n < 3 {
		n = 3
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		role := models.RoleUser
		switch i {
		case 0:
			role = models.RoleAdmin
		case 1:
			role = models.RoleMod
		}

		user := s.BuildUser(role)
		if err := s.db.Create(user).Error; err != nil {
			return nil, fmt.Errorf("seeding user: %w", err)
		}
		users = append(users, user)
	}
	return users, nil
}

// BuildUser constructs an unsaved user with fake profile data.
func (s *Seeder) BuildUser(role models.Role) *models.User {
	username := gofakeit.Username()
	return &models.User{
		ExternalID: "seed_" + gofakeit.UUID(),
		Username:   username,
		Email:      gofakeit.Email(),
		Avatar:     fmt.Sprintf("https://picsum.photos/seed/%s/200/200", username),
		Role:       role,
	}
}

func (s *Seeder) seedForumPosts(users []*models.User, n int) ([]*models.ForumPost, error) {
	posts := make([]*models.ForumPost, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.rand.Intn(len(users))]
		post := &models.ForumPost{
			Title:   gofakeit.Sentence(5),
			Content: gofakeit.Paragraph(1, 4, 8, "\n"),
			UserID:  author.ID,
			Pinned:  i == 0, // one pinned announcement
		}
		post.CreatedAt = s.pastTimestamp(90)
		if err := s.db.Create(post).Error; err != nil {
			return nil, fmt.Errorf("seeding forum post: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *Seeder) seedBlogPosts(admin *models.User, n int) ([]*models.BlogPost, error) {
	posts := make([]*models.BlogPost, 0, n)
	for i := 0; i < n; i++ {
		post := &models.BlogPost{
			Title:   gofakeit.Sentence(4),
			Content: gofakeit.Paragraph(3, 5, 10, "\n\n"),
			UserID:  admin.ID,
		}
		post.CreatedAt = s.pastTimestamp(365)
		if err := s.db.Create(post).Error; err != nil {
			return nil, fmt.Errorf("seeding blog post: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *Seeder) seedComments(users []*models.User, forumPosts []*models.ForumPost, blogPosts []*models.BlogPost) error {
	for _, post := range forumPosts {
		for i := 0; i < s.rand.Intn(5); i++ {
			comment := &models.Comment{
				Content:  gofakeit.Sentence(10),
				UserID:   users[s.rand.Intn(len(users))].ID,
				PostID:   post.ID,
				PostType: models.PostKindForum,
			}
			comment.CreatedAt = post.CreatedAt.Add(time.Duration(i+1) * time.Hour)
			if err := s.db.Create(comment).Error; err != nil {
				return fmt.Errorf("seeding comment: %w", err)
			}
		}
	}
	for _, post := range blogPosts {
		for i := 0; i < s.rand.Intn(3); i++ {
			comment := &models.Comment{
				Content:  gofakeit.Sentence(10),
				UserID:   users[s.rand.Intn(len(users))].ID,
				PostID:   post.ID,
				PostType: models.PostKindBlog,
			}
			comment.CreatedAt = post.CreatedAt.Add(time.Duration(i+1) * time.Hour)
			if err := s.db.Create(comment).Error; err != nil {
				return fmt.Errorf("seeding comment: %w", err)
			}
		}
	}
	return nil
}

func (s *Seeder) seedEvents() error {
	events := []*models.Event{
		{
			Title:       "Christmas stream",
			Description: "Annual seasonal stream with the santa tracker on screen.",
			Date:        time.Date(time.Now().Year(), 12, 24, 19, 0, 0, 0, time.UTC),
			Type:        "STREAM",
			Status:      models.EventUpcoming,
		},
		{
			Title:       gofakeit.Sentence(3),
			Description: gofakeit.Sentence(12),
			Date:        time.Now().Add(14 * 24 * time.Hour),
			Type:        "MEETUP",
			Status:      models.EventUpcoming,
		},
		{
			Title:       gofakeit.Sentence(3),
			Description: gofakeit.Sentence(12),
			Date:        s.pastTimestamp(60),
			Type:        "STREAM",
			Status:      models.EventCompleted,
		},
	}
	for _, event := range events {
		if err := s.db.Create(event).Error; err != nil {
			return fmt.Errorf("seeding event: %w", err)
		}
	}
	return nil
}

// pastTimestamp spreads created_at over the last maxDays days.
func (s *Seeder) pastTimestamp(maxDays int) time.Time {
	daysBack := s.rand.Intn(maxDays)
	hoursBack := s.rand.Intn(24)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)
}
