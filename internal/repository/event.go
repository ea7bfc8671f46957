package repository

import (
	"context"
	"time"

	"github.com/brrock/ronotbroyt.xyz/internal/cache"
	"github.com/brrock/ronotbroyt.xyz/internal/models"
	"github.com/brrock/ronotbroyt.xyz/internal/observability"

	"gorm.io/gorm"
)

// EventRepository defines persistence operations for events.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	// List returns events filtered by status, date ascending. With an
	// empty status it returns only events dated from now on.
	List(ctx context.Context, status models.EventStatus) ([]models.Event, error)
}

type eventRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewEventRepository returns a new EventRepository implementation.
func NewEventRepository(db *gorm.DB, c *cache.Cache) EventRepository {
	return &eventRepository{db: db, cache: c}
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	defer observability.TrackQuery("create", "events")()
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return models.NewInternalError(err)
	}
	r.cache.Invalidate(ctx, cache.EventListKey)
	return nil
}

func (r *eventRepository) List(ctx context.Context, status models.EventStatus) ([]models.Event, error) {
	var events []models.Event
	defer observability.TrackQuery("list", "events")()

	fetch := func() error {
		q := r.db.WithContext(ctx).Order("date asc")
		if status != "" {
			q = q.Where("status = ?", status)
		} else {
			q = q.Where("date >= ?", time.Now())
		}
		return q.Find(&events).Error
	}

	// Only the unfiltered listing is cached. The date cutoff drifts
	// within the TTL, which is acceptable for upcoming events.
	var err error
	if status == "" {
		err = r.cache.Aside(ctx, cache.EventListKey, &events, r.cache.ListTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return events, nil
}
