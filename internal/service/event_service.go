package service

import (
	"context"
	"time"

	"github.com/brrock/ronotbroyt.xyz/internal/identity"
	"github.com/brrock/ronotbroyt.xyz/internal/models"
	"github.com/brrock/ronotbroyt.xyz/internal/repository"
)

type EventService struct {
	eventRepo repository.EventRepository
	userRepo  repository.UserRepository
}

type CreateEventInput struct {
	Claims      *identity.Claims
	Title       string
	Description string
	Date        time.Time
	Type        string
	Status      string
}

func NewEventService(
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		userRepo:  userRepo,
	}
}

// CreateEvent publishes an event. Only admins manage the events page.
func (s *EventService) CreateEvent(ctx context.Context, in CreateEventInput) (*models.Event, error) {
	actor, err := ensureActor(ctx, s.userRepo, in.Claims)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin {
		return nil, models.NewForbiddenError("Only admins can create events")
	}

	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if in.Description == "" {
		return nil, models.NewValidationError("Description is required")
	}
	if in.Date.IsZero() {
		return nil, models.NewValidationError("Date is required")
	}
	if in.Type == "" {
		return nil, models.NewValidationError("Type is required")
	}
	if in.Status != "" && !models.ValidEventStatus(in.Status) {
		return nil, models.NewValidationError("Status must be UPCOMING, ONGOING or COMPLETED")
	}

	event := &models.Event{
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
		Type:        in.Type,
		Status:      models.EventStatus(in.Status),
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// ListEvents returns events date ascending. An empty status lists
// upcoming-dated events only; a status filter includes past ones.
func (s *EventService) ListEvents(ctx context.Context, status string) ([]models.Event, error) {
	if status != "" && !models.ValidEventStatus(status) {
		return nil, models.NewValidationError("Status must be UPCOMING, ONGOING or COMPLETED")
	}
	return s.eventRepo.List(ctx, models.EventStatus(status))
}
