package service

import (
	"context"

	"github.com/brrock/ronotbroyt.xyz/internal/identity"
	"github.com/brrock/ronotbroyt.xyz/internal/models"
	"github.com/brrock/ronotbroyt.xyz/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CurrentUser returns the internal User for the verified identity,
// creating the row on first sight.
func (s *UserService) CurrentUser(ctx context.Context, claims *identity.Claims) (*models.User, error) {
	return ensureActor(ctx, s.userRepo, claims)
}

// GetByID returns a user by internal id.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, models.NewValidationError("user id is required")
	}
	return s.userRepo.GetByID(ctx, id)
}
