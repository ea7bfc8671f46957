// Package service contains the application's business logic layer.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/brrock/ronotbroyt.xyz/internal/identity"
	"github.com/brrock/ronotbroyt.xyz/internal/models"
	"github.com/brrock/ronotbroyt.xyz/internal/repository"
)

// resolveActor maps a verified external identity to the internal User row.
// Every ownership decision compares internal ids, never provider ids.
func resolveActor(ctx context.Context, userRepo repository.UserRepository, externalID string) (*models.User, error) {
	if externalID == "" {
		return nil, models.NewUnauthenticatedError("authentication required")
	}

	user, err := userRepo.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUserNotFoundError(externalID)
	}
	return user, nil
}

// ensureActor resolves the actor, creating the internal User row on first
// authenticated write. New rows always start as USER; roles are granted
// out of band, never taken from the credential.
func ensureActor(ctx context.Context, userRepo repository.UserRepository, claims *identity.Claims) (*models.User, error) {
	if claims == nil || claims.ExternalID == "" {
		return nil, models.NewUnauthenticatedError("authentication required")
	}

	user, err := userRepo.GetByExternalID(ctx, claims.ExternalID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	username := strings.TrimSpace(claims.Username)
	if username == "" {
		username = "user-" + claims.ExternalID
	}

	user = &models.User{
		ExternalID: claims.ExternalID,
		Username:   username,
		Email:      claims.Email,
		Avatar:     claims.Avatar,
		Role:       models.RoleUser,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		// A concurrent first write may have created the row already.
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "CONFLICT" {
			existing, getErr := userRepo.GetByExternalID(ctx, claims.ExternalID)
			if getErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, err
	}
	return user, nil
}

// canDeletePost reports whether actor may delete a post owned by ownerID.
// Stored roles pass through ParseRole so an unrecognized value never
// grants privileges.
func canDeletePost(actor *models.User, ownerID string) bool {
	return models.ParseRole(string(actor.Role)) == models.RoleAdmin || actor.ID == ownerID
}

// canDeleteComment reports whether actor may delete a comment owned by ownerID.
func canDeleteComment(actor *models.User, ownerID string) bool {
	return models.ParseRole(string(actor.Role)).CanModerate() || actor.ID == ownerID
}
