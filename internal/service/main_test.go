package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brrock/ronotbroyt.xyz/internal/identity"
	"github.com/brrock/ronotbroyt.xyz/internal/models"
	"github.com/brrock/ronotbroyt.xyz/internal/moderation"
)

// Repository stubs with swappable function fields so each test overrides
// only the calls it cares about.

type userRepoStub struct {
	getByIDFn         func(ctx context.Context, id string) (*models.User, error)
	getByExternalIDFn func(ctx context.Context, externalID string) (*models.User, error)
	createFn          func(ctx context.Context, user *models.User) error
	updateFn          func(ctx context.Context, user *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}

func (s *userRepoStub) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	return s.getByExternalIDFn(ctx, externalID)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}

func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(ctx context.Context, id string) (*models.User, error) {
			return nil, models.NewUserNotFoundError(id)
		},
		getByExternalIDFn: func(ctx context.Context, externalID string) (*models.User, error) {
			return nil, nil
		},
		createFn: func(ctx context.Context, user *models.User) error { return nil },
		updateFn: func(ctx context.Context, user *models.User) error { return nil },
	}
}

// knownUserRepo resolves every external id to the given user.
func knownUserRepo(user *models.User) *userRepoStub {
	repo := noopUserRepo()
	repo.getByExternalIDFn = func(ctx context.Context, externalID string) (*models.User, error) {
		if externalID == user.ExternalID {
			return user, nil
		}
		return nil, nil
	}
	repo.getByIDFn = func(ctx context.Context, id string) (*models.User, error) {
		if id == user.ID {
			return user, nil
		}
		return nil, models.NewUserNotFoundError(id)
	}
	return repo
}

type forumPostRepoStub struct {
	createFn             func(ctx context.Context, post *models.ForumPost) error
	getByIDFn            func(ctx context.Context, id string) (*models.ForumPost, error)
	listFn               func(ctx context.Context, limit, offset int) ([]models.ForumPost, error)
	deleteWithCommentsFn func(ctx context.Context, id string) error
}

func (s *forumPostRepoStub) Create(ctx context.Context, post *models.ForumPost) error {
	return s.createFn(ctx, post)
}

func (s *forumPostRepoStub) GetByID(ctx context.Context, id string) (*models.ForumPost, error) {
	return s.getByIDFn(ctx, id)
}

func (s *forumPostRepoStub) List(ctx context.Context, limit, offset int) ([]models.ForumPost, error) {
	return s.listFn(ctx, limit, offset)
}

func (s *forumPostRepoStub) DeleteWithComments(ctx context.Context, id string) error {
	return s.deleteWithCommentsFn(ctx, id)
}

func noopForumPostRepo() *forumPostRepoStub {
	return &forumPostRepoStub{
		createFn: func(ctx context.Context, post *models.ForumPost) error {
			post.ID = "forum-post-1"
			return nil
		},
		getByIDFn: func(ctx context.Context, id string) (*models.ForumPost, error) {
			return &models.ForumPost{ID: id}, nil
		},
		listFn: func(ctx context.Context, limit, offset int) ([]models.ForumPost, error) {
			return nil, nil
		},
		deleteWithCommentsFn: func(ctx context.Context, id string) error { return nil },
	}
}

type blogPostRepoStub struct {
	createFn             func(ctx context.Context, post *models.BlogPost) error
	getByIDFn            func(ctx context.Context, id string) (*models.BlogPost, error)
	listFn               func(ctx context.Context, limit, offset int) ([]models.BlogPost, error)
	deleteWithCommentsFn func(ctx context.Context, id string) error
}

func (s *blogPostRepoStub) Create(ctx context.Context, post *models.BlogPost) error {
	return s.createFn(ctx, post)
}

func (s *blogPostRepoStub) GetByID(ctx context.Context, id string) (*models.BlogPost, error) {
	return s.getByIDFn(ctx, id)
}

func (s *blogPostRepoStub) List(ctx context.Context, limit, offset int) ([]models.BlogPost, error) {
	return s.listFn(ctx, limit, offset)
}

func (s *blogPostRepoStub) DeleteWithComments(ctx context.Context, id string) error {
	return s.deleteWithCommentsFn(ctx, id)
}

func noopBlogPostRepo() *blogPostRepoStub {
	return &blogPostRepoStub{
		createFn: func(ctx context.Context, post *models.BlogPost) error {
			post.ID = "blog-post-1"
			return nil
		},
		getByIDFn: func(ctx context.Context, id string) (*models.BlogPost, error) {
			return &models.BlogPost{ID: id}, nil
		},
		listFn: func(ctx context.Context, limit, offset int) ([]models.BlogPost, error) {
			return nil, nil
		},
		deleteWithCommentsFn: func(ctx context.Context, id string) error { return nil },
	}
}

type commentRepoStub struct {
	createFn     func(ctx context.Context, comment *models.Comment) error
	getByIDFn    func(ctx context.Context, id string) (*models.Comment, error)
	listByPostFn func(ctx context.Context, postID, postType string) ([]models.Comment, error)
	deleteFn     func(ctx context.Context, id string) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}

func (s *commentRepoStub) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}

func (s *commentRepoStub) ListByPost(ctx context.Context, postID, postType string) ([]models.Comment, error) {
	return s.listByPostFn(ctx, postID, postType)
}

func (s *commentRepoStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(ctx context.Context, comment *models.Comment) error {
			comment.ID = "comment-1"
			return nil
		},
		getByIDFn: func(ctx context.Context, id string) (*models.Comment, error) {
			return &models.Comment{ID: id}, nil
		},
		listByPostFn: func(ctx context.Context, postID, postType string) ([]models.Comment, error) {
			return nil, nil
		},
		deleteFn: func(ctx context.Context, id string) error { return nil },
	}
}

type eventRepoStub struct {
	createFn func(ctx context.Context, event *models.Event) error
	listFn   func(ctx context.Context, status models.EventStatus) ([]models.Event, error)
}

func (s *eventRepoStub) Create(ctx context.Context, event *models.Event) error {
	return s.createFn(ctx, event)
}

func (s *eventRepoStub) List(ctx context.Context, status models.EventStatus) ([]models.Event, error) {
	return s.listFn(ctx, status)
}

func noopEventRepo() *eventRepoStub {
	return &eventRepoStub{
		createFn: func(ctx context.Context, event *models.Event) error {
			event.ID = "event-1"
			return nil
		},
		listFn: func(ctx context.Context, status models.EventStatus) ([]models.Event, error) {
			return nil, nil
		},
	}
}

// scorerFunc adapts a plain function to the moderation.Scorer interface.
type scorerFunc func(ctx context.Context, text string) (float64, error)

func (f scorerFunc) Score(ctx context.Context, text string) (float64, error) {
	return f(ctx, text)
}

func passingChecker() *moderation.Checker {
	return moderation.NewChecker(scorerFunc(func(ctx context.Context, text string) (float64, error) {
		return 0, nil
	}))
}

// unavailableChecker fails every scoring call, which rejects fail-closed.
func unavailableChecker() *moderation.Checker {
	return moderation.NewChecker(scorerFunc(func(ctx context.Context, text string) (float64, error) {
		return 0, context.DeadlineExceeded
	}))
}

// rejectingChecker scores each text found in scores as given and
// everything else as clean.
func rejectingChecker(scores map[string]float64) *moderation.Checker {
	return moderation.NewChecker(scorerFunc(func(ctx context.Context, text string) (float64, error) {
		if score, ok := scores[text]; ok {
			return score, nil
		}
		return 0, nil
	}))
}

func testUser(id string, role models.Role) *models.User {
	return &models.User{
		ID:         id,
		ExternalID: "ext-" + id,
		Username:   id,
		Role:       role,
	}
}

func claimsFor(user *models.User) *identity.Claims {
	return &identity.Claims{
		ExternalID: user.ExternalID,
		Username:   user.Username,
		Email:      user.Email,
		Avatar:     user.Avatar,
		Role:       string(user.Role),
	}
}

func assertAppErrorCode(t *testing.T, err error, code string) *models.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected *models.AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func assertUnauthenticatedError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "UNAUTHENTICATED")
}

func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "FORBIDDEN")
}
