package service

import (
	"context"
	"strings"
	"time"

	"quill/internal/cache"
	"quill/internal/models"
	"quill/internal/repository"
)

const followerCountTTL = 5 * time.Minute

// UpdateProfileInput carries a partial profile update. Nil fields are left
// untouched.
type UpdateProfileInput struct {
	Name              *string `json:"name"`
	Surname           *string `json:"surname"`
	ProfilePictureURL *string `json:"profile_picture_url"`
}

// UserStats aggregates a user's public counters.
type UserStats struct {
	PostCount      int64 `json:"post_count"`
	FollowerCount  int64 `json:"follower_count"`
	FollowingCount int64 `json:"following_count"`
}

// UserService provides user profile business logic.
type UserService struct {
	uow repository.UnitOfWork
}

// NewUserService returns a new UserService.
func NewUserService(uow repository.UnitOfWork) *UserService {
	return &UserService{uow: uow}
}

// GetByID returns the user, or nil when no such user exists.
func (s *UserService) GetByID(ctx context.Context, userID uint) (*models.User, error) {
	return s.uow.Repos().Users.GetByID(ctx, userID)
}

// GetByUsername returns the user with the given username, or nil.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.uow.Repos().Users.GetByUsername(ctx, username)
}

// List returns a page of users.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.uow.Repos().Users.List(ctx, limit, offset)
}

// UpdateProfile applies a partial update to the caller's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*models.User, error) {
	var updated *models.User
	err := s.uow.Do(ctx, func(tx *repository.Tx) error {
		user, err := tx.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return models.NewNotFoundError("User", userID)
		}

		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return models.NewBadRequestError("Name cannot be empty")
			}
			user.Name = name
		}
		if in.Surname != nil {
			user.Surname = strings.TrimSpace(*in.Surname)
		}
		if in.ProfilePictureURL != nil {
			user.ProfilePictureURL = *in.ProfilePictureURL
		}

		now := time.Now()
		user.UpdatedAt = &now
		if err := tx.Users.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetStats returns the user's post and subscription counters. The follower
// count is cached; subscription changes invalidate it.
func (s *UserService) GetStats(ctx context.Context, userID uint) (*UserStats, error) {
	repos := s.uow.Repos()

	user, err := repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", userID)
	}

	posts, err := repos.Posts.CountByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}

	var followers int64
	key := cache.FollowerCountKey(userID)
	if !cache.GetJSON(ctx, "follower_count", key, &followers) {
		followers, err = repos.Subscriptions.CountFollowers(ctx, userID)
		if err != nil {
			return nil, err
		}
		cache.SetJSON(ctx, key, followers, followerCountTTL)
	}

	following, err := repos.Subscriptions.CountFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserStats{
		PostCount:      posts,
		FollowerCount:  followers,
		FollowingCount: following,
	}, nil
}
