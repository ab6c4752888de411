// Package service implements the business logic layer on top of the
// repository bundle. Services own validation, authorization checks, and the
// transactional boundaries of every mutation.
package service

import (
	"context"
	"time"

	"quill/internal/cache"
	"quill/internal/models"
	"quill/internal/repository"
)

// SubscriptionService manages follow relationships between users.
type SubscriptionService struct {
	uow repository.UnitOfWork
}

// NewSubscriptionService returns a new SubscriptionService.
func NewSubscriptionService(uow repository.UnitOfWork) *SubscriptionService {
	return &SubscriptionService{uow: uow}
}

// Subscribe makes subscriberID follow targetID. A brand new pair inserts an
// active row; a previously cancelled pair is reactivated in place. Following
// yourself or someone you already follow is rejected.
func (s *SubscriptionService) Subscribe(ctx context.Context, subscriberID, targetID uint) (*models.Subscription, error) {
	if subscriberID == targetID {
		return nil, models.NewInvalidOperationError("You cannot subscribe to yourself")
	}

	var result *models.Subscription
	err := s.uow.Do(ctx, func(tx *repository.Tx) error {
		target, err := tx.Users.GetByID(ctx, targetID)
		if err != nil {
			return err
		}
		if target == nil {
			return models.NewNotFoundError("User", targetID)
		}

		existing, err := tx.Subscriptions.Find(ctx, subscriberID, targetID)
		if err != nil {
			return err
		}

		switch {
		case existing == nil:
			sub := &models.Subscription{
				SubscriberID:   subscriberID,
				SubscribedToID: targetID,
				IsActive:       true,
			}
			if err := tx.Subscriptions.Create(ctx, sub); err != nil {
				if repository.IsUniqueViolation(err) {
					return models.NewConflictError("You are already subscribed to this user")
				}
				return err
			}
			result = sub
		case existing.IsActive:
			return models.NewConflictError("You are already subscribed to this user")
		default:
			now := time.Now()
			existing.IsActive = true
			existing.UpdatedAt = &now
			if err := tx.Subscriptions.Update(ctx, existing); err != nil {
				return err
			}
			result = existing
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.Delete(ctx, cache.FollowerCountKey(targetID))
	return result, nil
}

// Unsubscribe cancels the follow from subscriberID to targetID. It is
// idempotent: a missing or already cancelled subscription is a no-op.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, subscriberID, targetID uint) error {
	if subscriberID == targetID {
		return models.NewInvalidOperationError("You cannot unsubscribe from yourself")
	}

	err := s.uow.Do(ctx, func(tx *repository.Tx) error {
		existing, err := tx.Subscriptions.Find(ctx, subscriberID, targetID)
		if err != nil {
			return err
		}
		if existing == nil || !existing.IsActive {
			return nil
		}

		now := time.Now()
		existing.IsActive = false
		existing.UpdatedAt = &now
		return tx.Subscriptions.Update(ctx, existing)
	})
	if err != nil {
		return err
	}

	cache.Delete(ctx, cache.FollowerCountKey(targetID))
	return nil
}

// GetFollowing returns the users userID actively follows.
func (s *SubscriptionService) GetFollowing(ctx context.Context, userID uint) ([]*models.Subscription, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.uow.Repos().Subscriptions.ListFollowing(ctx, userID)
}

// GetFollowers returns the users actively following userID.
func (s *SubscriptionService) GetFollowers(ctx context.Context, userID uint) ([]*models.Subscription, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.uow.Repos().Subscriptions.ListFollowers(ctx, userID)
}

// IsSubscribed reports whether subscriberID actively follows targetID.
func (s *SubscriptionService) IsSubscribed(ctx context.Context, subscriberID, targetID uint) (bool, error) {
	sub, err := s.uow.Repos().Subscriptions.Find(ctx, subscriberID, targetID)
	if err != nil {
		return false, err
	}
	return sub != nil && sub.IsActive, nil
}

func (s *SubscriptionService) requireUser(ctx context.Context, userID uint) error {
	user, err := s.uow.Repos().Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return models.NewNotFoundError("User", userID)
	}
	return nil
}
