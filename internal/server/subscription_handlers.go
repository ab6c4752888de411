package server

import (
	"github.com/gofiber/fiber/v2"
)

// Subscribe handles POST /api/subscriptions/:userId
func (s *Server) Subscribe(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	sub, err := s.subscriptionService.Subscribe(c.UserContext(), currentUserID(c), targetID)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"subscribed_to_id":  sub.SubscribedToID,
		"subscription_date": sub.SubscriptionDate(),
	})
}

// Unsubscribe handles DELETE /api/subscriptions/:userId
func (s *Server) Unsubscribe(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.subscriptionService.Unsubscribe(c.UserContext(), currentUserID(c), targetID); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetSubscriptionStatus handles GET /api/subscriptions/:userId/status
func (s *Server) GetSubscriptionStatus(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	subscribed, err := s.subscriptionService.IsSubscribed(c.UserContext(), currentUserID(c), targetID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"subscribed": subscribed})
}

// GetFollowers handles GET /api/users/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	subs, err := s.subscriptionService.GetFollowers(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toFollowerViews(subs))
}

// GetFollowing handles GET /api/users/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	subs, err := s.subscriptionService.GetFollowing(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toFollowingViews(subs))
}
