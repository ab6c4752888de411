package server

import (
	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetByID(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	if user == nil {
		return fail(c, models.NewNotFoundError("User", id))
	}
	return c.JSON(toUserSummaryView(user))
}

// GetUserProfileByUsername handles GET /api/users/by-username/:username. The
// profile page payload bundles the summary, counters, and the author's three
// most recent posts.
func (s *Server) GetUserProfileByUsername(c *fiber.Ctx) error {
	username := c.Params("username")
	ctx := c.UserContext()

	user, err := s.userService.GetByUsername(ctx, username)
	if err != nil {
		return fail(c, err)
	}
	if user == nil {
		return fail(c, &models.AppError{Code: models.CodeNotFound, Message: "User not found"})
	}

	stats, err := s.userService.GetStats(ctx, user.ID)
	if err != nil {
		return fail(c, err)
	}
	recent, err := s.postService.GetRecentByAuthor(ctx, user.ID, 3)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(UserProfileView{
		UserSummaryView: toUserSummaryView(user),
		Stats:           stats,
		RecentPosts:     toPostPreviewViews(recent),
	})
}

// ListUsers handles GET /api/users
func (s *Server) ListUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	users, err := s.userService.List(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return fail(c, err)
	}

	views := make([]UserSummaryView, 0, len(users))
	for i := range users {
		views = append(views, toUserSummaryView(&users[i]))
	}
	return c.JSON(views)
}

// GetMyProfile handles GET /api/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetByID(c.UserContext(), currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	if user == nil {
		return fail(c, models.NewUnauthorizedError("Account no longer exists"))
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req service.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewBadRequestError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), currentUserID(c), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

// GetUserStats handles GET /api/users/:id/stats
func (s *Server) GetUserStats(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	stats, err := s.userService.GetStats(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(stats)
}
