package server

import (
	"sort"

	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

const defaultFeedSize = 20

// GetRecentPosts handles GET /api/posts. Optional filters: ?category=,
// ?tag=, ?count=.
func (s *Server) GetRecentPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()

	if name := c.Query("category"); name != "" {
		posts, err := s.postService.GetByCategoryName(ctx, name)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(toPostPreviewViews(posts))
	}
	if name := c.Query("tag"); name != "" {
		posts, err := s.postService.GetByTagName(ctx, name)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(toPostPreviewViews(posts))
	}

	count := c.QueryInt("count", defaultFeedSize)
	posts, err := s.postService.GetRecent(ctx, count)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toPostPreviewViews(posts))
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetByID(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	// Drafts are visible to their author only; everyone else gets a 404
	// rather than a hint that the post exists.
	if post == nil || (post.Status == models.PostStatusDraft && post.UserID != currentUserID(c)) {
		return fail(c, models.NewNotFoundError("Post", id))
	}
	return c.JSON(toPostView(post))
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req service.CreatePostInput
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewBadRequestError("Invalid request body"))
	}

	post, err := s.postService.Create(c.UserContext(), currentUserID(c), req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPostView(post))
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req service.UpdatePostInput
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewBadRequestError("Invalid request body"))
	}

	post, err := s.postService.Update(c.UserContext(), currentUserID(c), id, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toPostView(post))
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.Delete(c.UserContext(), currentUserID(c), id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetUserPosts handles GET /api/users/:id/posts. Optional ?count= limits to
// the author's most recent posts.
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	ctx := c.UserContext()
	if count := c.QueryInt("count", 0); count > 0 {
		posts, err := s.postService.GetRecentByAuthor(ctx, id, count)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(toPostPreviewViews(posts))
	}

	posts, err := s.postService.GetByAuthor(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toPostPreviewViews(posts))
}

// GetMyFeed handles GET /api/me/feed: recent posts from followed authors.
func (s *Server) GetMyFeed(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	following, err := s.subscriptionService.GetFollowing(ctx, userID)
	if err != nil {
		return fail(c, err)
	}

	count := c.QueryInt("count", defaultFeedSize)
	if count < 1 || count > maxPaginationLimit {
		count = defaultFeedSize
	}

	feed := make([]PostPreviewView, 0, count)
	for _, sub := range following {
		posts, err := s.postService.GetRecentByAuthor(ctx, sub.SubscribedToID, count)
		if err != nil {
			return fail(c, err)
		}
		feed = append(feed, toPostPreviewViews(posts)...)
	}

	// Merge per-author slices into one newest-first feed.
	sort.Slice(feed, func(i, j int) bool {
		if !feed[i].CreatedAt.Equal(feed[j].CreatedAt) {
			return feed[i].CreatedAt.After(feed[j].CreatedAt)
		}
		return feed[i].ID < feed[j].ID
	})
	if len(feed) > count {
		feed = feed[:count]
	}
	return c.JSON(feed)
}
