package server

import (
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetCategories handles GET /api/categories
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.categoryService.List(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	views := make([]CategoryView, 0, len(categories))
	for i := range categories {
		views = append(views, toCategoryView(&categories[i]))
	}
	return c.JSON(views)
}

// GetCategory handles GET /api/categories/:id
func (s *Server) GetCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	category, err := s.categoryService.GetByID(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toCategoryView(category))
}

// GetCategoryPosts handles GET /api/categories/:id/posts
func (s *Server) GetCategoryPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	posts, err := s.postService.GetByCategoryID(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toPostPreviewViews(posts))
}

// GetCategoryPostsByName handles GET /api/categories/by-name/:name/posts
func (s *Server) GetCategoryPostsByName(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return fail(c, models.NewBadRequestError("Category name is required"))
	}

	posts, err := s.postService.GetByCategoryName(c.UserContext(), name)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toPostPreviewViews(posts))
}

// CreateCategory handles POST /api/categories
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewBadRequestError("Invalid request body"))
	}

	category, err := s.categoryService.Create(c.UserContext(), req.Name)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCategoryView(category))
}

// RenameCategory handles PUT /api/categories/:id
func (s *Server) RenameCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewBadRequestError("Invalid request body"))
	}

	category, err := s.categoryService.Rename(c.UserContext(), id, req.Name)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toCategoryView(category))
}

// DeleteCategory handles DELETE /api/categories/:id
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.categoryService.Delete(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetTags handles GET /api/tags
func (s *Server) GetTags(c *fiber.Ctx) error {
	tags, err := s.tagService.List(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	views := make([]TagView, 0, len(tags))
	for i := range tags {
		views = append(views, toTagView(&tags[i]))
	}
	return c.JSON(views)
}

// GetTag handles GET /api/tags/:id
func (s *Server) GetTag(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	tag, err := s.tagService.GetByID(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toTagView(tag))
}

// GetTagPosts handles GET /api/tags/by-name/:name/posts
func (s *Server) GetTagPosts(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return fail(c, models.NewBadRequestError("Tag name is required"))
	}

	posts, err := s.postService.GetByTagName(c.UserContext(), name)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toPostPreviewViews(posts))
}

// CreateTag handles POST /api/tags
func (s *Server) CreateTag(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewBadRequestError("Invalid request body"))
	}

	tag, err := s.tagService.Create(c.UserContext(), req.Name)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTagView(tag))
}

// RenameTag handles PUT /api/tags/:id
func (s *Server) RenameTag(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewBadRequestError("Invalid request body"))
	}

	tag, err := s.tagService.Rename(c.UserContext(), id, req.Name)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toTagView(tag))
}

// DeleteTag handles DELETE /api/tags/:id
func (s *Server) DeleteTag(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.tagService.Delete(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
